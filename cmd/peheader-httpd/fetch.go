package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	peheader "github.com/ianatha/go-peheader"
)

// resolve maps a ?from= value onto the origin. from must be an absolute
// path with an optional query; the result always has the origin's scheme
// and host.
func (s *server) resolve(from string) (*url.URL, error) {
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return nil, fmt.Errorf("from %q is not an absolute path", from)
	}
	ref, err := url.Parse(from)
	if err != nil {
		return nil, fmt.Errorf("invalid from %q: %w", from, err)
	}
	if ref.Scheme != "" || ref.Host != "" || ref.User != nil {
		return nil, fmt.Errorf("from %q is not a path", from)
	}

	target := s.origin.JoinPath(ref.Path)
	target.RawQuery = ref.RawQuery
	if target.Scheme != s.origin.Scheme || target.Host != s.origin.Host {
		return nil, errors.New("from resolves outside the origin")
	}
	return target, nil
}

func (s *server) fetch(ctx context.Context, target *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad response code %s", resp.Status)
	}
	return peheader.ReadAll(resp.Body, s.maxBody)
}

// fetchFrom returns the cached contents for target, fetching them from the
// origin on a miss. Failed fetches are not cached.
func (s *server) fetchFrom(ctx context.Context, target *url.URL) ([]byte, error) {
	key := target.String()
	if cached, ok := s.cache.Load(key); ok {
		return cached, nil
	}

	res, err := s.fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	s.remember(key, res)
	return res, nil
}

// remember stores contents under key, evicting other entries until at most
// cacheMax remain.
func (s *server) remember(key string, contents []byte) {
	if s.cacheMax <= 0 {
		return
	}
	s.cache.Store(key, contents)
	for s.cache.Size() > s.cacheMax {
		evicted := false
		s.cache.Range(func(k string, _ []byte) bool {
			if k == key {
				return true
			}
			s.cache.Delete(k)
			evicted = true
			return false
		})
		if !evicted {
			return
		}
	}
}
