package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	peheader "github.com/ianatha/go-peheader"
	"github.com/puzpuzpuz/xsync/v3"
	log "github.com/sirupsen/logrus"
)

// defaultCacheMax is the number of origin responses kept when CACHE_MAX is
// not set.
const defaultCacheMax = 64

type server struct {
	// origin is nil when ?from= lookups are disabled.
	origin   *url.URL
	maxBody  int64
	cacheMax int
	client   *http.Client
	cache    *xsync.MapOf[string, []byte]
}

// newServer validates origin, which must be empty or an absolute http(s)
// URL. At most cacheMax origin responses of at most maxBody bytes each are
// cached; cacheMax <= 0 disables the cache.
func newServer(origin string, maxBody int64, cacheMax int) (*server, error) {
	s := &server{
		maxBody:  maxBody,
		cacheMax: cacheMax,
		client:   &http.Client{Timeout: 30 * time.Second},
		cache:    xsync.NewMapOf[string, []byte](),
	}
	if origin == "" {
		return s, nil
	}
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid ORIGIN %q: %w", origin, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid ORIGIN %q: need an http or https URL with a host", origin)
	}
	s.origin = u
	return s, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(newLoggingMiddleware())

	r.Get("/", indexHandler)
	r.Post("/inspect", s.inspectBodyHandler)
	r.Get("/inspect", s.inspectFromHandler)
	r.Get("/prime", s.primeHandler)
	return r
}

func indexHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "OK")
}

func newLoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.WithFields(log.Fields{
				"method":   r.Method,
				"url":      r.URL.String(),
				"status":   ww.Status(),
				"bytes":    ww.BytesWritten(),
				"duration": time.Since(start),
			}).Info("request")
		}
		return http.HandlerFunc(fn)
	}
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	origin := os.Getenv("ORIGIN")
	if origin == "" {
		log.Warn("ORIGIN is not set, ?from= lookups are disabled")
	}

	maxBody := int64(peheader.DefaultMaxSize)
	if v := os.Getenv("MAX_BODY"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			log.Fatalf("invalid MAX_BODY %q", v)
		}
		maxBody = n
	}

	cacheMax := defaultCacheMax
	if v := os.Getenv("CACHE_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			log.Fatalf("invalid CACHE_MAX %q", v)
		}
		cacheMax = n
	}

	s, err := newServer(origin, maxBody, cacheMax)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  5 * time.Second,
		Handler:      s.routes(),
	}

	log.Infof("PORT=%s Starting...", port)

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
