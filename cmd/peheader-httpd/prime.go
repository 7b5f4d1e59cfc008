package main

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"
)

func (s *server) primeHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := s.fromParam(w, r)
	if !ok {
		return
	}

	go func() {
		if _, err := s.fetchFrom(context.Background(), target); err != nil {
			log.WithError(err).WithField("from", target.String()).Warn("prime failed")
		}
	}()

	w.Write([]byte("async-ok"))
}
