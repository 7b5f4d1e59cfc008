package main

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/render"
	peheader "github.com/ianatha/go-peheader"
	"github.com/ianatha/go-peheader/dump"
)

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Offset *int   `json:"offset,omitempty"`
}

func fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	resp := errorResponse{Error: err.Error(), Kind: peheader.Kind(err)}
	var de *peheader.DecodeError
	if errors.As(err, &de) {
		resp.Offset = &de.Offset
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}

func respond(w http.ResponseWriter, r *http.Request, contents []byte) {
	img, err := peheader.Parse(contents)
	if err != nil {
		fail(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	render.JSON(w, r, dump.NewDocument(img))
}

func (s *server) inspectBodyHandler(w http.ResponseWriter, r *http.Request) {
	contents, err := peheader.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody+1), s.maxBody)
	if errors.Is(err, peheader.ErrTooLarge) {
		fail(w, r, http.StatusRequestEntityTooLarge, err)
		return
	}
	if err != nil {
		fail(w, r, http.StatusBadRequest, err)
		return
	}
	respond(w, r, contents)
}

func (s *server) inspectFromHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := s.fromParam(w, r)
	if !ok {
		return
	}

	contents, err := s.fetchFrom(r.Context(), target)
	if err != nil {
		fail(w, r, http.StatusBadGateway, err)
		return
	}
	respond(w, r, contents)
}

// fromParam resolves the ?from= path against the origin, writing an error
// response when it is missing, invalid or lookups are disabled.
func (s *server) fromParam(w http.ResponseWriter, r *http.Request) (*url.URL, bool) {
	if s.origin == nil {
		fail(w, r, http.StatusNotFound, errors.New("origin lookups are disabled"))
		return nil, false
	}
	from := r.URL.Query().Get("from")
	if from == "" {
		fail(w, r, http.StatusBadRequest, errors.New("bad input data"))
		return nil, false
	}
	target, err := s.resolve(from)
	if err != nil {
		fail(w, r, http.StatusBadRequest, err)
		return nil, false
	}
	return target, true
}
