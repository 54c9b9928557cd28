// Package server exposes the game's collaborators over HTTP and serves the
// browser client.
package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/jumpgame/internal/assets"
	"github.com/vovakirdan/jumpgame/internal/speed"
	"github.com/vovakirdan/jumpgame/internal/storage"
)

const sessionHeader = "X-Session-ID"

// Server handles HTTP requests.
type Server struct {
	selector  *assets.Selector
	generator *speed.Generator
	store     storage.Store
	public    fs.FS
	logger    *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithPublic serves static files from fsys at the root.
func WithPublic(fsys fs.FS) Option {
	return func(s *Server) { s.public = fsys }
}

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server around the game's collaborators.
func New(sel *assets.Selector, gen *speed.Generator, store storage.Store, opts ...Option) *Server {
	s := &Server{
		selector:  sel,
		generator: gen,
		store:     store,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes sets up the HTTP routes with middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/getImages", s.handleImages)
	r.Get("/speed", s.handleSpeed)
	r.Get("/record", s.handleBest)
	r.Get("/record/{seconds}", s.handleRecord)

	if s.public != nil {
		r.Handle("/*", http.FileServer(http.FS(s.public)))
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.selector.Pick())
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, strconv.FormatFloat(s.generator.Next(), 'f', -1, 64))
}

func (s *Server) handleBest(w http.ResponseWriter, r *http.Request) {
	best, err := s.store.Best(r.Context())
	if err != nil {
		s.storageFailure(w, r, err)
		return
	}
	writeText(w, http.StatusOK, strconv.Itoa(best))
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	seconds, err := storage.ParseSeconds(chi.URLParam(r, "seconds"))
	if err != nil {
		writeText(w, http.StatusBadRequest, "seconds must be a non-negative integer")
		return
	}

	ctx := r.Context()
	if id := r.Header.Get(sessionHeader); id != "" {
		ctx = storage.WithSessionID(ctx, id)
	}

	best, err := s.store.Report(ctx, seconds)
	switch {
	case errors.Is(err, storage.ErrInvalidRecord):
		writeText(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.storageFailure(w, r, err)
		return
	}
	writeText(w, http.StatusOK, strconv.Itoa(best))
}

func (s *Server) storageFailure(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("record store failed",
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	writeText(w, http.StatusInternalServerError, "record storage unavailable")
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
