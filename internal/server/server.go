// Package server exposes the upload/query/evaluate HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"qatbot/internal/chunker"
	"qatbot/internal/db"
	"qatbot/internal/rag"
	"qatbot/internal/vectorstore"
)

// Server wires the ingestion, generation and evaluation components behind
// the HTTP surface.
type Server struct {
	store    *vectorstore.Store
	splitter *chunker.Chunker
	pipeline *rag.Pipeline
	eval     *rag.Evaluator
	ledger   *db.Ledger
	addr     string
	server   *http.Server
}

func New(
	store *vectorstore.Store,
	splitter *chunker.Chunker,
	pipeline *rag.Pipeline,
	eval *rag.Evaluator,
	ledger *db.Ledger,
	addr string,
) *Server {
	return &Server{
		store:    store,
		splitter: splitter,
		pipeline: pipeline,
		eval:     eval,
		ledger:   ledger,
		addr:     addr,
	}
}

// Handler builds the router. Exposed separately from Start for tests.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Post("/upload/", s.handleUpload)
	r.Post("/query/", s.handleQuery)
	r.Post("/evaluate/", s.handleEvaluate)
	r.Get("/", s.handleHealth)
	return r
}

// Start runs the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}
	log.Info().Str("addr", s.addr).Msg("Starting server")
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
