// Package server provides the HTTP API for Vitrine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/vitrine/internal/config"
	"github.com/hyperjump/vitrine/internal/history"
	"github.com/hyperjump/vitrine/internal/metrics"
	"github.com/hyperjump/vitrine/internal/modal"
	"github.com/hyperjump/vitrine/internal/models"
	"github.com/hyperjump/vitrine/internal/search"
)

// Catalog is the read side of the item catalog used by the API.
type Catalog interface {
	Items() []*models.Item
	Get(id string) (*models.Item, bool)
	Len() int
}

// Server is the HTTP server for the Vitrine API.
type Server struct {
	engine  *search.Engine
	catalog Catalog
	history *history.Manager
	metrics *metrics.Metrics
	modals  *modal.Controller
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies. m may be nil, in
// which case no metrics are recorded or exposed; modals may be nil to leave
// the modal routes unmounted.
func NewServer(
	engine *search.Engine,
	catalog Catalog,
	hist *history.Manager,
	m *metrics.Metrics,
	modals *modal.Controller,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:  engine,
		catalog: catalog,
		history: hist,
		metrics: m,
		modals:  modals,
		config:  cfg,
		logger:  logger,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/suggestions", s.handleSuggestions)
		r.Get("/items", s.handleListItems)
		r.Get("/items/{id}", s.handleGetItem)

		r.Route("/searches", func(r chi.Router) {
			r.Get("/recent", s.handleRecent)
			r.Delete("/recent", s.handleClearRecent)
			r.Get("/popular", s.handlePopular)
			r.Get("/history", s.handleHistory)
			r.Get("/saved", s.handleListSaved)
			r.Post("/saved", s.handleSaveSearch)
			r.Get("/saved/{id}", s.handleGetSaved)
			r.Patch("/saved/{id}", s.handleRenameSaved)
			r.Delete("/saved/{id}", s.handleDeleteSaved)
			r.Post("/saved/{id}/use", s.handleUseSaved)
		})

		if s.modals != nil {
			r.Route("/modals", func(r chi.Router) {
				r.Get("/", s.handleListModals)
				r.Post("/", s.handleOpenModal)
				r.Delete("/", s.handleCloseAllModals)
				r.Post("/keys", s.handleModalKey)
				r.Delete("/{id}", s.handleCloseModal)
				r.Post("/{id}/{action}", s.handleModalAction)
			})
		}
	})
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
