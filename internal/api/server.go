// Package api exposes the expense store over HTTP with JSON bodies.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/expenseflow/expenseflow/internal/common"
	"github.com/expenseflow/expenseflow/internal/model"
	"github.com/expenseflow/expenseflow/internal/service"
)

// Server handles HTTP requests against the expense storage layer.
type Server struct {
	store  service.Storage
	logger *slog.Logger
}

// NewServer creates a server backed by the given storage.
func NewServer(store service.Storage, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS: the browser client is served from a different origin in dev.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         86400,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Put("/{id}", s.handleUpdate)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.store.ListExpenses(r.Context())
	if err != nil {
		s.logger.Error("Failed to list expenses", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}

	if expenses == nil {
		expenses = []model.Expense{}
	}
	s.respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	expense, err := s.store.GetExpense(r.Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.logger.Error("Failed to load expense", "id", id, "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to load expense")
		return
	}

	s.respondJSON(w, http.StatusOK, expense)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var incoming model.Expense
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.store.CreateExpense(r.Context(), incoming)
	if err != nil {
		s.logger.Error("Failed to create expense", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to create expense")
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch model.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.store.UpdateExpense(r.Context(), id, patch)
	if errors.Is(err, common.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.logger.Error("Failed to update expense", "id", id, "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to update expense")
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
