package http

import (
	"context"
	"mime"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"finanzas/internal/events"
	"finanzas/internal/log"
	"finanzas/internal/storage"
	appweb "finanzas/web"
)

// Server serves the JSON API and the embedded frontend.
type Server struct {
	http.Server
	store        *storage.Store
	publisher    events.Publisher
	logger       *log.Logger
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, store *storage.Store, publisher events.Publisher, logger *log.Logger) *Server {
	s := &Server{
		store:       store,
		publisher:   publisher,
		logger:      logger.WithComponent(log.ComponentServer),
		rateLimiter: newRateLimiter(),
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(s.requestLogger)

	r.Route("/api", func(api chi.Router) {
		api.Get("/categories", s.handleListCategories)
		api.Post("/categories", s.handleSaveCategory)
		api.Post("/categories/delete", s.handleDeleteCategory)

		api.Get("/transactions", s.handleListTransactions)
		api.Post("/transactions", s.handleSaveTransaction)
		api.Post("/transactions/delete", s.handleDeleteTransaction)

		api.Get("/dashboard", s.handleDashboard)
		api.Get("/report", s.handleReport)

		api.Get("/scheduled_expenses", s.handleListScheduledExpenses)
		api.Post("/scheduled_expenses", s.handleSaveScheduledExpense)
		api.Post("/scheduled_expenses/delete", s.handleDeleteScheduledExpense)

		api.Get("/settings", s.handleGetSettings)
		api.Post("/settings", s.handleSaveSetting)

		api.Get("/backup", s.handleBackup)
		api.Post("/reset_database", s.handleResetDatabase)
		api.Post("/export_report", s.handleExportReport)
		api.Post("/export_database", s.handleExportDatabase)
		api.Post("/import_database", s.handleImportDatabase)
	})

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	// Preflight handling is done by the CORS middleware; any other
	// OPTIONS request gets an empty 200 as well.
	r.MethodFunc(http.MethodOptions, "/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Everything else is the embedded frontend.
	r.NotFound(s.handleStatic)

	s.Server = http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "Readiness check failed", log.FieldError, err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleStatic serves the embedded frontend. Unknown GET paths fall back
// to index.html so client-side routing keeps working after a reload.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondJSON(w, http.StatusNotFound, statusResult{Success: false, Error: "not found"})
		return
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		respondJSON(w, http.StatusNotFound, statusResult{Success: false, Error: "unknown endpoint"})
		return
	}

	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" || name == "." {
		name = "index.html"
	}

	data, err := appweb.StaticFS.ReadFile("static/" + name)
	if err != nil {
		name = "index.html"
		data, err = appweb.StaticFS.ReadFile("static/" + name)
		if err != nil {
			http.Error(w, "frontend not available", http.StatusInternalServerError)
			return
		}
	}

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if name != "index.html" {
		// Tiny cache for static assets
		w.Header().Set("Cache-Control", "public, max-age=3600")
	}
	_, _ = w.Write(data)
}
