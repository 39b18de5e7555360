// Package api provides the HTTP server for the emissions dashboard: chart
// pages for browsers, a JSON API, and a CSV export of the line-item table.
package api

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"ghg-dashboard/internal/config"
	"ghg-dashboard/internal/dashboard"
	dasherrors "ghg-dashboard/pkg/errors"
)

// Server is the dashboard HTTP server.
type Server struct {
	httpServer *http.Server
	workspace  *dashboard.Workspace
	config     *Config
	log        *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		CORSOrigins:  []string{"*"},
	}
}

// FromAppConfig derives server configuration from the application config.
func FromAppConfig(app *config.Config) *Config {
	cfg := DefaultConfig()
	cfg.Port = app.Port
	cfg.CORSOrigins = app.CORSOrigins
	return cfg
}

// NewServer creates a dashboard server over a workspace.
func NewServer(workspace *dashboard.Workspace, cfg *Config, log *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{workspace: workspace, config: cfg, log: log}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Chart pages
	mux.HandleFunc("/", s.handleHomePage)
	mux.HandleFunc("/energy", s.handleEnergyPage)
	mux.HandleFunc("/vehicles", s.handleVehiclesPage)
	mux.HandleFunc("/participation", s.handleParticipationPage)
	mux.HandleFunc("/solar", s.handleSolarPage)
	mux.HandleFunc("/savings", s.handleSavingsPage)
	mux.HandleFunc("/residential", s.handleResidentialPage)

	// JSON API
	mux.HandleFunc("/api/v1/summary", s.handleSummary)
	mux.HandleFunc("/api/v1/energy", s.handleEnergy)
	mux.HandleFunc("/api/v1/vehicles", s.handleVehicles)
	mux.HandleFunc("/api/v1/participation", s.handleParticipation)
	mux.HandleFunc("/api/v1/solar", s.handleSolar)
	mux.HandleFunc("/api/v1/savings", s.handleSavings)
	mux.HandleFunc("/api/v1/residential", s.handleResidential)
	mux.HandleFunc("/api/v1/export", s.handleExport)

	mux.HandleFunc("/health", s.handleHealth)

	handler := s.corsMiddleware(s.loggingMiddleware(mux))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.log.Info("dashboard server starting", "port", s.config.Port)
	return s.httpServer.ListenAndServe()
}

// StartWithGracefulShutdown starts the server and drains it on SIGINT or
// SIGTERM.
func (s *Server) StartWithGracefulShutdown() error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.Start(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-quit:
		s.log.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New()
		w.Header().Set("X-Request-ID", requestID.String())
		next.ServeHTTP(w, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"request_id", requestID,
			"duration", time.Since(start))
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		allowed := false
		for _, o := range s.config.CORSOrigins {
			if o == "*" || o == origin {
				allowed = true
				break
			}
		}

		if allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "86400")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// HEALTH
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "1.0.0",
	})
}

// =============================================================================
// JSON API
// =============================================================================

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	view, err := s.workspace.Summary()
	if err != nil {
		s.viewError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleEnergy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	view, err := s.workspace.Energy()
	if err != nil {
		s.viewError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	view, err := s.workspace.Vehicles()
	if err != nil {
		s.viewError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleParticipation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	view, err := s.workspace.Participation()
	if err != nil {
		s.viewError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleSolar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	view, err := s.workspace.Solar()
	if err != nil {
		s.viewError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleSavings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	view, err := s.workspace.Savings()
	if err != nil {
		s.viewError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleResidential(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	view, err := s.workspace.Residential()
	if err != nil {
		s.viewError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

// handleExport streams the full line-item table as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rows, err := s.workspace.Export()
	if err != nil {
		s.viewError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=emissions_%s.csv", time.Now().Format("2006-01-02")))

	cw := csv.NewWriter(w)
	cw.Write([]string{"period", "category", "quantity", "unit", "emissions_kg_co2e"})
	for _, row := range rows {
		cw.Write([]string{
			string(row.Period),
			row.Category,
			row.Quantity.String(),
			string(row.Unit),
			row.KgCO2e.String(),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		s.log.Error("csv export write failed", "error", err)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{
		"error": message,
	})
}

// viewError maps dataset failures onto HTTP status codes. A missing file is
// reported as unavailable so the caller can tell "data not published yet"
// from a server bug.
func (s *Server) viewError(w http.ResponseWriter, err error) {
	var de *dasherrors.DashError
	if errors.As(err, &de) {
		status := http.StatusInternalServerError
		if de.Code == dasherrors.ErrCodeMissingFile {
			status = http.StatusServiceUnavailable
		}
		s.log.Warn("view unavailable", "code", de.Code, "dataset", de.Dataset, "error", de.Message)
		s.jsonResponse(w, status, map[string]string{
			"error": de.Message,
			"code":  de.Code,
		})
		return
	}
	s.log.Error("view failed", "error", err)
	s.jsonError(w, http.StatusInternalServerError, err.Error())
}
