package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Pinger reports whether the store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Connector reports whether the chat transport is logged in.
type Connector interface {
	IsConnected() bool
}

type Server struct {
	db       Pinger
	telegram Connector
	httpSrv  *http.Server
	port     int
	logger   *zap.SugaredLogger
}

// ServerConfig holds what the health endpoints need.
type ServerConfig struct {
	DB       Pinger
	Telegram Connector
	Port     int
	Logger   *zap.SugaredLogger
}

func New(cfg ServerConfig) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}

	s := &Server{
		db:       cfg.DB,
		telegram: cfg.Telegram,
		port:     cfg.Port,
		logger:   cfg.Logger,
	}

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewMux()

	r.Use(s.requestLogger, middleware.Recoverer, middleware.StripSlashes)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not found")
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debugw("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady checks the database and, when configured, the Telegram login.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{
		"status":   "ready",
		"database": "up",
		"telegram": "disconnected",
	}

	code := http.StatusOK
	if s.db == nil {
		status["database"] = "missing"
		code = http.StatusServiceUnavailable
	} else if err := s.db.Ping(ctx); err != nil {
		s.logger.Warnw("readiness: database ping failed", "error", err)
		status["database"] = "down"
		code = http.StatusServiceUnavailable
	}
	if s.telegram != nil && s.telegram.IsConnected() {
		status["telegram"] = "connected"
	}

	if code != http.StatusOK {
		status["status"] = "unavailable"
	}
	respondJSON(w, code, status)
}

func (s *Server) Start() error {
	s.logger.Infof("Starting HTTP server on http://localhost:%d", s.port)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler for testing purposes
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
