// Package server serves the dashboard over HTTP. Every page request is a
// fresh mount with its own loader.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cobenefits-atlas/internal/config"
	"github.com/sells-group/cobenefits-atlas/internal/dashboard"
	"github.com/sells-group/cobenefits-atlas/internal/fetcher"
	"github.com/sells-group/cobenefits-atlas/internal/loader"
	"github.com/sells-group/cobenefits-atlas/internal/view"
)

const shutdownTimeout = 10 * time.Second

// Server is the dashboard HTTP server.
type Server struct {
	cfg     *config.Config
	fetcher fetcher.Fetcher
	router  chi.Router
}

// New builds the router. f fetches the data files for page mounts; pass
// nil to derive one from cfg.
func New(cfg *config.Config, f fetcher.Fetcher) *Server {
	if f == nil {
		f = fetcher.New(cfg.Data, cfg.Fetch)
	}
	s := &Server{cfg: cfg, fetcher: f}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handlePage)

	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.Server.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			MaxAge:         300,
		}))
		r.Get("/data/{file}", s.handleData)
		r.Get("/api/view", s.handleAPIView)
	})
	return r
}

// ListenAndServe serves on the configured port until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- eris.Wrap(err, "server listen")
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server shutdown")
	}
	return <-errCh
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	v, err := s.mount(r)
	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := view.HTML(w, v); err != nil {
		zap.L().Error("render page", zap.Error(err))
	}
}

func (s *Server) handleAPIView(w http.ResponseWriter, r *http.Request) {
	v, err := s.mount(r)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, v)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleData serves the three configured data files and nothing else from
// the data directory.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	switch name {
	case s.cfg.Data.SummaryFile, s.cfg.Data.RegionalFile, s.cfg.Data.TimelineFile:
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown data file"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, filepath.Join(s.cfg.Data.Dir, filepath.Base(name)))
}

func (s *Server) mount(r *http.Request) (dashboard.View, error) {
	return dashboard.Mount(r.Context(), s.fetcher, loader.ResourcesFrom(s.cfg.Data), r.URL.Query().Get("region"))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}
