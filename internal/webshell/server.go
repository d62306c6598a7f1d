// Package webshell is the thin serving layer in front of the admin
// bundle: it hosts the static single-page app and proxies /api traffic
// to the upstream REST API. It holds no domain logic and no session
// state; authorization headers pass through untouched.
package webshell

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server hosts the static admin bundle and the API proxy.
type Server struct {
	cfg    Config
	router *chi.Mux
	logger *slog.Logger
}

// New constructs a Server for the given configuration.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	upstream, err := url.Parse(strings.TrimRight(cfg.APIBaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	if upstream.Scheme == "" || upstream.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", cfg.APIBaseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}

	proxy := httputil.NewSingleHostReverseProxy(upstream)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn("api proxy failed", "path", r.URL.Path, "error", err)
		http.Error(w, `{"message":"upstream api unavailable"}`, http.StatusBadGateway)
	}

	s := &Server{cfg: cfg, router: chi.NewRouter(), logger: logger}
	s.router.Use(middleware.RequestID)
	s.router.Use(s.logRequests)
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.Handle("/api/*", http.StripPrefix("/api", proxy))
	s.router.NotFound(s.serveStatic)
	return s, nil
}

// ServeHTTP conforms to http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// serveStatic serves files from the bundle directory with a single-page
// fallback: unknown non-file paths get index.html so client-side routing
// keeps working after a reload.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}
	full := filepath.Join(s.cfg.StaticDir, filepath.FromSlash(name))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		http.ServeFile(w, r, filepath.Join(s.cfg.StaticDir, "index.html"))
		return
	}
	http.ServeFile(w, r, full)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
