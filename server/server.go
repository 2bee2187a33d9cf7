package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/tubehook/pkg/domain"
	"github.com/umputun/tubehook/pkg/feed"
	"github.com/umputun/tubehook/pkg/registry"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/registry.go -pkg mocks -skip-ensure -fmt goimports . Registry
//go:generate moq -out mocks/pipeline.go -pkg mocks -skip-ensure -fmt goimports . Pipeline
//go:generate moq -out mocks/reporter.go -pkg mocks -skip-ensure -fmt goimports . Reporter

// maxPushSize limits request body, pushed feeds are a few KB
const maxPushSize = 1024 * 1024

// Server represents HTTP server instance
type Server struct {
	config   ConfigProvider
	registry Registry
	pipeline Pipeline
	reporter Reporter
	version  string
	debug    bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetAPIToken() string
	GetCallbackPath() string
}

// Registry manages channel subscriptions
type Registry interface {
	ListAll(ctx context.Context) ([]domain.Subscription, error)
	Add(ctx context.Context, channelID string) error
	Remove(ctx context.Context, channelID string) error
	RenewAll(ctx context.Context) (registry.RenewResult, error)
}

// Pipeline processes pushed content
type Pipeline interface {
	Process(ctx context.Context, signatureHeader string, body []byte) (feed.Kind, error)
}

// Reporter sends failure reports, best-effort
type Reporter interface {
	Report(ctx context.Context, what string, err error) error
}

// New initializes a new server instance
func New(cfg ConfigProvider, reg Registry, pipeline Pipeline, reporter Reporter, version string, debug bool) *Server {
	s := &Server{
		config:   cfg,
		registry: reg,
		pipeline: pipeline,
		reporter: reporter,
		version:  version,
		debug:    debug,
		router:   routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// ServeHTTP makes server usable as http.Handler, mostly for tests
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("tubehook", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(maxPushSize))
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	// hub callbacks
	callback := s.config.GetCallbackPath()
	s.router.HandleFunc("GET "+callback, s.verifyHandler)
	s.router.HandleFunc("POST "+callback, s.pushHandler)

	s.router.HandleFunc("GET /status", s.statusHandler)

	// management api
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.Use(s.authMiddleware)
		r.HandleFunc("GET /subscriptions", s.listHandler)
		r.HandleFunc("POST /subscriptions", s.addHandler)
		r.HandleFunc("DELETE /subscriptions", s.removeHandler)
		r.HandleFunc("POST /subscriptions/renew", s.renewHandler)
	})
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// renderJSON sends JSON response with status code
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError logs the error, reports server side failures to the sink and sends
// JSON error with public message only
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, code int, err error, msg string) {
	if code >= http.StatusInternalServerError && s.reporter != nil {
		what := fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		if repErr := s.reporter.Report(context.WithoutCancel(r.Context()), what, err); repErr != nil {
			lgr.Printf("[WARN] can't report error: %v", repErr)
		}
	}
	rest.SendErrorJSON(w, r, lgr.Default(), code, err, msg)
}
