// package server serves the villager catalog and collection as a local JSON API
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/villagedex/internal/state"
	"github.com/desertthunder/villagedex/internal/tasks"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is a self-routing handler: it serves every path it lists for any method.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

const shutdownTimeout = 5 * time.Second

// Options configures [New]. Catalog is required; Collection and Theme default
// to memory-only state.
type Options struct {
	Addr           string
	Catalog        *tasks.Catalog
	Collection     *state.Collection
	Theme          *state.Theme
	Logger         *log.Logger
	MaxSuggestions int
}

// Server is the local HTTP API.
type Server struct {
	addr   string
	router *BasicRouter
	logger *log.Logger
}

// New builds a server with request id, logging and recovery middleware and
// every API route registered.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Catalog == nil {
		opts.Catalog = tasks.NewCatalog(nil)
	}
	if opts.Collection == nil {
		opts.Collection = state.NewCollection(context.Background(), nil, opts.Logger)
	}
	if opts.Theme == nil {
		opts.Theme = state.NewTheme(context.Background(), nil, opts.Logger)
	}
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:8080"
	}

	router := NewBasicRouter()
	router.Use(WithRequestID(), WithLogging(opts.Logger), WithRecover(opts.Logger))

	api := &API{
		catalog:        opts.Catalog,
		collection:     opts.Collection,
		theme:          opts.Theme,
		logger:         opts.Logger,
		maxSuggestions: opts.MaxSuggestions,
	}
	api.Register(router)
	router.Handler(&healthHandler{catalog: opts.Catalog})

	return &Server{addr: opts.Addr, router: router, logger: opts.Logger}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Addr is the configured listen address.
func (s *Server) Addr() string { return s.addr }

// ListenAndServe serves until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving villager API", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

type healthHandler struct {
	catalog *tasks.Catalog
}

func (h *healthHandler) Routes() []string { return []string{"/healthz"} }

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	result := h.catalog.Result()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"source":    result.Source,
		"villagers": len(result.Records),
	})
}
