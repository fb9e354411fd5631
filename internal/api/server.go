package api

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address used by `kenburns serve`.
	DefaultAddr = ":8080"

	// DefaultMaxBodyBytes caps the size of request bodies.
	DefaultMaxBodyBytes = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// Server routes HTTP requests to a pipeline runner.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody   int64
	imageRoot string
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBodyBytes overrides [DefaultMaxBodyBytes].
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithImageRoot sets the directory that image paths in plan requests are
// resolved against. Requests may only name relative paths below it.
func WithImageRoot(dir string) Option {
	return func(s *Server) {
		if dir != "" {
			s.imageRoot = dir
		}
	}
}

// New creates a server over runner. A nil logger uses log.Default().
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:    runner,
		logger:    logger,
		maxBody:   DefaultMaxBodyBytes,
		imageRoot: ".",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// resolveImage maps a request image path into the image root.
func (s *Server) resolveImage(p string) (string, error) {
	if err := errors.ValidatePath(p); err != nil {
		return "", err
	}
	if filepath.IsAbs(p) || filepath.VolumeName(p) != "" || p[0] == '/' || p[0] == '\\' {
		return "", errors.New(errors.ErrCodeInvalidPath, "image path %q must be relative to the image root", p)
	}
	return filepath.Join(s.imageRoot, filepath.Clean(p)), nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.observe)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{
			Error: errorDetail{
				Code:    "METHOD_NOT_ALLOWED",
				Message: r.Method + " is not allowed on " + r.URL.Path,
			},
			RequestID: RequestID(r.Context()),
		})
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/plans", s.handleCreatePlan)
		r.Get("/plans/{id}", s.handleGetPlan)
		r.Get("/plans/{id}/frames/{n}", s.handleGetFrame)
		r.Get("/transform", s.handleTransform)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down", "addr", addr)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
