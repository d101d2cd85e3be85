// Package server mounts the bridge's inbound REST API: one authenticated
// command route per (app, intent) pair, fixed at startup.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/intentlabs/bridge/internal/app"
	"github.com/intentlabs/bridge/internal/config"
	"github.com/intentlabs/bridge/internal/core"
	"github.com/intentlabs/bridge/internal/httputil"
	"github.com/intentlabs/bridge/internal/logging"
	"github.com/intentlabs/bridge/internal/middleware"
	"github.com/intentlabs/bridge/internal/portbind"
)

// Server owns the bound listener, the route table, and the process-lifetime
// auth token. Everything is initialized in New and read-only afterwards; a
// restart regenerates the token and invalidates previously registered
// callers until re-registration.
type Server struct {
	cfg      config.Config
	registry *app.Registry
	ln       net.Listener
	port     int
	authKey  string
	router   chi.Router
}

// New claims a free port in the configured range, generates the shared auth
// token, and mounts one POST route per (app, intent) pair behind the token
// gate. The listener is live when New returns but no requests are served
// until Run.
func New(cfg config.Config, registry *app.Registry) (*Server, error) {
	ln, port, err := portbind.Bind(cfg.Bind.PortFrom, cfg.Bind.PortTo, cfg.Bind.MaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("bind service port: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		registry: registry,
		ln:       ln,
		port:     port,
		authKey:  uuid.NewString(),
	}

	r := chi.NewRouter()
	if !cfg.Quiet {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/health", healthHandler(registry))

	d := newDispatcher(registry, cfg.IntentTimeout(), cfg.Dispatch.DefaultLanguage)
	r.Group(func(r chi.Router) {
		r.Use(middleware.TokenAuth(s.authKey))
		for _, a := range registry.Apps() {
			for _, in := range a.Intents {
				r.Post("/"+a.ID+"/"+in.ID, d.handle(a, in))
			}
		}
	})

	s.router = r
	return s, nil
}

// Port returns the bound port.
func (s *Server) Port() int { return s.port }

// AuthKey returns the shared token the core must present on every call.
func (s *Server) AuthKey() string { return s.authKey }

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Close releases the listener without serving. Run closes it itself.
func (s *Server) Close() error { return s.ln.Close() }

// Run registers every app with the core and then serves until the context is
// cancelled. Registration happens strictly before the first request is
// accepted; a registration failure aborts startup with the listener closed.
func (s *Server) Run(ctx context.Context, coreClient *core.Client) error {
	if err := coreClient.RegisterAll(ctx, s.registry, s.port, s.authKey); err != nil {
		s.ln.Close()
		return err
	}

	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(s.ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	if !s.cfg.Quiet {
		logging.Infof("bridge listening on port %d (%d apps)", s.port, len(s.registry.Apps()))
	}

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func healthHandler(registry *app.Registry) http.HandlerFunc {
	type healthResponse struct {
		Status string `json:"status"`
		Apps   int    `json:"apps"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.OkJSON(w, healthResponse{
			Status: "healthy",
			Apps:   len(registry.Apps()),
		})
	}
}
