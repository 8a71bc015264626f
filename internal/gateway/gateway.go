// Package gateway is the HTTP/WebSocket surface the rendering layer talks
// to. It owns no conversation logic: every message is brokered through a
// [conversation.Session], and the directives pushed to the client are the
// classifier's output verbatim.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/dayaar/frontdesk/internal/app"
	"github.com/dayaar/frontdesk/internal/config"
	"github.com/dayaar/frontdesk/internal/health"
	"github.com/dayaar/frontdesk/internal/observe"
)

// defaultShutdownTimeout bounds graceful drain when the run context ends.
const defaultShutdownTimeout = 10 * time.Second

// Server exposes the chat WebSocket, health probes, and the Prometheus
// scrape endpoint.
type Server struct {
	app     *app.App
	cfg     config.ServerConfig
	httpSrv *http.Server
}

// New builds the server from the app wiring. The readiness probe checks the
// transcript store; a dead history backend drains the instance.
func New(cfg config.ServerConfig, a *app.App) *Server {
	s := &Server{app: a, cfg: cfg}
	s.httpSrv = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the full route tree wrapped in the observability
// middleware. Exposed so tests can serve it via httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	h := health.New("frontdesk", []health.Checker{
		health.HistoryCheck(s.app.Store()),
	})
	h.Register(mux)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /ws", s.handleWS)

	return observe.Middleware(s.app.Metrics())(mux)
}

// Run serves until ctx is cancelled, then drains connections within the
// configured shutdown timeout. It returns nil on a clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("gateway listening",
			"addr", s.cfg.ListenAddr,
			"tls", s.cfg.TLS != nil,
		)
		var err error
		if s.cfg.TLS != nil {
			err = s.httpSrv.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = s.httpSrv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("gateway: serve: %w", err)
	})

	g.Go(func() error {
		<-ctx.Done()
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		drainCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		slog.Info("gateway shutting down", "timeout", timeout)
		if err := s.httpSrv.Shutdown(drainCtx); err != nil {
			return fmt.Errorf("gateway: shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
