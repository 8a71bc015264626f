// Package app wires all frontdesk subsystems into a running application.
//
// The App struct owns the full lifecycle: New creates and connects all
// subsystems, the gateway drives it while serving, and Shutdown tears
// everything down in order.
//
// For testing, inject mock implementations via functional options
// (WithResponder, WithStore, etc.). When an option is not provided, New
// creates real implementations from the config.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dayaar/frontdesk/internal/backend"
	"github.com/dayaar/frontdesk/internal/classify"
	"github.com/dayaar/frontdesk/internal/classify/phrase"
	"github.com/dayaar/frontdesk/internal/config"
	"github.com/dayaar/frontdesk/internal/history"
	"github.com/dayaar/frontdesk/internal/match"
	"github.com/dayaar/frontdesk/internal/observe"
)

// App owns all subsystem lifetimes for the frontdesk gateway.
type App struct {
	cfg     *config.Config
	metrics *observe.Metrics

	classifier *classify.Classifier
	resolver   *match.Resolver
	responder  backend.Responder
	store      history.Store
	manager    *SessionManager

	// closers are called in reverse order during Shutdown.
	closers []func() error

	// stopOnce guards the Shutdown path.
	stopOnce sync.Once

	mu sync.RWMutex
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithResponder injects a chat backend instead of creating one from config.
func WithResponder(r backend.Responder) Option {
	return func(a *App) { a.responder = r }
}

// WithStore injects a transcript store instead of creating one from config.
// The store is used as-is; no circuit breaker is layered on top.
func WithStore(s history.Store) Option {
	return func(a *App) { a.store = s }
}

// WithMetrics injects a metrics sink instead of the process-wide default.
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithClassifier injects a classifier instead of building one from the
// configured phrase table.
func WithClassifier(c *classify.Classifier) Option {
	return func(a *App) { a.classifier = c }
}

// New creates an App by wiring all subsystems together. Use Option functions
// to inject test doubles for any subsystem.
//
// New performs all initialisation synchronously: phrase table loading,
// transcript store connection, backend construction, and session manager
// assembly.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg}
	for _, o := range opts {
		o(a)
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}

	if err := a.initClassifier(); err != nil {
		return nil, fmt.Errorf("app: init classifier: %w", err)
	}
	a.resolver = match.New(match.WithThreshold(cfg.Match.Threshold))

	if err := a.initStore(ctx); err != nil {
		return nil, fmt.Errorf("app: init history: %w", err)
	}
	if err := a.initResponder(); err != nil {
		a.closeAll()
		return nil, fmt.Errorf("app: init backend: %w", err)
	}

	a.manager = NewSessionManager(a)

	slog.Info("frontdesk application initialised",
		"backend", backendMode(cfg),
		"history", historyBackend(cfg),
		"phrase_table", cfg.Classifier.PhraseTablePath,
	)
	return a, nil
}

// Classifier returns the active intent classifier.
func (a *App) Classifier() *classify.Classifier {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.classifier
}

// Resolver returns the active typed-reply resolver.
func (a *App) Resolver() *match.Resolver {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.resolver
}

// Responder returns the chat backend.
func (a *App) Responder() backend.Responder { return a.responder }

// Store returns the transcript store.
func (a *App) Store() history.Store { return a.store }

// Metrics returns the metrics sink.
func (a *App) Metrics() *observe.Metrics { return a.metrics }

// Sessions returns the session manager.
func (a *App) Sessions() *SessionManager { return a.manager }

// ApplyDiff applies a hot-reloadable config change. Sessions created after
// the call use the new classifier and resolver; live sessions keep the
// components they were built with.
func (a *App) ApplyDiff(newCfg *config.Config, diff config.ConfigDiff) error {
	if diff.PhraseTableChanged {
		table, err := loadTable(diff.NewPhraseTablePath)
		if err != nil {
			return fmt.Errorf("app: reload phrase table: %w", err)
		}
		a.mu.Lock()
		a.classifier = classify.New(table)
		a.mu.Unlock()
		slog.Info("phrase table reloaded", "path", diff.NewPhraseTablePath)
	}
	if diff.ThresholdChanged {
		a.mu.Lock()
		a.resolver = match.New(match.WithThreshold(diff.NewThreshold))
		a.mu.Unlock()
		slog.Info("match threshold updated", "threshold", diff.NewThreshold)
	}
	if diff.RestartRequired {
		slog.Warn("config change requires restart; continuing with previous settings")
	}
	a.cfg = newCfg
	return nil
}

// Shutdown closes all sessions and tears down subsystems in reverse
// initialisation order. Safe to call more than once.
func (a *App) Shutdown() {
	a.stopOnce.Do(func() {
		if a.manager != nil {
			a.manager.CloseAll(context.Background())
		}
		a.closeAll()
		slog.Info("frontdesk application stopped")
	})
}

func (a *App) closeAll() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("shutdown: closer failed", "error", err)
		}
	}
	a.closers = nil
}

// initClassifier builds the classifier from the configured phrase table,
// unless one was injected.
func (a *App) initClassifier() error {
	if a.classifier != nil {
		return nil
	}
	table, err := loadTable(a.cfg.Classifier.PhraseTablePath)
	if err != nil {
		return err
	}
	a.classifier = classify.New(table)
	slog.Info("phrase table loaded",
		"version", table.Version,
		"path", a.cfg.Classifier.PhraseTablePath,
	)
	return nil
}

func loadTable(path string) (*phrase.Table, error) {
	if path == "" {
		return phrase.Default(), nil
	}
	return phrase.Load(path)
}

// initStore builds the transcript store from config and wraps it in a write
// breaker, unless one was injected.
func (a *App) initStore(ctx context.Context) error {
	if a.store != nil {
		return nil
	}

	var inner history.Store
	switch a.cfg.History.Backend {
	case config.HistoryFile:
		inner = history.NewFileStore(a.cfg.History.Path)
	case config.HistoryPostgres:
		pg, err := history.Connect(ctx, a.cfg.History.PostgresDSN)
		if err != nil {
			return err
		}
		inner = pg
	default:
		a.store = history.Discard{}
		return nil
	}

	guarded := history.NewGuarded(inner, history.GuardConfig{
		Name:         string(a.cfg.History.Backend),
		MaxFailures:  a.cfg.History.MaxFailures,
		ResetTimeout: a.cfg.History.ResetTimeout,
		Report:       a.metrics.RecordHistoryError,
	})
	a.store = guarded
	a.closers = append(a.closers, guarded.Close)
	return nil
}

// initResponder builds the chat backend from config via the registry,
// unless one was injected.
func (a *App) initResponder() error {
	if a.responder != nil {
		return nil
	}

	reg := config.NewRegistry()
	reg.RegisterBackend(config.BackendScripted, func(config.BackendConfig) (backend.Responder, error) {
		return backend.NewScripted(), nil
	})
	reg.RegisterBackend(config.BackendHTTP, func(cfg config.BackendConfig) (backend.Responder, error) {
		return backend.NewHTTP(cfg.URL, backend.WithTimeout(cfg.Timeout)), nil
	})

	responder, err := reg.CreateBackend(a.cfg.Backend)
	if err != nil {
		return err
	}
	a.responder = responder
	return nil
}

func backendMode(cfg *config.Config) config.BackendMode {
	if cfg.Backend.Mode == "" {
		return config.BackendScripted
	}
	return cfg.Backend.Mode
}

func historyBackend(cfg *config.Config) config.HistoryBackend {
	if cfg.History.Backend == "" {
		return config.HistoryNone
	}
	return cfg.History.Backend
}
