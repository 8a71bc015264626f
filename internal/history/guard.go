package history

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrStoreOpen is returned by [Guarded.RecentTurns] while the breaker is
// open and reads are being rejected.
var ErrStoreOpen = errors.New("history: store circuit is open")

// Reporter receives store write failures. Satisfied by
// observe.Metrics.RecordHistoryError via a small adapter in app.
type Reporter func(ctx context.Context, store string)

// Guarded wraps a [Store] with a write-path circuit breaker so a dead
// transcript store never blocks or fails the conversation. Failed appends
// are logged and dropped; after MaxFailures consecutive failures the
// underlying store is not called again until ResetTimeout elapses, at which
// point a single probe write is let through.
//
// Safe for concurrent use.
type Guarded struct {
	store  Store
	name   string
	report Reporter

	maxFailures  int
	resetTimeout time.Duration

	mu          sync.Mutex
	open        bool
	failures    int
	lastFailure time.Time
}

// Compile-time interface check.
var _ Store = (*Guarded)(nil)

// GuardConfig holds tuning knobs for [NewGuarded]. Zero-value fields are
// replaced with defaults.
type GuardConfig struct {
	// Name labels the store in logs and metrics (e.g. "postgres", "file").
	Name string

	// MaxFailures is the number of consecutive failures before the breaker
	// opens. Default: 5.
	MaxFailures int

	// ResetTimeout is how long the breaker stays open before letting a probe
	// write through. Default: 30s.
	ResetTimeout time.Duration

	// Report, when non-nil, is called once per dropped write.
	Report Reporter
}

// NewGuarded wraps store with a write-path circuit breaker.
func NewGuarded(store Store, cfg GuardConfig) *Guarded {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 30 * time.Second
	}
	return &Guarded{
		store:        store,
		name:         cfg.Name,
		report:       cfg.Report,
		maxFailures:  cfg.MaxFailures,
		resetTimeout: cfg.ResetTimeout,
	}
}

// AppendTurn forwards to the underlying store unless the breaker is open.
// Failures are logged, reported, and swallowed — transcript persistence is
// best-effort and must never surface into the conversation.
func (g *Guarded) AppendTurn(ctx context.Context, rec Record) error {
	if !g.allow() {
		g.dropped(ctx, rec, ErrStoreOpen)
		return nil
	}

	err := g.store.AppendTurn(ctx, rec)
	g.record(err)
	if err != nil {
		g.dropped(ctx, rec, err)
	}
	return nil
}

// RecentTurns forwards to the underlying store; reads are rejected while the
// breaker is open so a dead store fails fast.
func (g *Guarded) RecentTurns(ctx context.Context, sessionID string, limit int) ([]Record, error) {
	if !g.allow() {
		return nil, ErrStoreOpen
	}
	recs, err := g.store.RecentTurns(ctx, sessionID, limit)
	g.record(err)
	return recs, err
}

// Close closes the underlying store.
func (g *Guarded) Close() error { return g.store.Close() }

// allow reports whether a call may proceed, transitioning open → probe when
// the reset timeout has elapsed.
func (g *Guarded) allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.open {
		return true
	}
	if time.Since(g.lastFailure) >= g.resetTimeout {
		// Let one probe through; record() decides whether to close.
		slog.Info("history store probe after reset timeout", "store", g.name)
		return true
	}
	return false
}

// record updates breaker state after a store call.
func (g *Guarded) record(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err == nil {
		if g.open {
			slog.Info("history store recovered", "store", g.name)
		}
		g.open = false
		g.failures = 0
		return
	}

	g.failures++
	g.lastFailure = time.Now()
	if g.failures >= g.maxFailures && !g.open {
		g.open = true
		slog.Warn("history store circuit opened",
			"store", g.name,
			"consecutive_failures", g.failures,
		)
	}
}

// dropped logs and reports a write that did not reach the store.
func (g *Guarded) dropped(ctx context.Context, rec Record, err error) {
	slog.Warn("dropping transcript turn",
		"store", g.name,
		"session_id", rec.SessionID,
		"error", err,
	)
	if g.report != nil {
		g.report(ctx, g.name)
	}
}
