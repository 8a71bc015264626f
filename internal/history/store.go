// Package history persists the conversation transcript. The classifier
// itself is stateless; the surrounding service appends each turn together
// with the directive kind it resolved to, which is what makes backend
// phrasing regressions diagnosable after the fact.
//
// Two stores ship with frontdesk: an append-only JSON-lines [FileStore] for
// single-node deployments, and a PostgreSQL-backed [PostgresStore].
package history

import (
	"context"
	"time"
)

// Record is one persisted conversation turn.
type Record struct {
	SessionID  string    `json:"session_id"`
	Speaker    string    `json:"speaker"`
	Text       string    `json:"text"`
	Kind       string    `json:"kind,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Store persists conversation turns. Implementations must be safe for
// concurrent use.
type Store interface {
	// AppendTurn records one turn. Kind is empty for user turns.
	AppendTurn(ctx context.Context, rec Record) error

	// RecentTurns returns up to limit turns for the session, oldest first.
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]Record, error)

	// Close releases any resources held by the store.
	Close() error
}

// Discard is a Store that drops everything. Used when persistence is
// disabled in the config.
type Discard struct{}

// Compile-time interface check.
var _ Store = Discard{}

func (Discard) AppendTurn(context.Context, Record) error { return nil }

func (Discard) RecentTurns(context.Context, string, int) ([]Record, error) { return nil, nil }

func (Discard) Close() error { return nil }
