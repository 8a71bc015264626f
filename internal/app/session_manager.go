package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dayaar/frontdesk/internal/conversation"
)

// SessionInfo holds metadata about an active session.
type SessionInfo struct {
	// SessionID is the unique identifier for this session.
	SessionID string

	// StartedAt is when the session was opened.
	StartedAt time.Time

	// RemoteAddr is the client address that opened the session, when known.
	RemoteAddr string
}

// SessionManager tracks live chat sessions keyed by ID. Unlike a voice
// channel, a kiosk serves many visitors at once, so any number of sessions
// may be active. All exported methods are safe for concurrent use.
type SessionManager struct {
	app *App

	mu       sync.Mutex
	sessions map[string]*conversation.Session
	info     map[string]SessionInfo
}

// NewSessionManager creates a SessionManager bound to the app's wiring.
func NewSessionManager(a *App) *SessionManager {
	return &SessionManager{
		app:      a,
		sessions: make(map[string]*conversation.Session),
		info:     make(map[string]SessionInfo),
	}
}

// Open creates a new session with a generated ID and returns it. The session
// uses the classifier and resolver active at creation time.
func (sm *SessionManager) Open(ctx context.Context, remoteAddr string) (*conversation.Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("app: session id: %w", err)
	}

	sess := conversation.NewSession(id, sm.app.Responder(), sm.app.Classifier(),
		conversation.WithResolver(sm.app.Resolver()),
		conversation.WithStore(sm.app.Store()),
		conversation.WithMetrics(sm.app.Metrics()),
	)

	sm.mu.Lock()
	sm.sessions[id] = sess
	sm.info[id] = SessionInfo{
		SessionID:  id,
		StartedAt:  time.Now().UTC(),
		RemoteAddr: remoteAddr,
	}
	sm.mu.Unlock()

	sm.app.Metrics().ActiveSessions.Add(ctx, 1)
	slog.Info("session opened", "session_id", id, "remote_addr", remoteAddr)
	return sess, nil
}

// Get returns the session with the given ID, or nil when unknown.
func (sm *SessionManager) Get(id string) *conversation.Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.sessions[id]
}

// Info returns metadata for the session, or false when unknown.
func (sm *SessionManager) Info(id string) (SessionInfo, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	info, ok := sm.info[id]
	return info, ok
}

// Close drops the session with the given ID. Closing an unknown ID is a
// no-op.
func (sm *SessionManager) Close(ctx context.Context, id string) {
	sm.mu.Lock()
	_, ok := sm.sessions[id]
	if ok {
		delete(sm.sessions, id)
		delete(sm.info, id)
	}
	sm.mu.Unlock()

	if ok {
		sm.app.Metrics().ActiveSessions.Add(ctx, -1)
		slog.Info("session closed", "session_id", id)
	}
}

// CloseAll drops every live session. Used during shutdown.
func (sm *SessionManager) CloseAll(ctx context.Context) {
	sm.mu.Lock()
	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	sm.mu.Unlock()

	for _, id := range ids {
		sm.Close(ctx, id)
	}
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.sessions)
}

// newSessionID generates a timestamped random session identifier, e.g.
// "visit-20260826T1204Z-9f86d081".
func newSessionID() (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return fmt.Sprintf("visit-%s-%s",
		time.Now().UTC().Format("20060102T1504Z"),
		hex.EncodeToString(b[:]),
	), nil
}
