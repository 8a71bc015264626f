package app

import (
	"context"
	"strings"
	"testing"

	"github.com/dayaar/frontdesk/internal/classify"
	"github.com/dayaar/frontdesk/internal/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(context.Background(), config.Default())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(a.Shutdown)
	return a
}

func TestSessionManager_OpenAndGet(t *testing.T) {
	t.Parallel()

	sm := newTestApp(t).Sessions()
	sess, err := sm.Open(context.Background(), "10.0.0.5:52114")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !strings.HasPrefix(sess.ID(), "visit-") {
		t.Errorf("ID = %q, want visit- prefix", sess.ID())
	}
	if got := sm.Get(sess.ID()); got != sess {
		t.Errorf("Get returned %v", got)
	}
	info, ok := sm.Info(sess.ID())
	if !ok || info.RemoteAddr != "10.0.0.5:52114" {
		t.Errorf("Info = %+v, %v", info, ok)
	}
}

func TestSessionManager_UniqueIDs(t *testing.T) {
	t.Parallel()

	sm := newTestApp(t).Sessions()
	seen := make(map[string]bool)
	for range 20 {
		sess, err := sm.Open(context.Background(), "")
		if err != nil {
			t.Fatal(err)
		}
		if seen[sess.ID()] {
			t.Fatalf("duplicate session ID %q", sess.ID())
		}
		seen[sess.ID()] = true
	}
	if sm.Count() != 20 {
		t.Errorf("Count = %d, want 20", sm.Count())
	}
}

func TestSessionManager_Close(t *testing.T) {
	t.Parallel()

	sm := newTestApp(t).Sessions()
	sess, err := sm.Open(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}

	sm.Close(context.Background(), sess.ID())
	if sm.Get(sess.ID()) != nil {
		t.Error("session still reachable after Close")
	}
	if sm.Count() != 0 {
		t.Errorf("Count = %d, want 0", sm.Count())
	}

	// Unknown IDs are a no-op.
	sm.Close(context.Background(), "visit-nope")
}

func TestSessionManager_CloseAll(t *testing.T) {
	t.Parallel()

	sm := newTestApp(t).Sessions()
	for range 3 {
		if _, err := sm.Open(context.Background(), ""); err != nil {
			t.Fatal(err)
		}
	}
	sm.CloseAll(context.Background())
	if sm.Count() != 0 {
		t.Errorf("Count = %d, want 0", sm.Count())
	}
}

func TestSessionManager_SessionIsWired(t *testing.T) {
	t.Parallel()

	sm := newTestApp(t).Sessions()
	sess, err := sm.Open(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}

	turn, err := sess.Open(context.Background())
	if err != nil {
		t.Fatalf("session Open: %v", err)
	}
	if turn.Directive == nil || turn.Directive.Kind != classify.KindEmojiMenu {
		t.Errorf("greeting = %+v, want emoji menu from scripted backend", turn.Directive)
	}
}
