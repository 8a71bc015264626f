package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// mockDB implements DB, capturing statements and returning canned rows.
type mockDB struct {
	execSQL  []string
	execArgs [][]any
	execErr  error

	queryRows *mockRows
	queryErr  error
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("QueryRow not used by history store")
}

func (m *mockDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.queryRows, nil
}

func (m *mockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.execSQL = append(m.execSQL, sql)
	m.execArgs = append(m.execArgs, args)
	return pgconn.CommandTag{}, m.execErr
}

// mockRows implements pgx.Rows over fixed row data.
type mockRows struct {
	data   [][]any
	idx    int
	err    error
	closed bool
}

func (r *mockRows) Close()                                       { r.closed = true }
func (r *mockRows) Err() error                                   { return r.err }
func (r *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *mockRows) RawValues() [][]byte                          { return nil }
func (r *mockRows) Conn() *pgx.Conn                              { return nil }

func (r *mockRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *mockRows) Scan(dest ...any) error {
	row := r.data[r.idx-1]
	for i, v := range row {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *time.Time:
			*d = v.(time.Time)
		}
	}
	return nil
}

func (r *mockRows) Values() ([]any, error) { return r.data[r.idx-1], nil }

func TestPostgresStore_Migrate(t *testing.T) {
	t.Parallel()

	db := &mockDB{}
	s := NewPostgresStore(db)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if len(db.execSQL) != 1 || !strings.Contains(db.execSQL[0], "CREATE TABLE IF NOT EXISTS frontdesk_turns") {
		t.Errorf("unexpected migrate SQL: %v", db.execSQL)
	}
}

func TestPostgresStore_AppendTurn(t *testing.T) {
	t.Parallel()

	db := &mockDB{}
	s := NewPostgresStore(db)

	rec := testRecord("s1", "bot", "Pick one:\n1. A", "numbered_menu")
	if err := s.AppendTurn(context.Background(), rec); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if len(db.execArgs) != 1 {
		t.Fatalf("expected one INSERT, got %d", len(db.execArgs))
	}
	args := db.execArgs[0]
	if args[0] != "s1" || args[1] != "bot" || args[3] != "numbered_menu" {
		t.Errorf("unexpected insert args: %v", args)
	}
}

func TestPostgresStore_AppendTurn_Error(t *testing.T) {
	t.Parallel()

	db := &mockDB{execErr: errors.New("connection refused")}
	s := NewPostgresStore(db)

	err := s.AppendTurn(context.Background(), testRecord("s1", "user", "hi", ""))
	if err == nil || !strings.Contains(err.Error(), "history: append") {
		t.Errorf("err = %v, want wrapped append error", err)
	}
}

func TestPostgresStore_RecentTurns(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	db := &mockDB{queryRows: &mockRows{data: [][]any{
		{"s1", "bot", "Welcome", "emoji_menu", at},
		{"s1", "user", "guest", "", at},
	}}}
	s := NewPostgresStore(db)

	got, err := s.RecentTurns(context.Background(), "s1", 10)
	if err != nil {
		t.Fatalf("RecentTurns: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Speaker != "bot" || got[1].Text != "guest" {
		t.Errorf("unexpected records: %+v", got)
	}
	if !db.queryRows.closed {
		t.Error("rows were not closed")
	}
}
