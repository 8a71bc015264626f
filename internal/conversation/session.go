package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dayaar/frontdesk/internal/backend"
	"github.com/dayaar/frontdesk/internal/classify"
	"github.com/dayaar/frontdesk/internal/history"
	"github.com/dayaar/frontdesk/internal/match"
	"github.com/dayaar/frontdesk/internal/observe"
)

// ErrValueNotAllowed is returned by [Session.Select] when the submitted
// value is not among the active directive's selectable options.
var ErrValueNotAllowed = errors.New("conversation: value not allowed by active directive")

// SessionOption is a functional option for configuring [Session].
type SessionOption func(*Session)

// WithStore sets the transcript store. Defaults to [history.Discard].
func WithStore(store history.Store) SessionOption {
	return func(s *Session) {
		s.store = store
	}
}

// WithMetrics sets the metrics sink. Defaults to [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) SessionOption {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithResolver sets the typed-reply resolver used to map free-typed input
// onto menu options.
func WithResolver(r *match.Resolver) SessionOption {
	return func(s *Session) {
		s.resolver = r
	}
}

// WithClock overrides the turn timestamp source. Tests use this for
// deterministic feeds.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// Session is one visitor's conversation. It brokers every exchange with the
// backend responder, classifies each reply exactly once, and enforces that
// option submissions stay within the active directive.
//
// Safe for concurrent use.
type Session struct {
	id         string
	responder  backend.Responder
	classifier *classify.Classifier
	resolver   *match.Resolver
	store      history.Store
	metrics    *observe.Metrics
	now        func() time.Time

	mu    sync.Mutex
	turns []Turn
}

// NewSession creates a session bound to the given backend responder and
// classifier. The feed starts empty; call [Session.Open] to fetch the
// backend's greeting.
func NewSession(id string, responder backend.Responder, classifier *classify.Classifier, opts ...SessionOption) *Session {
	s := &Session{
		id:         id,
		responder:  responder,
		classifier: classifier,
		resolver:   match.New(),
		store:      history.Discard{},
		metrics:    observe.DefaultMetrics(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Turns returns a copy of the feed in order.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Active returns the directive of the latest bot turn, or nil before the
// first bot reply.
func (s *Session) Active() *classify.Directive {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked()
}

func (s *Session) activeLocked() *classify.Directive {
	for i := len(s.turns) - 1; i >= 0; i-- {
		if s.turns[i].Speaker == SpeakerBot {
			return s.turns[i].Directive
		}
	}
	return nil
}

// Open fetches the backend's greeting without recording a user turn. It is
// the first call a fresh session makes.
func (s *Session) Open(ctx context.Context) (Turn, error) {
	ctx, span := observe.StartSpan(ctx, "session.open")
	defer span.End()
	return s.exchange(ctx, "", false)
}

// Send forwards typed visitor input. If the active directive carries
// selectable options and the input resolves to one of them, the option's
// submission value is sent instead of the raw text; otherwise the text is
// forwarded verbatim.
//
// The returned turn is the bot's reply, already classified.
func (s *Session) Send(ctx context.Context, text string) (Turn, error) {
	ctx, span := observe.StartSpan(ctx, "session.send")
	defer span.End()

	input := text
	if active := s.Active(); active != nil {
		if opt := s.resolver.Resolve(text, active.Selectable()); opt != nil {
			input = opt.Value
			s.metrics.RecordSelection(ctx, string(active.Kind), "typed")
		}
	}
	return s.exchange(ctx, input, true)
}

// Select submits a button press. The value must be allowed by the active
// directive; anything else returns [ErrValueNotAllowed] without contacting
// the backend.
func (s *Session) Select(ctx context.Context, value string) (Turn, error) {
	ctx, span := observe.StartSpan(ctx, "session.select")
	defer span.End()

	active := s.Active()
	if active == nil || !active.Allows(value) {
		return Turn{}, fmt.Errorf("%w: %q", ErrValueNotAllowed, value)
	}
	s.metrics.RecordSelection(ctx, string(active.Kind), "button")
	return s.exchange(ctx, value, true)
}

// exchange performs one request/reply cycle: optionally record the visitor
// turn, call the backend, classify the reply once, and append the bot turn.
func (s *Session) exchange(ctx context.Context, input string, recordUser bool) (Turn, error) {
	if recordUser {
		s.append(ctx, Turn{Speaker: SpeakerUser, Text: input, At: s.now()})
	}

	start := time.Now()
	reply, err := s.responder.Respond(ctx, s.id, input)
	s.metrics.BackendDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		s.metrics.BackendErrors.Add(ctx, 1)
		return Turn{}, fmt.Errorf("conversation: backend: %w", err)
	}

	clsStart := time.Now()
	directive := s.classifier.Classify(reply)
	s.metrics.RecordClassification(ctx, string(directive.Kind), time.Since(clsStart))

	turn := Turn{
		Speaker:        SpeakerBot,
		Text:           reply,
		At:             s.now(),
		Directive:      &directive,
		ShowInputField: s.classifier.ShouldShowInputField(reply),
	}
	s.append(ctx, turn)
	return turn, nil
}

// append adds the turn to the feed and mirrors it to the transcript store.
// Store failures are logged, never propagated; losing history must not
// break the conversation.
func (s *Session) append(ctx context.Context, turn Turn) {
	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()

	rec := history.Record{
		SessionID:  s.id,
		Speaker:    string(turn.Speaker),
		Text:       turn.Text,
		OccurredAt: turn.At,
	}
	if turn.Directive != nil {
		rec.Kind = string(turn.Directive.Kind)
	}
	if err := s.store.AppendTurn(ctx, rec); err != nil {
		observe.Logger(ctx).Warn("transcript append failed",
			"session_id", s.id,
			"error", err)
	}
}
