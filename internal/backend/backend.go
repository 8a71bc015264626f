// Package backend defines the contract with the visitor-registration
// conversational backend. The backend accepts the literal submission values
// the front-end sends (option values, typed text) and answers with the next
// turn's free-form text; that text's phrasing is the wire protocol the
// classifier depends on.
//
// Network transport to the real backend lives outside this repository.
// [Scripted] is the in-process implementation used by the demo configuration
// and the end-to-end tests.
package backend

import "context"

// Responder produces the backend's next message for a session given the
// visitor's submission. input is either a typed message or the value of a
// chosen option — never its display text.
//
// Implementations must be safe for concurrent use across sessions.
type Responder interface {
	Respond(ctx context.Context, sessionID, input string) (string, error)
}

// ResponderFunc adapts a function to the [Responder] interface.
type ResponderFunc func(ctx context.Context, sessionID, input string) (string, error)

// Respond calls f.
func (f ResponderFunc) Respond(ctx context.Context, sessionID, input string) (string, error) {
	return f(ctx, sessionID, input)
}
