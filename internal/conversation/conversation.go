// Package conversation owns the per-session chat state: the ordered turn
// feed, the single classification of each bot reply, and the submission
// rules derived from the active directive.
//
// Every bot message is classified exactly once, when it is appended; the
// resulting directive and input-field flag are stored on the turn and
// reused for rendering, validation, and typed-reply resolution. Rendering
// layers must never re-derive intent from the text.
package conversation

import (
	"time"

	"github.com/dayaar/frontdesk/internal/classify"
)

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerBot  Speaker = "bot"
)

// Turn is one message in the session feed. Bot turns carry the directive
// resolved at append time; user turns carry only text.
type Turn struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`

	// Directive and ShowInputField are set on bot turns only.
	Directive      *classify.Directive `json:"directive,omitempty"`
	ShowInputField bool                `json:"showInputField"`
}
