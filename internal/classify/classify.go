// Package classify implements the message-intent classifier for the
// visitor-registration chat front-end. The backend replies with free-form
// natural-language text and no structured metadata; this package inspects
// each bot turn's raw text and resolves exactly one [Directive] telling the
// rendering layer which interaction affordance to show — a numbered menu,
// an emoji visitor-type menu, an employee-match picker, a confirm/edit pair,
// a completion action, or a plain free-text prompt.
//
// Classification is a pure function of the turn's text: no state is carried
// across turns, no input can make it fail, and calling it twice on the same
// text yields an identical directive. The fixed backend phrases the
// detectors match against live in [phrase.Table] — they are the de facto
// wire protocol between backend and front-end, and changing them on either
// side is a breaking change.
//
// Detector precedence is fixed: completion and employee-match banners are
// structurally unambiguous and preempt the weaker heuristics; confirmation
// is tested before numbered menus because a confirmation summary may
// legitimately contain digit-prefixed lines (a phone number, say) that must
// not be mistaken for menu options.
package classify

import (
	"strings"

	"github.com/dayaar/frontdesk/internal/classify/phrase"
)

// Classifier resolves bot-turn text into presentation directives using a
// fixed phrase table. It is read-only after construction and safe for
// concurrent use.
type Classifier struct {
	table *phrase.Table
}

// New returns a Classifier using the given phrase table. A nil table selects
// [phrase.Default].
func New(table *phrase.Table) *Classifier {
	if table == nil {
		table = phrase.Default()
	}
	return &Classifier{table: table}
}

// Table returns the phrase table the classifier was built with.
func (c *Classifier) Table() *phrase.Table {
	return c.table
}

// Classify resolves text into exactly one [Directive]. It never fails:
// empty input produces a plain-text directive with an empty prompt, and
// text claimed by no detector falls through to plain text or a free-text
// prompt.
func (c *Classifier) Classify(text string) Directive {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return Directive{Kind: KindPlainText}
	}
	lower := strings.ToLower(text)

	numbered := numberedIndexes(lines)
	emoji := c.emojiIndexes(lines)
	menuConsumed := consumedSet(numbered, emoji)

	switch {
	case c.isCompletion(lower):
		return Directive{
			Kind:         KindCompletion,
			Prompt:       composePrompt(lines, menuConsumed),
			RestartValue: c.table.RestartValue,
		}

	case c.isEmployeeMatch(lines):
		// Line 0 is the "found N matches" banner; keep it verbatim rather
		// than diluting it with the name lines below.
		return Directive{
			Kind:    KindEmployeeMatch,
			Prompt:  lines[0],
			Matches: c.employeeMatches(lines),
			NoneOption: &Option{
				Display: c.table.NoneOptionDisplay,
				Value:   c.table.NoneOptionValue,
			},
		}

	case c.isConfirmation(text, lower):
		summary, summaryIdx := c.summaryLines(lines)
		return Directive{
			Kind:         KindConfirmation,
			Prompt:       composePrompt(lines, consumedSet(numbered, emoji, summaryIdx)),
			Summary:      summary,
			ConfirmValue: c.table.ConfirmValue,
			EditValue:    c.table.EditValue,
		}

	case len(numbered) > 0:
		return Directive{
			Kind:    KindNumberedMenu,
			Prompt:  composePrompt(lines, menuConsumed),
			Options: numberedOptions(lines, numbered),
		}

	case len(emoji) > 0:
		return Directive{
			Kind:    KindEmojiMenu,
			Prompt:  composePrompt(lines, menuConsumed),
			Options: c.emojiOptions(lines, emoji),
		}

	case c.hasFreeTextCue(lower):
		return Directive{Kind: KindFreeText, Prompt: composePrompt(lines, nil)}

	default:
		return Directive{Kind: KindPlainText, Prompt: composePrompt(lines, nil)}
	}
}

// ShouldShowInputField reports whether a free-text input should be rendered
// for text. It is true only when the text carries a data-collection cue and
// no button-bearing pattern (menu, match picker, confirmation, completion)
// is present. The boolean is a side channel rather than part of the
// directive because free-text entry can coexist only with plain prompts.
func (c *Classifier) ShouldShowInputField(text string) bool {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return false
	}
	lower := strings.ToLower(text)

	if !c.hasFreeTextCue(lower) {
		return false
	}
	if len(numberedIndexes(lines)) > 0 || len(c.emojiIndexes(lines)) > 0 {
		return false
	}
	if c.isEmployeeMatch(lines) || c.isConfirmation(text, lower) || c.isCompletion(lower) {
		return false
	}
	return true
}
