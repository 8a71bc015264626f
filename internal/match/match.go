// Package match resolves typed replies against the options a directive put
// on screen. Visitors frequently type their answer instead of tapping a
// button — "2", "vendor", or a half-remembered employee name — and the
// backend only accepts the literal option values, so the front-end maps
// typed input back onto an offered option before submitting.
//
// Resolution proceeds in three stages:
//
//  1. Digit selection: input that is all digits selects the option whose
//     value equals it, or the Nth option when no value matches and N is in
//     range.
//  2. Exact match: case-insensitive equality against display text or value.
//  3. Fuzzy match: highest Jaro-Winkler similarity against display texts,
//     accepted only above the configured threshold.
package match

import (
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/dayaar/frontdesk/internal/classify"
)

// defaultThreshold is the minimum Jaro-Winkler score for a fuzzy match.
const defaultThreshold = 0.85

// Option is a functional option for configuring a [Resolver].
type Option func(*Resolver)

// WithThreshold sets the minimum Jaro-Winkler score required for a fuzzy
// match to be accepted. Non-positive values keep the default of 0.85.
func WithThreshold(threshold float64) Option {
	return func(r *Resolver) {
		if threshold > 0 {
			r.threshold = threshold
		}
	}
}

// Resolver maps typed input onto displayed options. It is read-only after
// construction and safe for concurrent use.
type Resolver struct {
	threshold float64
}

// New returns a Resolver configured with the supplied options.
func New(opts ...Option) *Resolver {
	r := &Resolver{threshold: defaultThreshold}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve returns the option the typed input selects, or nil when nothing
// matches confidently. The input is trimmed and compared case-insensitively.
func (r *Resolver) Resolve(input string, options []classify.Option) *classify.Option {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || len(options) == 0 {
		return nil
	}
	lower := strings.ToLower(trimmed)

	if isDigits(trimmed) {
		// Prefer a value match — backends number menus themselves, and the
		// match picker reserves "0" for none-of-these.
		for i := range options {
			if options[i].Value == trimmed {
				return &options[i]
			}
		}
		if n, err := strconv.Atoi(trimmed); err == nil && n >= 1 && n <= len(options) {
			return &options[n-1]
		}
		return nil
	}

	for i := range options {
		if strings.ToLower(options[i].Display) == lower || strings.ToLower(options[i].Value) == lower {
			return &options[i]
		}
	}

	best := -1
	bestScore := 0.0
	for i := range options {
		score := matchr.JaroWinkler(lower, strings.ToLower(options[i].Display), false)
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best >= 0 && bestScore >= r.threshold {
		return &options[best]
	}
	return nil
}

// isDigits reports whether s is non-empty and all ASCII digits.
func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
