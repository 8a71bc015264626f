package match

import (
	"testing"

	"github.com/dayaar/frontdesk/internal/classify"
)

var menu = []classify.Option{
	{Display: "John Smith", Value: "1"},
	{Display: "Jane Doe", Value: "2"},
	{Display: "None of these / Enter a different name", Value: "0"},
}

func TestResolve_DigitSelectsByValue(t *testing.T) {
	t.Parallel()

	r := New()
	got := r.Resolve("2", menu)
	if got == nil || got.Value != "2" {
		t.Fatalf("Resolve(\"2\") = %+v, want Jane Doe", got)
	}

	// "0" is a value, not a 1-based index.
	got = r.Resolve("0", menu)
	if got == nil || got.Value != "0" {
		t.Fatalf("Resolve(\"0\") = %+v, want the reserved none option", got)
	}
}

func TestResolve_DigitFallsBackToPosition(t *testing.T) {
	t.Parallel()

	opts := []classify.Option{
		{Display: "Guest", Value: "guest"},
		{Display: "Vendor", Value: "vendor"},
	}
	r := New()
	got := r.Resolve("2", opts)
	if got == nil || got.Value != "vendor" {
		t.Fatalf("Resolve(\"2\") = %+v, want positional vendor", got)
	}
	if r.Resolve("3", opts) != nil {
		t.Error("expected out-of-range digit to resolve to nothing")
	}
}

func TestResolve_ExactMatch(t *testing.T) {
	t.Parallel()

	r := New()
	got := r.Resolve("jane doe", menu)
	if got == nil || got.Value != "2" {
		t.Fatalf("Resolve(\"jane doe\") = %+v, want Jane Doe", got)
	}

	got = r.Resolve("  John Smith  ", menu)
	if got == nil || got.Value != "1" {
		t.Fatalf("whitespace-padded exact match failed: %+v", got)
	}
}

func TestResolve_ExactMatchOnValue(t *testing.T) {
	t.Parallel()

	opts := []classify.Option{{Display: "💼 I am a Vendor", Value: "vendor"}}
	r := New()
	got := r.Resolve("VENDOR", opts)
	if got == nil || got.Value != "vendor" {
		t.Fatalf("Resolve(\"VENDOR\") = %+v, want vendor", got)
	}
}

func TestResolve_FuzzyMatch(t *testing.T) {
	t.Parallel()

	r := New()
	got := r.Resolve("john smth", menu)
	if got == nil || got.Value != "1" {
		t.Fatalf("Resolve(\"john smth\") = %+v, want fuzzy John Smith", got)
	}
}

func TestResolve_FuzzyBelowThreshold(t *testing.T) {
	t.Parallel()

	r := New()
	if got := r.Resolve("zzzzzzz", menu); got != nil {
		t.Errorf("Resolve(\"zzzzzzz\") = %+v, want nil", got)
	}
}

func TestResolve_ThresholdOption(t *testing.T) {
	t.Parallel()

	strict := New(WithThreshold(0.999))
	if got := strict.Resolve("john smth", menu); got != nil {
		t.Errorf("strict resolver matched %+v, want nil", got)
	}
}

func TestResolve_EmptyInputs(t *testing.T) {
	t.Parallel()

	r := New()
	if r.Resolve("", menu) != nil {
		t.Error("empty input must not resolve")
	}
	if r.Resolve("1", nil) != nil {
		t.Error("empty option set must not resolve")
	}
}
