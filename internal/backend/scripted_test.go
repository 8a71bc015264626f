package backend

import (
	"context"
	"strings"
	"testing"

	"github.com/dayaar/frontdesk/internal/classify"
)

// step drives one exchange and asserts the classifier resolves the
// expected directive kind for the reply.
func step(t *testing.T, s *Scripted, c *classify.Classifier, session, input string, want classify.Kind) classify.Directive {
	t.Helper()
	reply, err := s.Respond(context.Background(), session, input)
	if err != nil {
		t.Fatalf("Respond(%q): %v", input, err)
	}
	d := c.Classify(reply)
	if d.Kind != want {
		t.Fatalf("Respond(%q) = %q classified as %s, want %s", input, reply, d.Kind, want)
	}
	return d
}

func TestScripted_GuestFlow(t *testing.T) {
	t.Parallel()

	s := NewScripted()
	c := classify.New(nil)
	const sid = "guest-1"

	step(t, s, c, sid, "", classify.KindEmojiMenu)
	step(t, s, c, sid, "guest", classify.KindFreeText)   // name prompt
	step(t, s, c, sid, "Bilal Raza", classify.KindFreeText) // CNIC
	step(t, s, c, sid, "1234512345671", classify.KindFreeText) // phone
	step(t, s, c, sid, "03001234567", classify.KindFreeText)   // host
	step(t, s, c, sid, "Ayesha Khan", classify.KindFreeText)   // purpose

	d := step(t, s, c, sid, "Project kickoff", classify.KindConfirmation)
	if len(d.Summary) == 0 {
		t.Error("confirmation carries no summary lines")
	}
	var sawHost bool
	for _, line := range d.Summary {
		if strings.Contains(line, "Ayesha Khan") {
			sawHost = true
		}
	}
	if !sawHost {
		t.Errorf("summary %v does not echo the host", d.Summary)
	}

	step(t, s, c, sid, "confirm", classify.KindCompletion)
}

func TestScripted_AmbiguousHostMatch(t *testing.T) {
	t.Parallel()

	s := NewScripted()
	c := classify.New(nil)
	const sid = "guest-2"

	step(t, s, c, sid, "", classify.KindEmojiMenu)
	step(t, s, c, sid, "guest", classify.KindFreeText)
	step(t, s, c, sid, "Visitor", classify.KindFreeText)
	step(t, s, c, sid, "1234512345671", classify.KindFreeText)
	step(t, s, c, sid, "03001234567", classify.KindFreeText)

	// "Smith" matches John Smith and Jane Smith.
	d := step(t, s, c, sid, "Smith", classify.KindEmployeeMatch)
	if len(d.Matches) != 2 {
		t.Fatalf("got %d matches, want 2: %+v", len(d.Matches), d.Matches)
	}
	if d.NoneOption == nil || d.NoneOption.Value != "0" {
		t.Fatalf("none option = %+v, want value 0", d.NoneOption)
	}

	// Picking by index lands on the purpose prompt.
	step(t, s, c, sid, d.Matches[0].Value, classify.KindFreeText)
}

func TestScripted_NoneOfTheseRestartsHostPrompt(t *testing.T) {
	t.Parallel()

	s := NewScripted()
	c := classify.New(nil)
	const sid = "guest-3"

	step(t, s, c, sid, "", classify.KindEmojiMenu)
	step(t, s, c, sid, "guest", classify.KindFreeText)
	step(t, s, c, sid, "Visitor", classify.KindFreeText)
	step(t, s, c, sid, "1234512345671", classify.KindFreeText)
	step(t, s, c, sid, "03001234567", classify.KindFreeText)
	step(t, s, c, sid, "Smith", classify.KindEmployeeMatch)
	step(t, s, c, sid, "0", classify.KindFreeText) // back to the host prompt
	step(t, s, c, sid, "Omar Farooq", classify.KindFreeText)
}

func TestScripted_VendorFlow(t *testing.T) {
	t.Parallel()

	s := NewScripted()
	c := classify.New(nil)
	const sid = "vendor-1"

	step(t, s, c, sid, "", classify.KindEmojiMenu)

	d := step(t, s, c, sid, "vendor", classify.KindNumberedMenu)
	if len(d.Options) != len(defaultSuppliers) {
		t.Fatalf("got %d supplier options, want %d", len(d.Options), len(defaultSuppliers))
	}
	if d.Options[0].Value != "1" || d.Options[0].Display != defaultSuppliers[0] {
		t.Errorf("first option = %+v", d.Options[0])
	}

	step(t, s, c, sid, "2", classify.KindFreeText) // name
	step(t, s, c, sid, "Vendor Rep", classify.KindFreeText)
	step(t, s, c, sid, "1234512345671", classify.KindFreeText)

	conf := step(t, s, c, sid, "03001234567", classify.KindConfirmation)
	var sawSupplier bool
	for _, line := range conf.Summary {
		if strings.Contains(line, defaultSuppliers[1]) {
			sawSupplier = true
		}
	}
	if !sawSupplier {
		t.Errorf("summary %v does not echo the supplier", conf.Summary)
	}

	step(t, s, c, sid, "confirm", classify.KindCompletion)
}

func TestScripted_EditLoopsBackToName(t *testing.T) {
	t.Parallel()

	s := NewScripted()
	c := classify.New(nil)
	const sid = "edit-1"

	step(t, s, c, sid, "", classify.KindEmojiMenu)
	step(t, s, c, sid, "guest", classify.KindFreeText)
	step(t, s, c, sid, "Typo Name", classify.KindFreeText)
	step(t, s, c, sid, "1234512345671", classify.KindFreeText)
	step(t, s, c, sid, "03001234567", classify.KindFreeText)
	step(t, s, c, sid, "Omar Farooq", classify.KindFreeText)
	step(t, s, c, sid, "Interview", classify.KindConfirmation)

	// edit returns to the name prompt, then the flow replays to a
	// fresh confirmation.
	step(t, s, c, sid, "edit", classify.KindFreeText)
	step(t, s, c, sid, "Fixed Name", classify.KindFreeText)
	step(t, s, c, sid, "1234512345671", classify.KindFreeText)
	step(t, s, c, sid, "03001234567", classify.KindFreeText)
	step(t, s, c, sid, "Omar Farooq", classify.KindFreeText)

	d := step(t, s, c, sid, "Interview", classify.KindConfirmation)
	var sawFixed bool
	for _, line := range d.Summary {
		if strings.Contains(line, "Fixed Name") {
			sawFixed = true
		}
	}
	if !sawFixed {
		t.Errorf("summary %v does not carry the edited name", d.Summary)
	}
}

func TestScripted_NewRestartsAfterCompletion(t *testing.T) {
	t.Parallel()

	s := NewScripted()
	c := classify.New(nil)
	const sid = "restart-1"

	step(t, s, c, sid, "", classify.KindEmojiMenu)
	step(t, s, c, sid, "prescheduled", classify.KindFreeText) // host prompt

	// Reset drops state entirely; the next turn greets again.
	s.Reset(sid)
	step(t, s, c, sid, "anything", classify.KindEmojiMenu)
}

func TestScripted_UnknownWelcomeChoiceRepeatsMenu(t *testing.T) {
	t.Parallel()

	s := NewScripted()
	const sid = "u-1"

	first, err := s.Respond(context.Background(), sid, "")
	if err != nil {
		t.Fatal(err)
	}
	again, err := s.Respond(context.Background(), sid, "teleport me inside")
	if err != nil {
		t.Fatal(err)
	}
	if first != again {
		t.Errorf("unknown choice reply %q, want the welcome menu repeated", again)
	}
}

func TestResponderFunc(t *testing.T) {
	t.Parallel()

	f := ResponderFunc(func(_ context.Context, sessionID, input string) (string, error) {
		return sessionID + ":" + input, nil
	})
	got, err := f.Respond(context.Background(), "s", "hi")
	if err != nil || got != "s:hi" {
		t.Errorf("Respond = %q, %v", got, err)
	}
}
