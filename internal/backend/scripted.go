package backend

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// flowStep is the scripted responder's position in the registration flow.
type flowStep string

const (
	stepWelcome     flowStep = "welcome"
	stepName        flowStep = "name"
	stepCNIC        flowStep = "cnic"
	stepPhone       flowStep = "phone"
	stepSupplier    flowStep = "supplier"
	stepHost        flowStep = "host"
	stepPickMatch   flowStep = "pick_match"
	stepPurpose     flowStep = "purpose"
	stepConfirm     flowStep = "confirm"
	stepComplete    flowStep = "complete"
)

// welcomeMessage is the greeting menu offering the three visitor types.
const welcomeMessage = "Welcome to DPL! How can I help you today?\n" +
	"🙋 I am here as a Guest\n" +
	"💼 I am a Vendor\n" +
	"📅 I am here for a pre-scheduled Meeting"

// defaultEmployees is the host directory the scripted flow matches against.
var defaultEmployees = []string{
	"John Smith",
	"Jane Smith",
	"Ayesha Khan",
	"Omar Farooq",
	"Sara Ahmed",
}

// defaultSuppliers is the vendor supplier menu.
var defaultSuppliers = []string{
	"ACME Facilities",
	"Brightline Catering",
	"Corvex IT Services",
}

// flowState is the per-session registration progress.
type flowState struct {
	step        flowStep
	visitorType string
	name        string
	cnic        string
	phone       string
	supplier    string
	host        string
	purpose     string
	matches     []string
}

// Scripted is an in-process [Responder] replaying the visitor-registration
// flow with the production backend's phrasing. It exists so the front-end
// can run end to end — demos, gateway tests, classifier compatibility tests
// — without the real backend.
//
// Safe for concurrent use; state is tracked per session ID.
type Scripted struct {
	employees []string
	suppliers []string

	mu       sync.Mutex
	sessions map[string]*flowState
}

// ScriptedOption is a functional option for configuring [Scripted].
type ScriptedOption func(*Scripted)

// WithEmployees replaces the built-in host directory.
func WithEmployees(names []string) ScriptedOption {
	return func(s *Scripted) {
		s.employees = names
	}
}

// WithSuppliers replaces the built-in supplier list.
func WithSuppliers(names []string) ScriptedOption {
	return func(s *Scripted) {
		s.suppliers = names
	}
}

// NewScripted returns a Scripted responder with the built-in directory and
// supplier list unless overridden by options.
func NewScripted(opts ...ScriptedOption) *Scripted {
	s := &Scripted{
		employees: defaultEmployees,
		suppliers: defaultSuppliers,
		sessions:  make(map[string]*flowState),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Respond advances the session's flow by one step and returns the backend's
// next message. Unknown sessions start at the welcome menu.
func (s *Scripted) Respond(_ context.Context, sessionID, input string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		st = &flowState{step: stepWelcome}
		s.sessions[sessionID] = st
	}

	return s.advance(st, strings.TrimSpace(input)), nil
}

// Reset drops the session's flow state; the next Respond starts over.
func (s *Scripted) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *Scripted) advance(st *flowState, input string) string {
	lower := strings.ToLower(input)

	switch st.step {
	case stepWelcome:
		switch lower {
		case "guest", "1":
			st.visitorType = "guest"
			st.step = stepName
			return "Great, let's get you checked in! Please enter your name:"
		case "vendor", "2":
			st.visitorType = "vendor"
			st.step = stepSupplier
			return s.supplierMenu()
		case "prescheduled", "3":
			st.visitorType = "prescheduled"
			st.step = stepHost
			return "Please enter the name of the person you're scheduled to meet with:"
		default:
			return welcomeMessage
		}

	case stepSupplier:
		if n, err := strconv.Atoi(lower); err == nil && n >= 1 && n <= len(s.suppliers) {
			st.supplier = s.suppliers[n-1]
			st.step = stepName
			return "Noted. Please enter your name:"
		}
		return "That choice isn't on the list!\n" + s.supplierMenu()

	case stepName:
		if input == "" {
			return "Even rebels need a name. Please enter your name:"
		}
		st.name = input
		st.step = stepCNIC
		return "Enter CNIC (Format: 1234512345671):"

	case stepCNIC:
		if input == "" {
			return "CNIC can't be blank. Enter CNIC (Format: 1234512345671):"
		}
		st.cnic = input
		st.step = stepPhone
		return "Please provide your contact number:"

	case stepPhone:
		if input == "" {
			return "Please provide your contact number:"
		}
		st.phone = input
		if st.visitorType == "vendor" {
			st.step = stepConfirm
			return s.confirmation(st)
		}
		st.step = stepHost
		return "Who are you here to meet? Please enter your host's name:"

	case stepHost:
		matches := matchEmployees(input, s.employees)
		switch len(matches) {
		case 0:
			return "No matches found. Please enter a different name."
		case 1:
			st.host = matches[0]
			st.step = stepPurpose
			return "What is the purpose of your visit?"
		default:
			st.matches = matches
			st.step = stepPickMatch
			return matchMenu(matches)
		}

	case stepPickMatch:
		if lower == "0" || strings.HasPrefix(lower, "none of these") {
			st.matches = nil
			st.step = stepHost
			return "Please enter your host's name:"
		}
		if n, err := strconv.Atoi(lower); err == nil && n >= 1 && n <= len(st.matches) {
			st.host = st.matches[n-1]
			st.matches = nil
			st.step = stepPurpose
			return "What is the purpose of your visit?"
		}
		return matchMenu(st.matches)

	case stepPurpose:
		if input == "" {
			return "What is the purpose of your visit?"
		}
		st.purpose = input
		st.step = stepConfirm
		return s.confirmation(st)

	case stepConfirm:
		switch lower {
		case "confirm", "yes":
			st.step = stepComplete
			return "✅ Registration is complete! Your host has been notified. Type 'new' to start new registration."
		case "edit":
			st.step = stepName
			return "No problem, let's fix that. Please enter your name:"
		default:
			return s.confirmation(st)
		}

	case stepComplete:
		if lower == "new" {
			*st = flowState{step: stepWelcome}
			return welcomeMessage
		}
		return "✅ Registration is complete! Type 'new' to start new registration."
	}

	// Unreachable with the steps above; restart defensively.
	*st = flowState{step: stepWelcome}
	return welcomeMessage
}

// supplierMenu renders the vendor supplier choices as a numbered menu.
func (s *Scripted) supplierMenu() string {
	var b strings.Builder
	b.WriteString("Which supplier are you representing?\n")
	for i, name := range s.suppliers {
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
	}
	return strings.TrimRight(b.String(), "\n")
}

// confirmation renders the final-check summary in the backend's phrasing.
func (s *Scripted) confirmation(st *flowState) string {
	var b strings.Builder
	b.WriteString("⚡ Your innovation passport is ready - just need a final check:\n")
	fmt.Fprintf(&b, "Name: %s\n", st.name)
	fmt.Fprintf(&b, "CNIC: %s\n", st.cnic)
	fmt.Fprintf(&b, "Phone: %s\n", st.phone)
	if st.supplier != "" {
		fmt.Fprintf(&b, "Supplier: %s\n", st.supplier)
	}
	if st.host != "" {
		fmt.Fprintf(&b, "Host: %s\n", st.host)
	}
	if st.purpose != "" {
		fmt.Fprintf(&b, "Purpose: %s\n", st.purpose)
	}
	b.WriteString("Hit 'confirm' to proceed, or 'edit' to perfect the details!")
	return b.String()
}

// matchMenu renders the employee-match picker in the backend's phrasing.
func matchMenu(matches []string) string {
	var b strings.Builder
	b.WriteString("I found multiple potential matches. Please select one:\n")
	for _, name := range matches {
		fmt.Fprintf(&b, "  %s\n", name)
	}
	b.WriteString("  0. None of these / Enter a different name")
	return b.String()
}

// matchEmployees finds directory entries whose full name equals the input or
// that share a name part with it, case-insensitively.
func matchEmployees(input string, employees []string) []string {
	clean := strings.ToLower(strings.TrimSpace(input))
	if clean == "" {
		return nil
	}
	for _, emp := range employees {
		if strings.ToLower(emp) == clean {
			return []string{emp}
		}
	}
	var matches []string
	for _, emp := range employees {
		for _, part := range strings.Fields(strings.ToLower(emp)) {
			if part == clean {
				matches = append(matches, emp)
				break
			}
		}
	}
	return matches
}
