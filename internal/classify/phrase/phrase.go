// Package phrase declares the fixed backend phrases that the classifier
// matches against. The visitor-registration backend carries no structured
// metadata; a handful of English phrases act as the de facto wire protocol
// between it and the front-end. Centralising them in one versioned [Table]
// makes that contract auditable and testable in isolation — renaming a
// phrase on the backend is a breaking protocol change, and the place to
// record it is here, with a version bump.
package phrase

// CategoryRule maps an emoji-menu line to its semantic submission token by
// case-insensitive substring containment.
type CategoryRule struct {
	// Contains is the substring tested against the lowercased line.
	Contains string `yaml:"contains"`

	// Value is the token submitted upstream when the rule matches
	// (e.g. "guest", "vendor", "prescheduled").
	Value string `yaml:"value"`
}

// Table is the versioned phrase-matching table consumed by the detectors.
// All phrases are matched case-insensitively against lowercased text, except
// ConfirmationLiterals which are tested verbatim.
type Table struct {
	// Version identifies the backend phrasing revision this table matches.
	Version int `yaml:"version"`

	// EmojiMarkers are the glyphs that open an emoji-menu line.
	EmojiMarkers []string `yaml:"emoji_markers"`

	// EmojiCategories map marker lines to semantic tokens. A marker line
	// matching none of these falls back to its own trimmed text as both
	// display and value.
	EmojiCategories []CategoryRule `yaml:"emoji_categories"`

	// EmployeeMatchTokens must all appear in the first line of a message for
	// it to be an employee-match banner.
	EmployeeMatchTokens []string `yaml:"employee_match_tokens"`

	// MatchLineExclude filters candidate lines out of employee-match
	// extraction: a line containing any of these is not a selectable match.
	MatchLineExclude []string `yaml:"match_line_exclude"`

	// ConfirmationSets is a disjunction of conjunctions: the message is a
	// confirmation if every phrase in any one set appears.
	ConfirmationSets [][]string `yaml:"confirmation_sets"`

	// ConfirmationLiterals are bracket tokens tested verbatim (case-sensitive)
	// against the raw text; all must appear.
	ConfirmationLiterals []string `yaml:"confirmation_literals"`

	// CompletionSets is a disjunction of conjunctions recognising the
	// terminal-state phrasings the backend uses.
	CompletionSets [][]string `yaml:"completion_sets"`

	// FreeTextKeywords mark prompts that collect typed visitor data.
	FreeTextKeywords []string `yaml:"free_text_keywords"`

	// FreeTextEnter is the weaker "enter" cue; it only counts when
	// FreeTextEnterExclude is absent.
	FreeTextEnter        string `yaml:"free_text_enter"`
	FreeTextEnterExclude string `yaml:"free_text_enter_exclude"`

	// SummaryLabels identify confirmation summary lines by containment.
	SummaryLabels []string `yaml:"summary_labels"`

	// Reserved option labels and values.
	NoneOptionDisplay string `yaml:"none_option_display"`
	NoneOptionValue   string `yaml:"none_option_value"`
	ConfirmValue      string `yaml:"confirm_value"`
	EditValue         string `yaml:"edit_value"`
	RestartValue      string `yaml:"restart_value"`
}

// Default returns the phrase table matching the current backend phrasing.
// The returned value is a fresh copy; callers may mutate it freely.
func Default() *Table {
	return &Table{
		Version: 1,

		EmojiMarkers: []string{"🙋", "💼", "📅"},
		EmojiCategories: []CategoryRule{
			{Contains: "guest", Value: "guest"},
			{Contains: "vendor", Value: "vendor"},
			{Contains: "meeting", Value: "prescheduled"},
		},

		EmployeeMatchTokens: []string{"found", "match"},
		MatchLineExclude:    []string{"found", "none of these"},

		ConfirmationSets: [][]string{
			{"confirm", "edit"},
			{"confirm", "final check"},
			{"confirm", "please review"},
		},
		ConfirmationLiterals: []string{"[confirm]", "[edit]"},

		CompletionSets: [][]string{
			{"registration is complete"},
			{"registration successful", "rebel presence incoming"},
			{"start new registration"},
			{"come back within 30 minutes"},
		},

		FreeTextKeywords: []string{
			"cnic",
			"phone number",
			"mobile number",
			"contact number",
			"name",
			"host",
			"purpose",
		},
		FreeTextEnter:        "enter",
		FreeTextEnterExclude: "none of these",

		SummaryLabels: []string{
			"name:", "cnic:", "phone:", "host:",
			"purpose:", "supplier:", "email:", "meeting",
		},

		NoneOptionDisplay: "None of these / Enter a different name",
		NoneOptionValue:   "0",
		ConfirmValue:      "confirm",
		EditValue:         "edit",
		RestartValue:      "new",
	}
}
