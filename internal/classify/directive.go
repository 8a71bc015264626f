package classify

// Kind discriminates the directive variants. Exactly one kind is resolved
// per bot turn.
type Kind string

const (
	// KindPlainText renders the prompt with no interactive affordance.
	KindPlainText Kind = "plain_text"

	// KindFreeText renders the prompt together with a text input field.
	KindFreeText Kind = "free_text"

	// KindNumberedMenu renders digit-valued buttons ("1".."N").
	KindNumberedMenu Kind = "numbered_menu"

	// KindEmojiMenu renders visitor-type buttons with semantic values
	// (e.g. "guest", "vendor", "prescheduled").
	KindEmojiMenu Kind = "emoji_menu"

	// KindEmployeeMatch renders an employee-match picker with 1-based index
	// values plus a reserved "0" none-of-these option.
	KindEmployeeMatch Kind = "employee_match"

	// KindConfirmation renders the summary lines with a confirm/edit pair.
	KindConfirmation Kind = "confirmation"

	// KindCompletion renders a terminal state with a restart action.
	KindCompletion Kind = "completion"
)

// Option is a selectable choice. Display is what a human reads; Value is the
// literal token submitted upstream when the option is chosen. Value is
// backend-defined and stable; Display may vary for presentation.
type Option struct {
	Display string `json:"display"`
	Value   string `json:"value"`
}

// Directive tells the rendering layer which interaction affordance to show
// for one bot turn. Prompt is non-empty whenever the turn's text is
// non-empty. Only the fields belonging to Kind are populated.
type Directive struct {
	Kind   Kind   `json:"kind"`
	Prompt string `json:"prompt"`

	// Options holds the menu entries for numbered and emoji menus.
	Options []Option `json:"options,omitempty"`

	// Matches and NoneOption belong to the employee-match picker.
	Matches    []Option `json:"matches,omitempty"`
	NoneOption *Option  `json:"noneOption,omitempty"`

	// Summary holds the key:value lines shown above the confirm/edit pair.
	Summary []string `json:"summary,omitempty"`

	// Fixed submission values for confirmation and completion.
	ConfirmValue string `json:"confirmValue,omitempty"`
	EditValue    string `json:"editValue,omitempty"`
	RestartValue string `json:"restartValue,omitempty"`
}

// Selectable returns every option the rendering layer may legitimately
// submit for this directive, including the synthetic confirm/edit,
// none-of-these, and restart entries. The slice is freshly allocated.
func (d Directive) Selectable() []Option {
	var opts []Option
	opts = append(opts, d.Options...)
	opts = append(opts, d.Matches...)
	if d.NoneOption != nil {
		opts = append(opts, *d.NoneOption)
	}
	if d.Kind == KindConfirmation {
		opts = append(opts,
			Option{Display: "Confirm", Value: d.ConfirmValue},
			Option{Display: "Edit", Value: d.EditValue},
		)
	}
	if d.Kind == KindCompletion {
		opts = append(opts, Option{Display: "Start new registration", Value: d.RestartValue})
	}
	return opts
}

// Allows reports whether value is a legitimate submission for this directive.
func (d Directive) Allows(value string) bool {
	for _, o := range d.Selectable() {
		if o.Value == value {
			return true
		}
	}
	return false
}
