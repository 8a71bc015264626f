package phrase

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML phrase table at path and returns a validated [Table].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("phrase: open %q: %w", path, err)
	}
	defer f.Close()

	t, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("phrase: parse %q: %w", path, err)
	}
	return t, nil
}

// LoadFromReader decodes a YAML phrase table from r and validates the result.
// Useful in tests where tables are constructed from string literals.
func LoadFromReader(r io.Reader) (*Table, error) {
	t := &Table{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(t); err != nil {
		return nil, fmt.Errorf("phrase: decode yaml: %w", err)
	}
	if err := Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that t contains a coherent set of phrases.
// It returns a joined error listing all validation failures found.
func Validate(t *Table) error {
	var errs []error

	if t.Version <= 0 {
		errs = append(errs, fmt.Errorf("version %d is invalid; must be >= 1", t.Version))
	}
	if len(t.EmployeeMatchTokens) == 0 {
		errs = append(errs, errors.New("employee_match_tokens must not be empty"))
	}
	if len(t.ConfirmationSets) == 0 && len(t.ConfirmationLiterals) == 0 {
		errs = append(errs, errors.New("at least one of confirmation_sets or confirmation_literals is required"))
	}
	if len(t.CompletionSets) == 0 {
		errs = append(errs, errors.New("completion_sets must not be empty"))
	}
	for i, set := range t.ConfirmationSets {
		if len(set) == 0 {
			errs = append(errs, fmt.Errorf("confirmation_sets[%d] is empty", i))
		}
	}
	for i, set := range t.CompletionSets {
		if len(set) == 0 {
			errs = append(errs, fmt.Errorf("completion_sets[%d] is empty", i))
		}
	}
	for i, rule := range t.EmojiCategories {
		if rule.Contains == "" {
			errs = append(errs, fmt.Errorf("emoji_categories[%d].contains is required", i))
		}
		if rule.Value == "" {
			errs = append(errs, fmt.Errorf("emoji_categories[%d].value is required", i))
		}
	}
	if t.NoneOptionValue == "" {
		errs = append(errs, errors.New("none_option_value is required"))
	}
	if t.ConfirmValue == "" || t.EditValue == "" {
		errs = append(errs, errors.New("confirm_value and edit_value are required"))
	}
	if t.RestartValue == "" {
		errs = append(errs, errors.New("restart_value is required"))
	}

	return errors.Join(errs...)
}
