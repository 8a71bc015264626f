package classify

import (
	"regexp"
	"strings"
)

// numberedLineRe matches lines that open a numbered menu entry: one or more
// digits followed by a literal period.
var numberedLineRe = regexp.MustCompile(`^\d+\.`)

// numberedIndexes returns the indexes of lines forming the candidate
// numbered-option set, in original order.
func numberedIndexes(lines []string) []int {
	var idx []int
	for i, line := range lines {
		if numberedLineRe.MatchString(line) {
			idx = append(idx, i)
		}
	}
	return idx
}

// emojiIndexes returns the indexes of lines that, after trimming, begin with
// one of the table's marker glyphs.
func (c *Classifier) emojiIndexes(lines []string) []int {
	var idx []int
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, marker := range c.table.EmojiMarkers {
			if strings.HasPrefix(trimmed, marker) {
				idx = append(idx, i)
				break
			}
		}
	}
	return idx
}

// isEmployeeMatch reports whether the first line is an employee-match
// banner. Detection is a strict co-occurrence test on line 0 only; later
// lines matter for extraction but not for detection.
func (c *Classifier) isEmployeeMatch(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	first := strings.ToLower(lines[0])
	for _, tok := range c.table.EmployeeMatchTokens {
		if !strings.Contains(first, tok) {
			return false
		}
	}
	return true
}

// isConfirmation reports whether the message asks the visitor to confirm or
// edit their details. Phrase sets are tested against the full raw lowercased
// text; the bracket literals are tested verbatim against the raw text.
// Evaluating against the full text (rather than a partially-built prompt)
// keeps the result independent of extraction order.
func (c *Classifier) isConfirmation(raw, lower string) bool {
	for _, set := range c.table.ConfirmationSets {
		if containsAll(lower, set) {
			return true
		}
	}
	if len(c.table.ConfirmationLiterals) > 0 && containsAll(raw, c.table.ConfirmationLiterals) {
		return true
	}
	return false
}

// isCompletion reports whether the message signals a terminal conversation
// state offering restart.
func (c *Classifier) isCompletion(lower string) bool {
	for _, set := range c.table.CompletionSets {
		if containsAll(lower, set) {
			return true
		}
	}
	return false
}

// hasFreeTextCue reports whether the text reads like a data-collection
// prompt. This is the raw keyword test only; the input-field decision also
// requires that no button-bearing pattern is present (see
// [Classifier.ShouldShowInputField]).
func (c *Classifier) hasFreeTextCue(lower string) bool {
	for _, kw := range c.table.FreeTextKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if c.table.FreeTextEnter != "" &&
		strings.Contains(lower, c.table.FreeTextEnter) &&
		!strings.Contains(lower, c.table.FreeTextEnterExclude) {
		return true
	}
	return false
}

// containsAll reports whether text contains every phrase in set.
func containsAll(text string, set []string) bool {
	for _, phrase := range set {
		if !strings.Contains(text, phrase) {
			return false
		}
	}
	return len(set) > 0
}
