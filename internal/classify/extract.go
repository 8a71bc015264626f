package classify

import (
	"strconv"
	"strings"
)

// numberedOptions turns the candidate numbered lines into options. The value
// is the literal digit prefix as written by the backend (not re-numbered),
// so the submission round-trips exactly.
func numberedOptions(lines []string, idx []int) []Option {
	opts := make([]Option, 0, len(idx))
	for _, i := range idx {
		line := lines[i]
		dot := strings.Index(line, ".")
		opts = append(opts, Option{
			Display: strings.TrimSpace(line[dot+1:]),
			Value:   line[:dot],
		})
	}
	return opts
}

// emojiOptions maps marker lines to their semantic tokens. A line matching
// no category rule keeps its own trimmed text as both display and value.
func (c *Classifier) emojiOptions(lines []string, idx []int) []Option {
	opts := make([]Option, 0, len(idx))
	for _, i := range idx {
		trimmed := strings.TrimSpace(lines[i])
		lower := strings.ToLower(trimmed)
		value := trimmed
		for _, rule := range c.table.EmojiCategories {
			if strings.Contains(lower, rule.Contains) {
				value = rule.Value
				break
			}
		}
		opts = append(opts, Option{Display: trimmed, Value: value})
	}
	return opts
}

// employeeMatches extracts the selectable name lines below the banner.
// Values are 1-based running counters assigned in line order; the banner
// line and any none-of-these echo are skipped.
func (c *Classifier) employeeMatches(lines []string) []Option {
	var matches []Option
	counter := 0
	for _, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if containsAny(strings.ToLower(trimmed), c.table.MatchLineExclude) {
			continue
		}
		counter++
		matches = append(matches, Option{
			Display: trimmed,
			Value:   strconv.Itoa(counter),
		})
	}
	return matches
}

// summaryLines collects, in original order, every line carrying a known
// field label. Lines are kept verbatim for display.
func (c *Classifier) summaryLines(lines []string) (summary []string, idx []int) {
	for i, line := range lines {
		if containsAny(strings.ToLower(line), c.table.SummaryLabels) {
			summary = append(summary, line)
			idx = append(idx, i)
		}
	}
	return summary, idx
}

// containsAny reports whether text contains at least one of the phrases.
func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
