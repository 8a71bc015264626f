package classify

import "strings"

// composePrompt rebuilds the human-facing prompt from the tokenized lines,
// skipping the indexes already consumed as options or summary fields so the
// same text is never rendered twice. Remaining non-empty lines are trimmed
// and joined with a single space. If filtering leaves nothing, the first raw
// line is used as a fallback so the prompt is never empty for non-empty
// input.
func composePrompt(lines []string, consumed map[int]bool) string {
	parts := make([]string, 0, len(lines))
	for i, line := range lines {
		if consumed[i] {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		if len(lines) == 0 {
			return ""
		}
		return lines[0]
	}
	return strings.Join(parts, " ")
}

// consumedSet builds a consumed-index set from the given index slices.
func consumedSet(idxs ...[]int) map[int]bool {
	set := make(map[int]bool)
	for _, idx := range idxs {
		for _, i := range idx {
			set[i] = true
		}
	}
	return set
}
