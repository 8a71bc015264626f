package classify

import "strings"

// SplitLines splits a message body into its ordered lines. Empty lines are
// kept — several detectors care about line positions, and trailing empties
// matter for "is the last line empty" checks. An empty input yields nil
// rather than a single empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
