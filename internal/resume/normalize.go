// Package resume cleans extracted resume text and pulls out short clauses
// describing concrete work, used as question fillers.
package resume

import (
	"regexp"
	"strings"
)

// minRepeatRun is the run length from which repeated tokens are collapsed.
// PDF extraction tends to emit "Python Python Python" for styled headings.
const minRepeatRun = 3

// dateRange matches "2019-2021", "2019 – Present", "2018-to2020" and similar.
var dateRange = regexp.MustCompile(`(?i)\b(?:19|20)\d{2}\s*[-–—]\s*(?:[a-z]+\s*)?(?:(?:19|20)\d{2}|present|current|now)\b`)

// Normalize collapses horizontal whitespace, drops blank lines, collapses runs
// of 3+ case-insensitive repeats of a token and strips date ranges. Line breaks
// are kept since they separate bullets.
func Normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = dateRange.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		out = append(out, strings.Join(collapseRepeats(fields), " "))
	}

	return strings.Join(out, "\n")
}

func collapseRepeats(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		j := i + 1
		for j < len(tokens) && strings.EqualFold(tokens[j], tokens[i]) {
			j++
		}

		if j-i >= minRepeatRun {
			out = append(out, tokens[i])
		} else {
			out = append(out, tokens[i:j]...)
		}
		i = j
	}
	return out
}
