// Package datescan implements the heuristic date detection used by the upload
// analysis pipeline. It is a best-effort scan, not a date parser: matches are
// reported as-is, and only a strict YYYY-MM-DD first match ever becomes the
// candidate expiration date.
package datescan

import (
	"regexp"
	"time"
)

// datePattern matches numeric dates with slash or dash separators, in either
// month-day-year or year-month-day order.
var datePattern = regexp.MustCompile(`\b\d{1,2}[-/]\d{1,2}[-/]\d{2,4}\b|\b\d{4}[-/]\d{1,2}[-/]\d{1,2}\b`)

// isoPrefix gates which first matches are eligible for strict parsing.
var isoPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// Matches returns all date-like substrings in order of first occurrence,
// including duplicates.
func Matches(text string) []string {
	return datePattern.FindAllString(text, -1)
}

// Dedupe removes duplicate matches while preserving first-occurrence order.
func Dedupe(matches []string) []string {
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Candidate derives the candidate expiration date from the raw matches.
// Only the first match is considered, and only when it is a strict
// YYYY-MM-DD value; any other shape or a parse failure yields nil.
func Candidate(matches []string) *time.Time {
	if len(matches) == 0 {
		return nil
	}
	first := matches[0]
	if !isoPrefix.MatchString(first) {
		return nil
	}
	t, err := time.Parse("2006-01-02", first)
	if err != nil {
		return nil
	}
	return &t
}
