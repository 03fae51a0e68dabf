package extract

import (
	"regexp"
	"strings"
)

// Regexes for backfilling contact details from resume text when the form
// did not provide them.
var (
	emailPattern  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+?1?\s*\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		regexp.MustCompile(`\b\d{10}\b`),
		regexp.MustCompile(`\+\d{1,3}\s?\d{8,12}`),
	}
)

// FindEmail returns the first email address in the text, or "".
func FindEmail(text string) string {
	return emailPattern.FindString(text)
}

// FindPhone returns the first phone-number-looking token in the text, or "".
func FindPhone(text string) string {
	for _, pattern := range phonePatterns {
		if m := pattern.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// GuessName returns the first short non-empty line without an @ sign,
// which in practice is usually the candidate's name heading the resume.
func GuessName(text string) string {
	lines := strings.Split(text, "\n")
	limit := len(lines)
	if limit > 5 {
		limit = 5
	}
	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if line != "" && len(line) < 50 && !strings.Contains(line, "@") {
			return line
		}
	}
	return ""
}
