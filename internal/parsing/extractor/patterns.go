package extractor

import (
	"regexp"
	"strings"

	"github.com/insurelens/insurelens-backend/internal/parsing/domain"
)

// pattern is one step of an ordered extraction cascade: a regex plus an
// optional post-processing of its first capture group.
type pattern struct {
	re   *regexp.Regexp
	post func(string) string
}

// firstMatch evaluates a cascade left to right and returns the first
// structural match. A post func returning "" rejects the match and the
// cascade moves on.
func firstMatch(text string, cascade []pattern) domain.FieldValue {
	for _, p := range cascade {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v := strings.TrimSpace(m[1])
		if p.post != nil {
			v = p.post(v)
		}
		if v != "" {
			return domain.Found(v)
		}
	}
	return domain.Absent
}

var spacesRe = regexp.MustCompile(`\s+`)

// collapseSpaces folds runs of whitespace into single spaces.
func collapseSpaces(s string) string {
	return spacesRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// normalizeName case-folds a person name, strips commas and collapses
// whitespace, so operator lists and driver names compare structurally.
func normalizeName(s string) string {
	return strings.ReplaceAll(collapseSpaces(strings.ToLower(s)), ",", "")
}
