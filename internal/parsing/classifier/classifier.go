// Package classifier decides whether a report's text is a DASH driver
// report or an MVR abstract.
package classifier

import (
	"regexp"

	"github.com/insurelens/insurelens-backend/internal/parsing/domain"
)

// DASH indicators are checked first: they are more specific, and MVR
// indicator phrases can coincidentally appear in DASH boilerplate.
var dashIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)DASH\s+Report`),
	regexp.MustCompile(`(?i)DRIVER\s+REPORT`),
	regexp.MustCompile(`(?i)Insurance\s+Certificate`),
	regexp.MustCompile(`(?i)Policy\s+Certificate`),
	regexp.MustCompile(`(?i)Insurance\s+Summary`),
	regexp.MustCompile(`(?i)Certificate\s+of\s+Insurance`),
}

var mvrIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)motor\s*vehicle\s*record`),
	regexp.MustCompile(`\bMVR\b`),
	regexp.MustCompile(`(?i)driving\s*record`),
	regexp.MustCompile(`(?i)licence\s*history`),
	regexp.MustCompile(`(?i)motor\s*vehicle\s*history`),
}

// Classify returns the document type for the given report text, or
// DocumentTypeUnknown when neither indicator set matches. Callers must
// treat Unknown as a terminal failure rather than guessing a type.
func Classify(text string) domain.DocumentType {
	for _, re := range dashIndicators {
		if re.MatchString(text) {
			return domain.DocumentTypeDASH
		}
	}
	for _, re := range mvrIndicators {
		if re.MatchString(text) {
			return domain.DocumentTypeMVR
		}
	}
	return domain.DocumentTypeUnknown
}
