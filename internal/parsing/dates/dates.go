// Package dates normalizes the date spellings found in insurance report
// text to the canonical YYYY-MM-DD form.
package dates

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrUnparseable is returned when a raw value has no recognized date shape.
// Callers must treat it as field absence, never substitute a default.
var ErrUnparseable = errors.New("unparseable date")

const canonical = "2006-01-02"

var whitespaceRe = regexp.MustCompile(`\s+`)

// layouts tried in order for general (US-leaning) report fields. The
// first structural match wins. Unpadded tokens so time.Parse accepts
// both "06/01" and "6/1" spellings.
var layouts = []string{
	"2006-1-2",
	"1/2/2006",
	"1-2-2006",
	"2006/1/2",
	"1/2/06",
}

// canadianLayouts prioritizes DD/MM/YYYY, the convention of Ontario MVR
// abstracts, before falling back to the US orderings.
var canadianLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"1/2/2006",
	"1-2-2006",
	"2006-1-2",
	"1/2/06",
	"2/1/06",
}

// Normalize converts a raw date spelling to canonical YYYY-MM-DD.
// Embedded whitespace from PDF column wrapping ("2022-1 1-21") is
// stripped before structural parsing.
func Normalize(raw string) (string, error) {
	return normalize(raw, layouts)
}

// NormalizeCanadian is Normalize for fields explicitly known to carry
// the Canadian DD/MM/YYYY ordering.
func NormalizeCanadian(raw string) (string, error) {
	return normalize(raw, canadianLayouts)
}

func normalize(raw string, tryLayouts []string) (string, error) {
	s := whitespaceRe.ReplaceAllString(strings.TrimSpace(raw), "")
	if s == "" {
		return "", ErrUnparseable
	}

	// 8 raw digits: YYYYMMDD
	if len(s) == 8 && isDigits(s) {
		if t, err := time.Parse("20060102", s); err == nil {
			return t.Format(canonical), nil
		}
		return "", ErrUnparseable
	}

	for _, layout := range tryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonical), nil
		}
	}
	return "", ErrUnparseable
}

// Parse converts a canonical YYYY-MM-DD string to a time.Time.
func Parse(value string) (time.Time, error) {
	t, err := time.Parse(canonical, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, ErrUnparseable
	}
	return t, nil
}

// Display formats a canonical YYYY-MM-DD value as MM/DD/YYYY for
// presentation. Non-canonical input passes through unchanged.
func Display(value string) string {
	t, err := Parse(value)
	if err != nil {
		return value
	}
	return t.Format("01/02/2006")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
