// Package licensedates computes graduated-licence class transition
// dates from an MVR issue date and a DASH first insurance date.
package licensedates

import (
	"fmt"
	"time"

	"github.com/insurelens/insurelens-backend/internal/parsing/dates"
	"github.com/insurelens/insurelens-backend/internal/parsing/domain"
)

// StrategyCalendarYear is the only calculation policy: same month and
// day, year decremented. No day-count averaging.
const StrategyCalendarYear = "CALENDAR_YEAR"

// ExperienceWarning is raised when the licence expiry month/day does
// not match the birth month/day. Renewal cycles tie expiry to birth
// date, so a mismatch suggests shorter on-paper tenure.
const ExperienceWarning = "Customer has less than 5 years of experience"

// Result is the pure output of one calculation call. It is created
// fresh per call and never mutated afterwards.
type Result struct {
	Success              bool    `json:"success"`
	IssueDate            *string `json:"issue_date"`
	FirstInsuranceDate   *string `json:"first_insurance_date"`
	GDate                *string `json:"g_date"`
	G2Date               *string `json:"g2_date"`
	G1Date               *string `json:"g1_date"`
	TotalMonths          *int    `json:"total_months"`
	Strategy             string  `json:"strategy"`
	CalculationPerformed bool    `json:"calculation_performed"`
	ExperienceWarning    *string `json:"experience_warning"`
	Error                *string `json:"error"`
	Note                 *string `json:"note"`
}

// Input carries the four date fields a calculation may use, each an
// explicit presence union. Nothing else is ever read.
type Input struct {
	IssueDate          domain.FieldValue
	FirstInsuranceDate domain.FieldValue
	BirthDate          domain.FieldValue
	ExpiryDate         domain.FieldValue
}

// Calculate computes G, G2 and G1 dates by calendar year subtraction
// from the first insurance date.
//
// A missing issue date or first insurance date is insufficient
// evidence, not an error: calculation_performed stays false and Note
// says which date is missing. A present-but-unparseable date surfaces
// through Error. The experience warning never blocks calculation.
func Calculate(in Input) Result {
	res := Result{Strategy: StrategyCalendarYear}

	switch {
	case !in.IssueDate.Present() && !in.FirstInsuranceDate.Present():
		res.Success = true
		res.Note = ptr("Both Issue Date (from MVR) and First Insurance Date (from DASH) required for calculation")
		return res
	case !in.IssueDate.Present():
		res.Success = true
		res.Note = ptr("Issue Date not found in MVR document")
		return res
	case !in.FirstInsuranceDate.Present():
		res.Success = true
		res.Note = ptr("First Insurance Date not found in DASH document")
		return res
	}

	issue, err := dates.Parse(in.IssueDate.Value())
	if err != nil {
		res.Error = ptr(fmt.Sprintf("Date calculation failed: invalid issue date %q", in.IssueDate.Value()))
		return res
	}
	firstIns, err := dates.Parse(in.FirstInsuranceDate.Value())
	if err != nil {
		res.Error = ptr(fmt.Sprintf("Date calculation failed: invalid first insurance date %q", in.FirstInsuranceDate.Value()))
		return res
	}

	res.IssueDate = ptr(in.IssueDate.Value())
	res.FirstInsuranceDate = ptr(in.FirstInsuranceDate.Value())

	res.GDate = ptr(formatDate(subtractYears(firstIns, 1)))
	res.G2Date = ptr(formatDate(subtractYears(firstIns, 3)))
	res.G1Date = ptr(formatDate(subtractYears(firstIns, 5)))

	totalDays := int(firstIns.Sub(issue).Hours() / 24)
	totalMonths := int(float64(totalDays) / 30.44)
	res.TotalMonths = &totalMonths

	if in.BirthDate.Present() && in.ExpiryDate.Present() {
		birth, berr := dates.Parse(in.BirthDate.Value())
		expiry, eerr := dates.Parse(in.ExpiryDate.Value())
		if berr == nil && eerr == nil {
			if birth.Month() != expiry.Month() || birth.Day() != expiry.Day() {
				res.ExperienceWarning = ptr(ExperienceWarning)
			}
		}
	}

	res.Success = true
	res.CalculationPerformed = true
	return res
}

// subtractYears decrements the year keeping month and day. When the
// source day does not exist in the target year (Feb 29), the result
// clamps to the last day of that month.
func subtractYears(t time.Time, years int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y-years, m, d, 0, 0, 0, 0, time.UTC)
	if target.Month() != m {
		// normalization rolled into the next month; clamp back
		target = time.Date(y-years, m+1, 0, 0, 0, 0, 0, time.UTC)
	}
	return target
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func ptr[T any](v T) *T { return &v }
