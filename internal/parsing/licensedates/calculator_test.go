package licensedates

import (
	"testing"

	"github.com/insurelens/insurelens-backend/internal/parsing/domain"
)

func TestCalculate(t *testing.T) {
	res := Calculate(Input{
		IssueDate:          domain.Found("2018-06-15"),
		FirstInsuranceDate: domain.Found("2020-06-15"),
	})

	if !res.Success || !res.CalculationPerformed {
		t.Fatalf("success=%v performed=%v, want true/true", res.Success, res.CalculationPerformed)
	}
	if got := *res.GDate; got != "2019-06-15" {
		t.Errorf("g_date = %q, want 2019-06-15", got)
	}
	if got := *res.G2Date; got != "2017-06-15" {
		t.Errorf("g2_date = %q, want 2017-06-15", got)
	}
	if got := *res.G1Date; got != "2015-06-15" {
		t.Errorf("g1_date = %q, want 2015-06-15", got)
	}
	if res.ExperienceWarning != nil {
		t.Errorf("experience_warning = %q, want nil", *res.ExperienceWarning)
	}
	if res.Strategy != StrategyCalendarYear {
		t.Errorf("strategy = %q", res.Strategy)
	}
	// two years between issue and first insurance
	if got := *res.TotalMonths; got != 24 {
		t.Errorf("total_months = %d, want 24", got)
	}
}

func TestCalculateMissingDates(t *testing.T) {
	tests := []struct {
		name     string
		in       Input
		wantNote string
	}{
		{
			name:     "missing issue date",
			in:       Input{FirstInsuranceDate: domain.Found("2020-01-01")},
			wantNote: "Issue Date not found in MVR document",
		},
		{
			name:     "missing first insurance date",
			in:       Input{IssueDate: domain.Found("2018-01-01")},
			wantNote: "First Insurance Date not found in DASH document",
		},
		{
			name:     "missing both",
			in:       Input{},
			wantNote: "Both Issue Date (from MVR) and First Insurance Date (from DASH) required for calculation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Calculate(tt.in)
			if res.CalculationPerformed {
				t.Error("calculation_performed = true, want false")
			}
			if res.GDate != nil {
				t.Errorf("g_date = %q, want nil", *res.GDate)
			}
			if res.Note == nil || *res.Note != tt.wantNote {
				t.Errorf("note = %v, want %q", res.Note, tt.wantNote)
			}
			if res.Error != nil {
				t.Errorf("error = %q, want nil", *res.Error)
			}
		})
	}
}

func TestCalculateExperienceWarning(t *testing.T) {
	res := Calculate(Input{
		IssueDate:          domain.Found("2018-06-15"),
		FirstInsuranceDate: domain.Found("2020-06-15"),
		BirthDate:          domain.Found("1990-03-10"),
		ExpiryDate:         domain.Found("2026-03-12"),
	})

	// day mismatch warns but dates are still computed
	if res.ExperienceWarning == nil || *res.ExperienceWarning != ExperienceWarning {
		t.Fatalf("experience_warning = %v, want %q", res.ExperienceWarning, ExperienceWarning)
	}
	if !res.CalculationPerformed || res.GDate == nil {
		t.Error("warning must not block calculation")
	}
}

func TestCalculateExperienceMatchNoWarning(t *testing.T) {
	res := Calculate(Input{
		IssueDate:          domain.Found("2018-06-15"),
		FirstInsuranceDate: domain.Found("2020-06-15"),
		BirthDate:          domain.Found("1990-03-10"),
		ExpiryDate:         domain.Found("2026-03-10"),
	})
	if res.ExperienceWarning != nil {
		t.Errorf("experience_warning = %q, want nil", *res.ExperienceWarning)
	}
}

func TestCalculateInvalidDate(t *testing.T) {
	res := Calculate(Input{
		IssueDate:          domain.Found("not-a-date"),
		FirstInsuranceDate: domain.Found("2020-06-15"),
	})
	if res.Error == nil {
		t.Fatal("error = nil, want date calculation failure")
	}
	if res.CalculationPerformed || res.GDate != nil {
		t.Error("failed parse must not produce dates")
	}
}

func TestCalculateLeapDayClamps(t *testing.T) {
	res := Calculate(Input{
		IssueDate:          domain.Found("2010-01-01"),
		FirstInsuranceDate: domain.Found("2020-02-29"),
	})
	if got := *res.GDate; got != "2019-02-28" {
		t.Errorf("g_date = %q, want 2019-02-28", got)
	}
	if got := *res.G2Date; got != "2017-02-28" {
		t.Errorf("g2_date = %q, want 2017-02-28", got)
	}
	if got := *res.G1Date; got != "2015-02-28" {
		t.Errorf("g1_date = %q, want 2015-02-28", got)
	}
}

func TestCalculatePure(t *testing.T) {
	in := Input{
		IssueDate:          domain.Found("2018-06-15"),
		FirstInsuranceDate: domain.Found("2020-06-15"),
	}
	a, b := Calculate(in), Calculate(in)
	if *a.GDate != *b.GDate || *a.TotalMonths != *b.TotalMonths {
		t.Error("identical inputs must yield identical outputs")
	}
}
