package extractor

import (
	"strings"
	"testing"

	"github.com/insurelens/insurelens-backend/internal/parsing/domain"
)

const sampleDashText = `DRIVER REPORT
MOTILAL DANNILLIAN DLN: M6771-15409-66215 Ontario
Date of Birth: 1985-04-12
Gender: Male
Marital Status: Married
Address: 61 GRAPEVINE CIRCLE SCARBOROUGH ON M1X1X6
Years Licensed: 12
Years of Continuous Insurance: 8
Years Claims Free: 5
Number of Claims in Last 6 Years: 1
Number of At-Fault Claims in Last 6 Years: 0
Number of Comprehensive Losses in Last 6 Years: 0
Number of DCPD Claims in Last 6 Years: 1
Policy #1 2022-11-21 to 2023-11-21 Aviva Insurance Company of Canada Active
Number of Private Passenger Vehicles : 2
Number of Reported Operators: 2
Operator: MOTILAL DANNILLIAN
End of the Latest Term: 2021-05-01
Policy #2 2018-08-15 to 2019-08-15 Intact Insurance Cancelled
Operator: MOTILAL DANNILLIAN
End of the Latest Term: 2019-08-15
`

func TestDashExtract(t *testing.T) {
	got := NewDashExtractor().Extract(sampleDashText)

	want := map[string]domain.FieldValue{
		"full_name":                  got.FullName,
		"dln":                        got.DLN,
		"date_of_birth":              got.DateOfBirth,
		"gender":                     got.Gender,
		"marital_status":             got.MaritalStatus,
		"address":                    got.Address,
		"years_licensed":             got.YearsLicensed,
		"years_continuous_insurance": got.YearsContinuousInsurance,
		"years_claims_free":          got.YearsClaimsFree,
	}
	expected := map[string]string{
		"full_name":                  "MOTILAL DANNILLIAN",
		"dln":                        "M6771-15409-66215",
		"date_of_birth":              "1985-04-12",
		"gender":                     "M",
		"marital_status":             "Married",
		"address":                    "61 GRAPEVINE CIRCLE SCARBOROUGH ON M1X1X6",
		"years_licensed":             "12",
		"years_continuous_insurance": "8",
		"years_claims_free":          "5",
	}
	for field, fv := range want {
		if !fv.Present() {
			t.Errorf("%s: absent, want %q", field, expected[field])
			continue
		}
		if fv.Value() != expected[field] {
			t.Errorf("%s = %q, want %q", field, fv.Value(), expected[field])
		}
	}

	if got.ClaimsCount6y.Value() != "1" || got.AtFaultClaims6y.Value() != "0" ||
		got.ComprehensiveLosses6y.Value() != "0" || got.DCPDClaims6y.Value() != "1" {
		t.Errorf("claims fields = %q/%q/%q/%q, want 1/0/0/1",
			got.ClaimsCount6y.Value(), got.AtFaultClaims6y.Value(),
			got.ComprehensiveLosses6y.Value(), got.DCPDClaims6y.Value())
	}

	if got.CurrentCompany.Value() != "Aviva Insurance Company of Canada" {
		t.Errorf("current_company = %q", got.CurrentCompany.Value())
	}
	if got.CurrentPolicyExpiry.Value() != "2023-11-21" {
		t.Errorf("current_policy_expiry = %q, want 2023-11-21", got.CurrentPolicyExpiry.Value())
	}
	if got.CurrentVehiclesCount.Value() != "2" || got.CurrentOperatorsCount.Value() != "2" {
		t.Errorf("vehicles/operators = %q/%q, want 2/2",
			got.CurrentVehiclesCount.Value(), got.CurrentOperatorsCount.Value())
	}
}

func TestDashFirstInsuranceDateEarliestMatchedTermEnd(t *testing.T) {
	got := NewDashExtractor().Extract(sampleDashText)

	// two operator-matched blocks with term ends 2021-05-01 and
	// 2019-08-15: the earliest wins
	if !got.FirstInsuranceDate.Present() {
		t.Fatal("first_insurance_date absent")
	}
	if got.FirstInsuranceDate.Value() != "2019-08-15" {
		t.Errorf("first_insurance_date = %q, want 2019-08-15", got.FirstInsuranceDate.Value())
	}
}

func TestDashFirstInsuranceDateDocWideFallback(t *testing.T) {
	// driver name does not match any operator: fall back to scanning
	// the whole document for term-end dates
	text := `DRIVER REPORT
JANE DOE DLN: A1234-56789-01234 Ontario
Policy #1 2020-01-01 to 2022-01-01 Wawanesa Active
Operator: SOMEONE ELSE
End of the Latest Term: 2022-03-01
Policy #2 2016-06-01 to 2017-06-01 Intact Cancelled
Operator: ANOTHER PERSON
End of the Latest Term: 2017-06-01
`
	got := NewDashExtractor().Extract(text)
	if got.FirstInsuranceDate.Value() != "2017-06-01" {
		t.Errorf("first_insurance_date = %q, want 2017-06-01", got.FirstInsuranceDate.Value())
	}
}

func TestDashFirstInsuranceDateAbsent(t *testing.T) {
	got := NewDashExtractor().Extract("DRIVER REPORT\nJANE DOE DLN: A1 Ontario\nno policy data here\n")
	if got.FirstInsuranceDate.Present() {
		t.Errorf("first_insurance_date = %q, want absent", got.FirstInsuranceDate.Value())
	}
}

func TestDashTermStartStrategy(t *testing.T) {
	text := `DRIVER REPORT
MOTILAL DANNILLIAN DLN: M6771-15409-66215 Ontario
Policy #1 2022-11-21 to 2023-11-21 Aviva Active
Operator: MOTILAL DANNILLIAN
Start of the Earliest Term: 2022-11-21
Policy #2 2018-08-15 to 2019-08-15 Intact Cancelled
Operator: MOTILAL DANNILLIAN
Start of the Earliest Term: 2018-08-15
`
	got := NewDashExtractorWithStrategy(StrategyEarliestTermStart).Extract(text)

	// the alternate convention reads the last matched block in document
	// order, not the earliest date
	if got.FirstInsuranceDate.Value() != "2018-08-15" {
		t.Errorf("first_insurance_date = %q, want 2018-08-15", got.FirstInsuranceDate.Value())
	}
}

func TestDashPoliciesOrderedByStartDate(t *testing.T) {
	got := NewDashExtractor().Extract(sampleDashText)
	if len(got.Policies) != 2 {
		t.Fatalf("policies = %d, want 2", len(got.Policies))
	}
	// document order is #1 (2022) then #2 (2018); chronological order
	// puts #2 first
	if got.Policies[0].Index != 2 || got.Policies[0].StartDate.Value() != "2018-08-15" {
		t.Errorf("policies[0] = #%d %q, want #2 2018-08-15",
			got.Policies[0].Index, got.Policies[0].StartDate.Value())
	}
	if got.Policies[0].Status != domain.PolicyStatusCancelled {
		t.Errorf("policies[0].Status = %q, want Cancelled", got.Policies[0].Status)
	}
	if got.Policies[1].Status != domain.PolicyStatusActive {
		t.Errorf("policies[1].Status = %q, want Active", got.Policies[1].Status)
	}
	if len(got.Policies[0].Operators) != 1 || got.Policies[0].Operators[0].Name != "MOTILAL DANNILLIAN" {
		t.Errorf("policies[0].Operators = %+v", got.Policies[0].Operators)
	}
}

func TestDashExtractIdempotent(t *testing.T) {
	e := NewDashExtractor()
	a := e.Extract(sampleDashText)
	b := e.Extract(sampleDashText)
	ja, err := a.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	jb, err := b.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(ja) != string(jb) {
		t.Error("extraction is not deterministic")
	}
}

func TestDashAbsentFieldsRenderSentinel(t *testing.T) {
	got := NewDashExtractor().Extract("Certificate of Insurance\n")
	data, err := got.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"name":"-"`, `"dob":"-"`, `"firstInsuranceDate":"-"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("serialized output missing %s: %s", key, data)
		}
	}
}
