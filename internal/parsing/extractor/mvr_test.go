package extractor

import (
	"strings"
	"testing"
)

const sampleMvrText = `ONTARIO MINISTRY OF TRANSPORTATION
Motor Vehicle Record - 3 Year
Name: GARNICA,IVAN,TRABANCA Birth Date: 14/09/1988
Licence Number: G6771-15409-88914 Expiry Date: 05/02/2027
Issue Date: 12/03/2015
Address: 61 GRAPEVINE CIRCLE SCARBOROUGH ON M1X1X6
Gender: Male Marital Status: Single Number of dependents: 0
Years Licensed: 9
Years Claims Free: 4
*** Number of Convictions: 2 ***
DATE CONVICTIONS, DISCHARGES AND OTHER ACTIONS
2021-04-18 SPEEDING 80 KM/H IN A 60 KM/H ZONE
2019-10-02
DISOBEY STOP SIGN
SEARCH SUCCESSFUL
`

func TestMvrExtract(t *testing.T) {
	got := NewMvrExtractor().Extract(sampleMvrText)

	if got.FullName.Value() != "GARNICA IVAN TRABANCA" {
		t.Errorf("full_name = %q, want GARNICA IVAN TRABANCA", got.FullName.Value())
	}
	// Canadian day-first ordering
	if got.BirthDate.Value() != "1988-09-14" {
		t.Errorf("birth_date = %q, want 1988-09-14", got.BirthDate.Value())
	}
	if got.LicenceNumber.Value() != "G6771-15409-88914" {
		t.Errorf("licence_number = %q", got.LicenceNumber.Value())
	}
	if got.LicenceExpiryDate.Value() != "2027-02-05" {
		t.Errorf("licence_expiry_date = %q, want 2027-02-05", got.LicenceExpiryDate.Value())
	}
	if got.IssueDate.Value() != "2015-03-12" {
		t.Errorf("issue_date = %q, want 2015-03-12", got.IssueDate.Value())
	}
	if got.Gender.Value() != "Male" {
		t.Errorf("gender = %q, want Male", got.Gender.Value())
	}
	if got.MaritalStatus.Value() != "Single" {
		t.Errorf("marital_status = %q, want Single", got.MaritalStatus.Value())
	}
	if got.YearsLicensed.Value() != "9" || got.YearsClaimsFree.Value() != "4" {
		t.Errorf("years licensed/claims free = %q/%q, want 9/4",
			got.YearsLicensed.Value(), got.YearsClaimsFree.Value())
	}
	if got.Address.Value() != "61 GRAPEVINE CIRCLE SCARBOROUGH ON M1X1X6" {
		t.Errorf("address = %q", got.Address.Value())
	}
}

func TestMvrConvictions(t *testing.T) {
	got := NewMvrExtractor().Extract(sampleMvrText)

	if got.ConvictionsCount.Value() != "2" {
		t.Fatalf("convictions_count = %q, want 2", got.ConvictionsCount.Value())
	}
	if len(got.Convictions) != 2 {
		t.Fatalf("convictions = %d, want 2", len(got.Convictions))
	}
	if got.Convictions[0].Date.Value() != "2021-04-18" {
		t.Errorf("convictions[0].date = %q, want 2021-04-18", got.Convictions[0].Date.Value())
	}
	if got.Convictions[0].Description.Value() != "SPEEDING 80 KM/H IN A 60 KM/H ZONE" {
		t.Errorf("convictions[0].description = %q", got.Convictions[0].Description.Value())
	}
	// description wrapped to the following line
	if got.Convictions[1].Date.Value() != "2019-10-02" {
		t.Errorf("convictions[1].date = %q, want 2019-10-02", got.Convictions[1].Date.Value())
	}
	if got.Convictions[1].Description.Value() != "DISOBEY STOP SIGN" {
		t.Errorf("convictions[1].description = %q", got.Convictions[1].Description.Value())
	}
}

func TestMvrZeroCountForcesEmptyConvictions(t *testing.T) {
	text := `Motor Vehicle Record
Name: DOE,JANE Birth Date: 01/02/1990
*** Number of Convictions: 0 ***
DATE CONVICTIONS, DISCHARGES AND OTHER ACTIONS
2020-01-01 STRAY DATED LINE THAT LOOKS LIKE A CONVICTION
SEARCH SUCCESSFUL
`
	got := NewMvrExtractor().Extract(text)
	if got.ConvictionsCount.Value() != "0" {
		t.Fatalf("convictions_count = %q, want 0", got.ConvictionsCount.Value())
	}
	if len(got.Convictions) != 0 {
		t.Errorf("convictions = %d, want 0 regardless of dated lines", len(got.Convictions))
	}
}

func TestMvrConvictionsOnlyScannedInsideSection(t *testing.T) {
	// dated lines outside the conviction section must not be treated
	// as convictions
	text := `Motor Vehicle Record
Name: DOE,JANE Birth Date: 01/02/1990
2018-05-05 POLICY RENEWAL NOTICE
*** Number of Convictions: 1 ***
DATE CONVICTIONS, DISCHARGES AND OTHER ACTIONS
2021-04-18 SPEEDING
SEARCH SUCCESSFUL
2022-09-09 UNRELATED FOOTER DATE
`
	got := NewMvrExtractor().Extract(text)
	if len(got.Convictions) != 1 {
		t.Fatalf("convictions = %d, want 1", len(got.Convictions))
	}
	if got.Convictions[0].Description.Value() != "SPEEDING" {
		t.Errorf("convictions[0].description = %q, want SPEEDING", got.Convictions[0].Description.Value())
	}
}

func TestMvrNoConvictionSection(t *testing.T) {
	got := NewMvrExtractor().Extract("Motor Vehicle Record\nName: DOE,JANE Birth Date: 01/02/1990\n")
	if len(got.Convictions) != 0 {
		t.Errorf("convictions = %d, want 0 without a section header", len(got.Convictions))
	}
}

func TestMvrAbsentFieldsRenderSentinel(t *testing.T) {
	got := NewMvrExtractor().Extract("Motor Vehicle Record\n")
	data, err := got.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{
		`"full_name":"Not available in document"`,
		`"issue_date":"Not available in document"`,
		`"convictions_count":"Not available in document"`,
		`"convictions":[]`,
	} {
		if !strings.Contains(string(data), key) {
			t.Errorf("serialized output missing %s", key)
		}
	}
}

func TestMvrSingleDigitDates(t *testing.T) {
	// Ministry abstracts print unpadded day/month components
	text := `Motor Vehicle Record
Name: DOE,JANE Birth Date: 1/3/1990
Licence Number: D1234-56789-01234 Expiry Date: 7/8/2027
Issue Date: 5/6/2015
`
	got := NewMvrExtractor().Extract(text)

	if got.BirthDate.Value() != "1990-03-01" {
		t.Errorf("birth_date = %q, want 1990-03-01", got.BirthDate.Value())
	}
	if got.IssueDate.Value() != "2015-06-05" {
		t.Errorf("issue_date = %q, want 2015-06-05", got.IssueDate.Value())
	}
	if got.LicenceExpiryDate.Value() != "2027-08-07" {
		t.Errorf("licence_expiry_date = %q, want 2027-08-07", got.LicenceExpiryDate.Value())
	}
}
