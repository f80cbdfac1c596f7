package domain

import "encoding/json"

// DocumentType represents the classified type of an uploaded report
type DocumentType string

const (
	DocumentTypeMVR     DocumentType = "MVR"
	DocumentTypeDASH    DocumentType = "DASH"
	DocumentTypeUnknown DocumentType = "UNKNOWN"
)

// Absence sentinels rendered at the serialization boundary.
// MVR extractions use the verbose sentinel; DASH extractions keep the
// legacy "-" convention of the numeric-field style. A single extraction
// always uses one convention for all of its fields.
const (
	SentinelNotAvailable = "Not available in document"
	SentinelDash         = "-"
)

// RawDocument is the flattened text of one uploaded PDF, as produced by
// the PDF-text collaborator. Immutable for the duration of a parse call.
type RawDocument struct {
	Text      string
	PageCount int
}

// FieldValue is a Present/Absent union. Every extracted field is a
// FieldValue, never a bare string with an implicit empty meaning:
// a field is either found verbatim in the document or explicitly absent.
type FieldValue struct {
	value   string
	present bool
}

// Found returns a present FieldValue holding v.
func Found(v string) FieldValue {
	return FieldValue{value: v, present: true}
}

// Absent is the explicit "not found in document" value.
var Absent = FieldValue{}

// Present reports whether the field was found in the document.
func (f FieldValue) Present() bool { return f.present }

// Value returns the raw value, or "" when absent. Callers that serialize
// must use Or instead so absence renders as a sentinel, never as "".
func (f FieldValue) Value() string { return f.value }

// Or returns the value, or the given sentinel when absent.
func (f FieldValue) Or(sentinel string) string {
	if f.present {
		return f.value
	}
	return sentinel
}

// PolicyStatus is the status token of a DASH policy block
type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "Active"
	PolicyStatusCancelled PolicyStatus = "Cancelled"
	PolicyStatusUnknown   PolicyStatus = "Unknown"
)

// OperatorRecord is one listed operator inside a DASH policy block
type OperatorRecord struct {
	Name         string
	Relationship FieldValue
}

// PolicyRecord is one policy block of a DASH report. Document order of
// blocks is not chronological; callers must order by parsed dates.
type PolicyRecord struct {
	Index     int
	StartDate FieldValue
	EndDate   FieldValue
	Company   FieldValue
	Status    PolicyStatus
	Operators []OperatorRecord
}

// ConvictionRecord is one conviction line of an MVR report
type ConvictionRecord struct {
	Date        FieldValue
	Description FieldValue
}

// DashExtraction is the flat field set extracted from a DASH report.
// Dates are held canonical (YYYY-MM-DD); display formatting happens only
// in MarshalJSON.
type DashExtraction struct {
	FullName                 FieldValue
	DLN                      FieldValue
	DateOfBirth              FieldValue
	Gender                   FieldValue
	MaritalStatus            FieldValue
	Address                  FieldValue
	YearsLicensed            FieldValue
	YearsContinuousInsurance FieldValue
	YearsClaimsFree          FieldValue
	ClaimsCount6y            FieldValue
	AtFaultClaims6y          FieldValue
	ComprehensiveLosses6y    FieldValue
	DCPDClaims6y             FieldValue
	HistoryNonpay3y          FieldValue
	CurrentCompany           FieldValue
	CurrentPolicyExpiry      FieldValue
	CurrentVehiclesCount     FieldValue
	CurrentOperatorsCount    FieldValue
	FirstInsuranceDate       FieldValue

	// Policies holds every parsed policy block, ordered oldest-first by
	// parsed start date (blocks without a parseable date sort last).
	Policies []PolicyRecord
}

// MvrExtraction is the flat field set extracted from an MVR report.
type MvrExtraction struct {
	FullName                 FieldValue
	BirthDate                FieldValue
	LicenceNumber            FieldValue
	LicenceExpiryDate        FieldValue
	IssueDate                FieldValue
	FirstInsuranceDate       FieldValue
	Address                  FieldValue
	Gender                   FieldValue
	MaritalStatus            FieldValue
	YearsLicensed            FieldValue
	YearsClaimsFree          FieldValue
	Nonpay3y                 FieldValue
	Claims6y                 FieldValue
	FirstParty6y             FieldValue
	ComprehensiveLosses6y    FieldValue
	YearsContinuousInsurance FieldValue
	CurrentCompany           FieldValue
	CurrentPolicyExpiry      FieldValue
	CurrentVehiclesCount     FieldValue
	CurrentOperatorsCount    FieldValue
	ConvictionsCount         FieldValue
	Convictions              []ConvictionRecord
}

// displayDate converts a canonical YYYY-MM-DD value to the legacy
// MM/DD/YYYY display form. Absent values pass through untouched.
func displayDate(f FieldValue, sentinel string) string {
	if !f.Present() {
		return sentinel
	}
	v := f.Value()
	if len(v) == 10 && v[4] == '-' && v[7] == '-' {
		return v[5:7] + "/" + v[8:10] + "/" + v[0:4]
	}
	return v
}

// MarshalJSON renders the DASH field map with the legacy "-" sentinel
// and MM/DD/YYYY display dates, matching the DASH parsing surface.
func (d DashExtraction) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"name":                       d.FullName.Or(SentinelDash),
		"dob":                        displayDate(d.DateOfBirth, SentinelDash),
		"dln":                        d.DLN.Or(SentinelDash),
		"address":                    d.Address.Or(SentinelDash),
		"gender":                     d.Gender.Or(SentinelDash),
		"marital_status":             d.MaritalStatus.Or(SentinelDash),
		"years_licensed":             d.YearsLicensed.Or(SentinelDash),
		"years_continuous_insurance": d.YearsContinuousInsurance.Or(SentinelDash),
		"years_claims_free":          d.YearsClaimsFree.Or(SentinelDash),
		"claims_6y":                  d.ClaimsCount6y.Or(SentinelDash),
		"first_party_6y":             d.AtFaultClaims6y.Or(SentinelDash),
		"comprehensive_6y":           d.ComprehensiveLosses6y.Or(SentinelDash),
		"dcpd_6y":                    d.DCPDClaims6y.Or(SentinelDash),
		"history_nonpay_3y":          d.HistoryNonpay3y.Or(SentinelDash),
		"current_company":            d.CurrentCompany.Or(SentinelDash),
		"current_policy_expiry":      displayDate(d.CurrentPolicyExpiry, SentinelDash),
		"current_vehicles_count":     d.CurrentVehiclesCount.Or(SentinelDash),
		"current_operators_count":    d.CurrentOperatorsCount.Or(SentinelDash),
		"firstInsuranceDate":         d.FirstInsuranceDate.Or(SentinelDash),
	})
}

type convictionJSON struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// MarshalJSON renders the MVR field map with the verbose absence sentinel.
func (m MvrExtraction) MarshalJSON() ([]byte, error) {
	convictions := make([]convictionJSON, 0, len(m.Convictions))
	for _, c := range m.Convictions {
		convictions = append(convictions, convictionJSON{
			Date:        c.Date.Or(SentinelNotAvailable),
			Description: c.Description.Or(SentinelNotAvailable),
		})
	}

	return json.Marshal(struct {
		FullName                 string           `json:"full_name"`
		BirthDate                string           `json:"birth_date"`
		LicenceNumber            string           `json:"licence_number"`
		LicenceExpiryDate        string           `json:"licence_expiry_date"`
		IssueDate                string           `json:"issue_date"`
		FirstInsuranceDate       string           `json:"first_insurance_date"`
		Address                  string           `json:"address"`
		Gender                   string           `json:"gender"`
		MaritalStatus            string           `json:"marital_status"`
		YearsLicensed            string           `json:"years_licensed"`
		YearsClaimsFree          string           `json:"years_claims_free"`
		Nonpay3y                 string           `json:"nonpay_3y"`
		Claims6y                 string           `json:"claims_6y"`
		FirstParty6y             string           `json:"first_party_6y"`
		ComprehensiveLosses6y    string           `json:"comprehensive_losses_6y"`
		YearsContinuousInsurance string           `json:"years_continuous_insurance"`
		CurrentCompany           string           `json:"current_company"`
		CurrentPolicyExpiry      string           `json:"current_policy_expiry"`
		CurrentVehiclesCount     string           `json:"current_vehicles_count"`
		CurrentOperatorsCount    string           `json:"current_operators_count"`
		ConvictionsCount         string           `json:"convictions_count"`
		Convictions              []convictionJSON `json:"convictions"`
	}{
		FullName:                 m.FullName.Or(SentinelNotAvailable),
		BirthDate:                m.BirthDate.Or(SentinelNotAvailable),
		LicenceNumber:            m.LicenceNumber.Or(SentinelNotAvailable),
		LicenceExpiryDate:        m.LicenceExpiryDate.Or(SentinelNotAvailable),
		IssueDate:                m.IssueDate.Or(SentinelNotAvailable),
		FirstInsuranceDate:       m.FirstInsuranceDate.Or(SentinelNotAvailable),
		Address:                  m.Address.Or(SentinelNotAvailable),
		Gender:                   m.Gender.Or(SentinelNotAvailable),
		MaritalStatus:            m.MaritalStatus.Or(SentinelNotAvailable),
		YearsLicensed:            m.YearsLicensed.Or(SentinelNotAvailable),
		YearsClaimsFree:          m.YearsClaimsFree.Or(SentinelNotAvailable),
		Nonpay3y:                 m.Nonpay3y.Or(SentinelNotAvailable),
		Claims6y:                 m.Claims6y.Or(SentinelNotAvailable),
		FirstParty6y:             m.FirstParty6y.Or(SentinelNotAvailable),
		ComprehensiveLosses6y:    m.ComprehensiveLosses6y.Or(SentinelNotAvailable),
		YearsContinuousInsurance: m.YearsContinuousInsurance.Or(SentinelNotAvailable),
		CurrentCompany:           m.CurrentCompany.Or(SentinelNotAvailable),
		CurrentPolicyExpiry:      m.CurrentPolicyExpiry.Or(SentinelNotAvailable),
		CurrentVehiclesCount:     m.CurrentVehiclesCount.Or(SentinelNotAvailable),
		CurrentOperatorsCount:    m.CurrentOperatorsCount.Or(SentinelNotAvailable),
		ConvictionsCount:         m.ConvictionsCount.Or(SentinelNotAvailable),
		Convictions:              convictions,
	})
}
