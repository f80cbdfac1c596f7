package extractor

import (
	"regexp"
	"strings"

	"github.com/insurelens/insurelens-backend/internal/parsing/dates"
	"github.com/insurelens/insurelens-backend/internal/parsing/domain"
)

// MvrExtractor extracts licence identity, licence dates, demographic,
// claims-history and conviction fields from classified MVR text. It is
// document-type-pure: no DASH-origin field is ever read or written.
type MvrExtractor struct{}

func NewMvrExtractor() *MvrExtractor {
	return &MvrExtractor{}
}

var (
	mvrNameCascade = []pattern{
		{re: regexp.MustCompile(`(?i)Name:\s*([A-Z][A-Z\-',.\s]+?)(?:\s+Birth Date)`), post: saneMvrName},
		{re: regexp.MustCompile(`(?i)Name:\s*([A-Z][A-Za-z\s\-',.]+?)(?:\n|Birth Date|Gender)`), post: saneMvrName},
		{re: regexp.MustCompile(`(?i)Driver Name:\s*([A-Z][A-Za-z\s\-',.]+?)(?:\n|$)`), post: saneMvrName},
		{re: regexp.MustCompile(`(?i)Name\s+([A-Z][A-Za-z\s\-',.]+?)\s+Birth Date`), post: saneMvrName},
	}

	mvrBirthDateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Birth Date:\s*(\d{1,2}/\d{1,2}/\d{4})`),
		regexp.MustCompile(`(?i)Date of Birth:\s*(\d{4}-\d{2}-\d{2})`),
		regexp.MustCompile(`(?i)Date of Birth:\s*(\d{1,2}[-/]\d{1,2}[-/]\d{4})`),
		regexp.MustCompile(`(?i)DOB:\s*(\d{1,2}[-/]\d{1,2}[-/]\d{4})`),
	}

	mvrLicenceCascade = []pattern{
		{re: regexp.MustCompile(`(?i)Licence Number[\s:]*([A-Z0-9\-\s]+?)(?:\n|Expiry|Gender|Height)`), post: collapseSpaces},
		{re: regexp.MustCompile(`(?i)License Number[\s:]*([A-Z0-9\-\s]+?)(?:\n|$)`), post: collapseSpaces},
		{re: regexp.MustCompile(`(?i)DLN:\s*([A-Z0-9\-\s]+?)(?:\s+Ontario|$)`), post: collapseSpaces},
	}

	mvrExpiryRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Expiry Date:\s*(\d{1,2}/\d{1,2}/\d{4})`),
		regexp.MustCompile(`(?i)Licence Expiry:\s*(\d{4}-\d{2}-\d{2})`),
		regexp.MustCompile(`(?i)Licence Expiry:\s*(\d{1,2}[-/]\d{1,2}[-/]\d{4})`),
		regexp.MustCompile(`(?i)Expir(?:y|es?):\s*(\d{1,2}[-/]\d{1,2}[-/]\d{4})`),
		regexp.MustCompile(`(?i)Valid Until:\s*(\d{1,2}[-/]\d{1,2}[-/]\d{4})`),
		regexp.MustCompile(`(?i)Renewal Date:\s*(\d{1,2}[-/]\d{1,2}[-/]\d{4})`),
	}

	mvrIssueRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Issue Date:\s*(\d{1,2}/\d{1,2}/\d{4})`),
		regexp.MustCompile(`(?i)(?:Licence )?Issued:\s*(\d{1,2}/\d{1,2}/\d{4})`),
		regexp.MustCompile(`(?i)Issue Date[\s:]*(\d{1,2}[-/]\d{1,2}[-/]\d{4})`),
	}

	mvrFirstInsuranceRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)First Insurance Date[\s:]*(\d{4}-\d{2}-\d{2}|\d{1,2}[-/]\d{1,2}[-/]\d{4})`),
		regexp.MustCompile(`(?i)First Insured[\s:]*(\d{4}-\d{2}-\d{2}|\d{1,2}[-/]\d{1,2}[-/]\d{4})`),
	}

	mvrAddressRe = regexp.MustCompile(`Address:\s*([A-Z0-9\s\-,]+?)(?:\s+(?:Number of|Gender|Marital|Years)|\n|$)`)
	mvrGenderRe  = regexp.MustCompile(`Gender:\s*(\w+)`)
	mvrMaritalRe = regexp.MustCompile(`Marital Status:\s*([A-Za-z\s]+?)(?:\s+Number of|\n|$)`)

	mvrYearsLicensedRe = regexp.MustCompile(`Years Licensed:\s*(\d+)`)
	mvrClaimsFreeRe    = regexp.MustCompile(`Years Claims Free:\s*(\d+)`)
	mvrNonpayRe        = regexp.MustCompile(`(?i)Number of Non-?Pay(?:ments?)? in Last 3 Years?:\s*(\d+)`)
	mvrClaims6yRe      = regexp.MustCompile(`Number of Claims in Last [36] Years?:\s*(\d+)`)
	mvrFirstPartyRe    = regexp.MustCompile(`Number of At-Fault Claims in Last 6 Years?:\s*(\d+)`)
	mvrCompLossesRe    = regexp.MustCompile(`Number of Comprehensive Losses in Last 6 Years?:\s*(\d+)`)
	mvrContInsRe       = regexp.MustCompile(`Years of Continuous Insurance:\s*(\d+)`)

	mvrActivePolicyRe = regexp.MustCompile(`#\d+\s+[\d\-]+\s+to\s+([\d\-]+)\s+([A-Za-z\s&.]+?)\s+Active`)
	mvrVehiclesRe     = regexp.MustCompile(`Number of\s+Private\s+Passe\s*nger\s+Vehicles?\s*:?\s*(\d+)`)
	mvrOperatorsRe    = regexp.MustCompile(`Number of Reported Operators:\s*(\d+)`)

	mvrConvictionCountRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\*+\s*Number of Convictions:\s*(\d+)`),
		regexp.MustCompile(`(?i)Total Convictions[\s:]*(\d+)`),
		regexp.MustCompile(`(?i)Number of Convictions[\s:]*(\d+)`),
		regexp.MustCompile(`(?i)Convictions on Record[\s:]*(\d+)`),
	}

	convictionSectionRe    = regexp.MustCompile(`(?i)DATE\s+CONVICTIONS,?\s+DISCHARGES\s+AND\s+OTHER\s+ACTIONS`)
	convictionTerminatorRe = regexp.MustCompile(`(?i)SEARCH\s+SUCCESSFUL|END\s+OF\s+REPORT`)
	convictionDateRe       = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}|\d{1,2}[-/]\d{1,2}[-/]\d{4})`)
)

func saneMvrName(s string) string {
	s = regexp.MustCompile(`(?i)\s*(?:Date of Birth|Birth Date|Gender|Height).*$`).ReplaceAllString(s, "")
	s = strings.TrimRight(strings.TrimSpace(s), ",:")
	s = collapseSpaces(strings.ReplaceAll(s, ",", " "))
	if len(s) <= 2 {
		return ""
	}
	if m, _ := regexp.MatchString(`^(DRIVER|REPORT|DASH|Report)`, s); m {
		return ""
	}
	return s
}

// Extract parses MVR report text into an extraction.
func (e *MvrExtractor) Extract(text string) domain.MvrExtraction {
	var out domain.MvrExtraction

	out.FullName = firstMatch(text, mvrNameCascade)
	out.BirthDate = firstNormalizedDate(text, mvrBirthDateRes)
	out.LicenceNumber = firstMatch(text, mvrLicenceCascade)
	out.LicenceExpiryDate = firstNormalizedDate(text, mvrExpiryRes)
	out.IssueDate = firstNormalizedDate(text, mvrIssueRes)
	out.FirstInsuranceDate = firstNormalizedDate(text, mvrFirstInsuranceRes)

	out.Address = firstMatch(text, []pattern{{re: mvrAddressRe, post: saneMvrAddress}})
	out.Gender = firstMatch(text, []pattern{{re: mvrGenderRe}})
	out.MaritalStatus = firstMatch(text, []pattern{{re: mvrMaritalRe, post: collapseSpaces}})
	out.YearsLicensed = firstMatch(text, []pattern{{re: mvrYearsLicensedRe}})
	out.YearsClaimsFree = firstMatch(text, []pattern{{re: mvrClaimsFreeRe}})

	out.Nonpay3y = firstMatch(text, []pattern{{re: mvrNonpayRe}})
	out.Claims6y = firstMatch(text, []pattern{{re: mvrClaims6yRe}})
	out.FirstParty6y = firstMatch(text, []pattern{{re: mvrFirstPartyRe}})
	out.ComprehensiveLosses6y = firstMatch(text, []pattern{{re: mvrCompLossesRe}})
	out.YearsContinuousInsurance = firstMatch(text, []pattern{{re: mvrContInsRe}})

	if m := mvrActivePolicyRe.FindStringSubmatch(text); m != nil {
		if expiry, err := dates.Normalize(m[1]); err == nil {
			out.CurrentPolicyExpiry = domain.Found(expiry)
		}
		out.CurrentCompany = domain.Found(strings.TrimRight(collapseSpaces(m[2]), " -"))
	}
	out.CurrentVehiclesCount = firstMatch(text, []pattern{{re: mvrVehiclesRe}})
	out.CurrentOperatorsCount = firstMatch(text, []pattern{{re: mvrOperatorsRe}})

	for _, re := range mvrConvictionCountRes {
		if m := re.FindStringSubmatch(text); m != nil {
			out.ConvictionsCount = domain.Found(strings.TrimSpace(m[1]))
			break
		}
	}

	// a declared count of zero forces an empty list regardless of any
	// conviction-shaped lines in the section text
	if !out.ConvictionsCount.Present() || out.ConvictionsCount.Value() != "0" {
		out.Convictions = parseConvictions(text)
	}

	return out
}

func saneMvrAddress(s string) string {
	s = strings.TrimRight(collapseSpaces(s), ",")
	if len(s) <= 3 {
		return ""
	}
	return s
}

func firstNormalizedDate(text string, res []*regexp.Regexp) domain.FieldValue {
	for _, re := range res {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, err := dates.NormalizeCanadian(m[1]); err == nil {
			return domain.Found(v)
		}
	}
	return domain.Absent
}

// convictionSpan bounds the text scanned for conviction records: from
// the conviction section header to the report terminator. Dated content
// outside that span must never be treated as a conviction.
func convictionSpan(text string) (string, bool) {
	start := convictionSectionRe.FindStringIndex(text)
	if start == nil {
		return "", false
	}
	section := text[start[1]:]
	if end := convictionTerminatorRe.FindStringIndex(section); end != nil {
		section = section[:end[0]]
	}
	return section, true
}

func parseConvictions(text string) []domain.ConvictionRecord {
	section, ok := convictionSpan(text)
	if !ok {
		return nil
	}

	var records []domain.ConvictionRecord
	lines := strings.Split(section, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		m := convictionDateRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		date := domain.Absent
		if d, err := dates.NormalizeCanadian(m[1]); err == nil {
			date = domain.Found(d)
		}

		desc := strings.TrimSpace(line[len(m[0]):])
		switch strings.ToLower(desc) {
		case "", "none", "no convictions":
			desc = ""
		}
		if desc == "" && i+1 < len(lines) {
			// description may wrap to the following line
			next := strings.TrimSpace(lines[i+1])
			if next != "" && !convictionDateRe.MatchString(next) {
				desc = next
				i++
			}
		}
		if desc == "" {
			continue
		}
		records = append(records, domain.ConvictionRecord{
			Date:        date,
			Description: domain.Found(desc),
		})
	}
	return records
}
