package extractor

import (
	"regexp"
	"sort"
	"strings"

	"github.com/insurelens/insurelens-backend/internal/parsing/dates"
	"github.com/insurelens/insurelens-backend/internal/parsing/domain"
)

// FirstInsuranceStrategy selects how a DASH report's first insurance
// date is derived. The two observed conventions disagree on documents
// with mixed policy histories and must never be blended within a call.
type FirstInsuranceStrategy int

const (
	// StrategyEarliestTermEnd takes the earliest "End of Latest Term"
	// among policy blocks where the driver is a matched operator, with
	// a document-wide earliest-date fallback. Canonical behavior.
	StrategyEarliestTermEnd FirstInsuranceStrategy = iota

	// StrategyEarliestTermStart takes the "Start of Earliest Term" from
	// the last policy block in document order that matches the driver
	// by operator name, falling back to a document-wide earliest-term
	// search, then the first raw date found anywhere.
	StrategyEarliestTermStart
)

// DashExtractor extracts driver, demographic, claims-history, policy and
// first-insurance-date fields from classified DASH report text.
type DashExtractor struct {
	strategy FirstInsuranceStrategy
}

// NewDashExtractor returns an extractor using the canonical
// earliest-term-end strategy.
func NewDashExtractor() *DashExtractor {
	return &DashExtractor{strategy: StrategyEarliestTermEnd}
}

// NewDashExtractorWithStrategy returns an extractor with an explicitly
// chosen first-insurance-date strategy.
func NewDashExtractorWithStrategy(s FirstInsuranceStrategy) *DashExtractor {
	return &DashExtractor{strategy: s}
}

var (
	dashNameCascade = []pattern{
		{re: regexp.MustCompile(`(?i)(?:DRIVER REPORT\s+)?([A-Z][A-Z\s]{2,})\s+(?:DLN|Ontario)`), post: saneName},
		{re: regexp.MustCompile(`(?m)^([A-Z][A-Z\s]+)$`), post: saneName},
	}
	dashDLNRe     = regexp.MustCompile(`(?i)DLN[:\s]+([A-Z0-9\-]+)`)
	dashDOBRe     = regexp.MustCompile(`(?i)(?:Date of Birth|DOB)[:\s]*(\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4})`)
	dashAddressRe = regexp.MustCompile(`(?i)Address[:\s]+([A-Z0-9\s\-,]+?)(?:\n|Number of)`)
	dashGenderRe  = regexp.MustCompile(`(?i)Gender[:\s]+(M|F|Male|Female)`)
	dashMaritalRe = regexp.MustCompile(`(?i)Marital Status[:\s]*([A-Za-z\s\-]+?)(?:\n|Number of|Years|Gender|Driver)`)

	dashYearsLicensedRe = regexp.MustCompile(`(?i)Years Licensed[:\s]+(\d+)`)
	dashContInsRe       = regexp.MustCompile(`(?i)Years of Continuous Insurance[:\s]+(\d+)`)
	dashClaimsFreeRe    = regexp.MustCompile(`(?i)Years Claims Free[:\s]+(\d+)`)
	dashClaims6yRe      = regexp.MustCompile(`(?i)Number of Claims in Last 6 Years[:\s]*(\d+)`)
	dashAtFault6yRe     = regexp.MustCompile(`(?i)Number of At-Fault Claims in Last 6 Years[:\s]*(\d+)`)
	dashComp6yRe        = regexp.MustCompile(`(?i)Number of Comprehensive Losses in Last 6 Years[:\s]*(\d+)`)
	dashDCPD6yRe        = regexp.MustCompile(`(?i)Number of DCPD Claims in Last 6 Years[:\s]*(\d+)`)
	dashNonpayRe        = regexp.MustCompile(`(?i)(?:Non[- ]?Pay(?:ment)?|Incident).*?(?:3[- ]?year|3Y|Last 3).*?(?::|\()\s*(\d+)`)

	// current policy is the block whose status token is literally Active
	dashActivePolicyRe = regexp.MustCompile(`(?i)#1\s+([0-9\-\s]+)\s+to\s+([0-9\-\s]+)\s+(.+?)\s+(Active)`)
	dashVehiclesRe     = regexp.MustCompile(`(?is)Number of Private.*?Vehicles?\s*:\s*(\d+)`)
	dashOperatorsRe    = regexp.MustCompile(`(?is)Number of Reported Operators?\s*:\s*(\d+)`)

	policyMarkerRe   = regexp.MustCompile(`(?i)Policy\s*#\s*(\d+)`)
	policyTermRe     = regexp.MustCompile(`(?i)((?:\d{4}|\d{1,2}/)[0-9\-/\s]{4,}?)\s+to\s+((?:\d{4}|\d{1,2}/)[0-9\-/\s]{4,}?)\s+([A-Z][^\n]*?)\s+(Active|Cancelled)`)
	policyOperatorRe = regexp.MustCompile(`(?i)(?:Operator|Driver)\s*:?\s*([A-Z][A-Z\s\-]{2,}?)(?:\n|;|\(|,)`)
	termEndRe        = regexp.MustCompile(`(?i)End of (?:the )?Latest Term\s*:?\s*([0-9\-/ ]+?)(?:\n|$)`)
	termStartRe      = regexp.MustCompile(`(?i)Start of (?:the )?Earliest Term\s*:?\s*([0-9\-/ ]+?)(?:\n|$)`)
	anyDateRe        = regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}|\d{1,2}/\d{1,2}/\d{4}`)
)

func saneName(s string) string {
	s = collapseSpaces(s)
	if len(s) >= 60 {
		return ""
	}
	return s
}

// Extract parses DASH report text into an extraction. Every field is
// independently present or absent; nothing is inferred across fields.
func (e *DashExtractor) Extract(text string) domain.DashExtraction {
	var out domain.DashExtraction

	out.FullName = firstMatch(text, dashNameCascade)
	out.DLN = firstMatch(text, []pattern{{re: dashDLNRe}})
	out.DateOfBirth = matchDate(text, dashDOBRe)
	out.Address = firstMatch(text, []pattern{{re: dashAddressRe, post: saneAddress}})
	out.Gender = firstMatch(text, []pattern{{re: dashGenderRe, post: func(s string) string {
		return strings.ToUpper(s[:1])
	}}})
	out.MaritalStatus = firstMatch(text, []pattern{{re: dashMaritalRe, post: saneMarital}})

	out.YearsLicensed = firstMatch(text, []pattern{{re: dashYearsLicensedRe}})
	out.YearsContinuousInsurance = firstMatch(text, []pattern{{re: dashContInsRe}})
	out.YearsClaimsFree = firstMatch(text, []pattern{{re: dashClaimsFreeRe}})
	out.ClaimsCount6y = firstMatch(text, []pattern{{re: dashClaims6yRe}})
	out.AtFaultClaims6y = firstMatch(text, []pattern{{re: dashAtFault6yRe}})
	out.ComprehensiveLosses6y = firstMatch(text, []pattern{{re: dashComp6yRe}})
	out.DCPDClaims6y = firstMatch(text, []pattern{{re: dashDCPD6yRe}})
	out.HistoryNonpay3y = firstMatch(text, []pattern{{re: dashNonpayRe}})

	if m := dashActivePolicyRe.FindStringSubmatch(text); m != nil {
		if expiry, err := dates.Normalize(m[2]); err == nil {
			out.CurrentPolicyExpiry = domain.Found(expiry)
			out.CurrentCompany = domain.Found(collapseSpaces(m[3]))
		}
	}
	out.CurrentVehiclesCount = firstMatch(text, []pattern{{re: dashVehiclesRe}})
	out.CurrentOperatorsCount = firstMatch(text, []pattern{{re: dashOperatorsRe}})

	blocks := splitPolicyBlocks(text)
	out.Policies = parsePolicyBlocks(blocks)
	out.FirstInsuranceDate = e.firstInsuranceDate(text, blocks, out.FullName)

	return out
}

func saneAddress(s string) string {
	s = collapseSpaces(s)
	if len(s) <= 5 {
		return ""
	}
	return s
}

func saneMarital(s string) string {
	s = collapseSpaces(s)
	if strings.EqualFold(s, "not available") {
		return ""
	}
	return s
}

func matchDate(text string, re *regexp.Regexp) domain.FieldValue {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return domain.Absent
	}
	v, err := dates.Normalize(m[1])
	if err != nil {
		return domain.Absent
	}
	return domain.Found(v)
}

// splitPolicyBlocks slices text into per-policy spans, each beginning at
// a "Policy #N" marker. Text before the first marker is dropped.
func splitPolicyBlocks(text string) []string {
	locs := policyMarkerRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	blocks := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, text[loc[0]:end])
	}
	return blocks
}

func parsePolicyBlocks(blocks []string) []domain.PolicyRecord {
	records := make([]domain.PolicyRecord, 0, len(blocks))
	for i, block := range blocks {
		rec := domain.PolicyRecord{Index: i + 1, Status: domain.PolicyStatusUnknown}
		if m := policyTermRe.FindStringSubmatch(block); m != nil {
			if start, err := dates.Normalize(m[1]); err == nil {
				rec.StartDate = domain.Found(start)
			}
			if end, err := dates.Normalize(m[2]); err == nil {
				rec.EndDate = domain.Found(end)
			}
			rec.Company = domain.Found(collapseSpaces(m[3]))
			switch strings.ToLower(m[4]) {
			case "active":
				rec.Status = domain.PolicyStatusActive
			case "cancelled":
				rec.Status = domain.PolicyStatusCancelled
			}
		}
		for _, om := range policyOperatorRe.FindAllStringSubmatch(block, -1) {
			rec.Operators = append(rec.Operators, domain.OperatorRecord{
				Name: collapseSpaces(om[1]),
			})
		}
		records = append(records, rec)
	}

	// document order is not chronological; order by parsed start date,
	// blocks without one sorting last
	sort.SliceStable(records, func(i, j int) bool {
		si, sj := records[i].StartDate, records[j].StartDate
		switch {
		case si.Present() && sj.Present():
			return si.Value() < sj.Value()
		case si.Present():
			return true
		default:
			return false
		}
	})
	return records
}

// blockMatchesDriver reports whether the analyzed driver appears in the
// block's operator list under structural name equality.
func blockMatchesDriver(block, driverNorm string) bool {
	for _, om := range policyOperatorRe.FindAllStringSubmatch(block, -1) {
		if normalizeName(om[1]) == driverNorm {
			return true
		}
	}
	return false
}

func (e *DashExtractor) firstInsuranceDate(text string, blocks []string, driver domain.FieldValue) domain.FieldValue {
	switch e.strategy {
	case StrategyEarliestTermStart:
		return firstInsuranceByTermStart(text, blocks, driver)
	default:
		return firstInsuranceByTermEnd(text, blocks, driver)
	}
}

// firstInsuranceByTermEnd models "first insurance date" as the earliest
// point at which the driver appears continuously insured: the earliest
// "End of Latest Term" among operator-matched policy blocks, falling
// back to the earliest such date anywhere in the document.
func firstInsuranceByTermEnd(text string, blocks []string, driver domain.FieldValue) domain.FieldValue {
	if driver.Present() {
		driverNorm := normalizeName(driver.Value())
		var endDates []string
		for _, block := range blocks {
			if !blockMatchesDriver(block, driverNorm) {
				continue
			}
			if m := termEndRe.FindStringSubmatch(block); m != nil {
				if d, err := dates.Normalize(m[1]); err == nil {
					endDates = append(endDates, d)
				}
			}
		}
		if len(endDates) > 0 {
			sort.Strings(endDates)
			return domain.Found(endDates[0])
		}
	}

	// fallback: every term-end occurrence in the whole document
	var endDates []string
	for _, m := range termEndRe.FindAllStringSubmatch(text, -1) {
		if d, err := dates.Normalize(m[1]); err == nil {
			endDates = append(endDates, d)
		}
	}
	if len(endDates) > 0 {
		sort.Strings(endDates)
		return domain.Found(endDates[0])
	}
	return domain.Absent
}

// firstInsuranceByTermStart is the alternate convention: the "Start of
// Earliest Term" from the last operator-matched block in document order,
// then a document-wide earliest term-start search, then the first raw
// date found anywhere.
func firstInsuranceByTermStart(text string, blocks []string, driver domain.FieldValue) domain.FieldValue {
	if driver.Present() {
		driverNorm := normalizeName(driver.Value())
		for i := len(blocks) - 1; i >= 0; i-- {
			if !blockMatchesDriver(blocks[i], driverNorm) {
				continue
			}
			if m := termStartRe.FindStringSubmatch(blocks[i]); m != nil {
				if d, err := dates.Normalize(m[1]); err == nil {
					return domain.Found(d)
				}
			}
			break
		}
	}

	var startDates []string
	for _, m := range termStartRe.FindAllStringSubmatch(text, -1) {
		if d, err := dates.Normalize(m[1]); err == nil {
			startDates = append(startDates, d)
		}
	}
	if len(startDates) > 0 {
		sort.Strings(startDates)
		return domain.Found(startDates[0])
	}

	if m := anyDateRe.FindString(text); m != "" {
		if d, err := dates.Normalize(m); err == nil {
			return domain.Found(d)
		}
	}
	return domain.Absent
}
