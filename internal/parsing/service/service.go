// Package service orchestrates document parsing: text extraction →
// classification → the matching field extractor, plus license date
// calculation across previously parsed documents.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/insurelens/insurelens-backend/internal/parsing/classifier"
	"github.com/insurelens/insurelens-backend/internal/parsing/dates"
	"github.com/insurelens/insurelens-backend/internal/parsing/domain"
	"github.com/insurelens/insurelens-backend/internal/parsing/extractor"
	"github.com/insurelens/insurelens-backend/internal/parsing/licensedates"
	"github.com/insurelens/insurelens-backend/internal/parsing/pdftext"
	"github.com/insurelens/insurelens-backend/pkg/logger"
	"github.com/insurelens/insurelens-backend/pkg/messaging"
)

// AuditStore persists parse attempt records. Optional: a nil store
// disables auditing.
type AuditStore interface {
	Record(ctx context.Context, entry *domain.AuditEntry) error
}

// EventPublisher publishes domain events. Optional: a nil publisher
// disables event emission.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// Service routes documents through the parsing pipeline
type Service struct {
	dash      *extractor.DashExtractor
	mvr       *extractor.MvrExtractor
	audit     AuditStore
	publisher EventPublisher
	log       *logger.Logger
}

// NewService creates a new parsing service
func NewService(audit AuditStore, publisher EventPublisher, log *logger.Logger) *Service {
	return &Service{
		dash:      extractor.NewDashExtractor(),
		mvr:       extractor.NewMvrExtractor(),
		audit:     audit,
		publisher: publisher,
		log:       log,
	}
}

// DashParseResult is the structured outcome of a DASH parse call.
// Failures populate Errors; a partial field map is never returned.
type DashParseResult struct {
	Success      bool                   `json:"success"`
	DocumentType *string                `json:"document_type"`
	TotalPages   int                    `json:"total_pages"`
	Data         *domain.DashExtraction `json:"data,omitempty"`
	Errors       []string               `json:"errors"`
}

// MvrParseResult is the structured outcome of an MVR parse call.
type MvrParseResult struct {
	Success      bool                  `json:"success"`
	Message      *string               `json:"message,omitempty"`
	DocumentType *string               `json:"document_type"`
	TotalPages   int                   `json:"total_pages"`
	MvrData      *domain.MvrExtraction `json:"mvr_data,omitempty"`
	Errors       []string              `json:"errors,omitempty"`
}

// ParseDash extracts DASH fields from an uploaded PDF. Every exit path
// returns a structured result: internal panics are recovered and
// surfaced as errors, never raised to the host.
func (s *Service) ParseDash(ctx context.Context, pdfData []byte) (result *DashParseResult) {
	started := time.Now()
	result = &DashParseResult{Errors: []string{}}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("panic", fmt.Sprint(r)).Msg("dash parse panicked")
			result = &DashParseResult{Errors: []string{fmt.Sprintf("Parsing error: %v", r)}}
		}
	}()

	doc, docType, err := s.classifyUpload(ctx, pdfData, started)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	if docType != domain.DocumentTypeDASH {
		err := fmt.Errorf("document classified as %s, expected DASH", docType)
		s.recordOutcome(ctx, string(docType), doc.PageCount, 0, started, err)
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	extraction := s.dash.Extract(doc.Text)
	result.Success = true
	dt := string(docType)
	result.DocumentType = &dt
	result.TotalPages = doc.PageCount
	result.Data = &extraction

	s.recordOutcome(ctx, string(docType), doc.PageCount, countDashFields(&extraction), started, nil)
	return result
}

// ParseMvr extracts MVR fields from an uploaded PDF.
func (s *Service) ParseMvr(ctx context.Context, pdfData []byte) (result *MvrParseResult) {
	started := time.Now()
	result = &MvrParseResult{}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("panic", fmt.Sprint(r)).Msg("mvr parse panicked")
			result = &MvrParseResult{Errors: []string{fmt.Sprintf("Parsing error: %v", r)}}
		}
	}()

	doc, docType, err := s.classifyUpload(ctx, pdfData, started)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	if docType == domain.DocumentTypeUnknown {
		msg := "Document is neither an MVR nor DASH report"
		s.recordOutcome(ctx, string(docType), doc.PageCount, 0, started, fmt.Errorf("%s", msg))
		result.Message = &msg
		return result
	}

	// A DASH report posted here is still parsed: the extraction
	// cascades cover both layouts and the caller switches on
	// document_type.
	extraction := s.mvr.Extract(doc.Text)
	result.Success = true
	dt := string(docType)
	result.DocumentType = &dt
	result.TotalPages = doc.PageCount
	result.MvrData = &extraction

	s.recordOutcome(ctx, string(docType), doc.PageCount, countMvrFields(&extraction), started, nil)
	return result
}

// classifyUpload runs text extraction and classification. Unreadable
// uploads are recorded and returned as errors; classification outcomes
// are left to the caller, since the two parse endpoints treat an
// unexpected type differently.
func (s *Service) classifyUpload(ctx context.Context, pdfData []byte, started time.Time) (domain.RawDocument, domain.DocumentType, error) {
	doc, err := pdftext.Extract(pdfData)
	if err != nil {
		s.recordOutcome(ctx, string(domain.DocumentTypeUnknown), 0, 0, started, err)
		return domain.RawDocument{}, domain.DocumentTypeUnknown, fmt.Errorf("Could not extract text from PDF: %v", err)
	}

	docType := classifier.Classify(doc.Text)
	s.log.Info().
		Str("document_type", string(docType)).
		Int("pages", doc.PageCount).
		Msg("document classified")
	return doc, docType, nil
}

// recordOutcome writes the audit row and publishes the parse event.
// Both are best-effort: failures are logged, never surfaced.
func (s *Service) recordOutcome(ctx context.Context, docType string, pages, fields int, started time.Time, parseErr error) {
	durationMs := time.Since(started).Milliseconds()

	if s.audit != nil {
		entry := &domain.AuditEntry{
			DocumentType:    docType,
			Success:         parseErr == nil,
			PageCount:       pages,
			FieldsExtracted: fields,
			DurationMs:      durationMs,
		}
		if parseErr != nil {
			msg := parseErr.Error()
			entry.ErrorMessage = &msg
		}
		if err := s.audit.Record(ctx, entry); err != nil {
			s.log.Warn().Err(err).Msg("failed to record parse audit entry")
		}
	}

	if s.publisher != nil {
		var err error
		if parseErr == nil {
			err = s.publisher.Publish(ctx, messaging.EventDocumentParsed, messaging.DocumentParsedEvent{
				DocumentType:    docType,
				PageCount:       pages,
				FieldsExtracted: fields,
				DurationMs:      durationMs,
			})
		} else {
			err = s.publisher.Publish(ctx, messaging.EventDocumentRejected, messaging.DocumentRejectedEvent{
				Reason: parseErr.Error(),
			})
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to publish parse event")
		}
	}
}

// CombinedPayload joins two separately parsed documents for license
// date calculation. Only four keys are ever read: the DASH extraction's
// firstInsuranceDate and the MVR extraction's issue_date, birth_date
// and licence_expiry_date. Everything else is ignored.
type CombinedPayload struct {
	Driver  map[string]interface{} `json:"driver"`
	MvrData map[string]interface{} `json:"mvr_data"`
}

// CalculateFromDocuments computes license dates from a combined DASH +
// MVR payload. Sentinel values count as absent.
func (s *Service) CalculateFromDocuments(ctx context.Context, payload CombinedPayload) *licensedates.Result {
	in := licensedates.Input{
		IssueDate:          payloadField(payload.MvrData, "issue_date"),
		BirthDate:          payloadField(payload.MvrData, "birth_date"),
		ExpiryDate:         payloadField(payload.MvrData, "licence_expiry_date"),
		FirstInsuranceDate: payloadField(payload.Driver, "firstInsuranceDate"),
	}

	res := licensedates.Calculate(in)
	if res.CalculationPerformed {
		note := "G/G1/G2 dates calculated from MVR Issue Date and DASH First Insurance Date"
		res.Note = &note
	} else if res.Error != nil {
		note := "Calculation attempted but failed"
		res.Note = &note
	}
	s.publishCalculation(ctx, &res)
	return &res
}

// ManualDatesRequest carries user-entered dates in MM/DD/YYYY form.
type ManualDatesRequest struct {
	IssueDate          string `json:"issue_date" validate:"required"`
	FirstInsuranceDate string `json:"first_insurance_date" validate:"required"`
	BirthDate          string `json:"birth_date"`
	ExpiryDate         string `json:"expiry_date"`
}

// CalculateManual computes license dates from manually entered dates.
// The calculation is identical to the document-fed path; only the input
// format differs.
func (s *Service) CalculateManual(ctx context.Context, req ManualDatesRequest) *licensedates.Result {
	issue, err := dates.Normalize(req.IssueDate)
	if err != nil {
		return calculationError(fmt.Sprintf("Invalid date format: %q", req.IssueDate))
	}
	firstIns, err := dates.Normalize(req.FirstInsuranceDate)
	if err != nil {
		return calculationError(fmt.Sprintf("Invalid date format: %q", req.FirstInsuranceDate))
	}

	in := licensedates.Input{
		IssueDate:          domain.Found(issue),
		FirstInsuranceDate: domain.Found(firstIns),
	}
	if v, err := dates.Normalize(req.BirthDate); err == nil {
		in.BirthDate = domain.Found(v)
	}
	if v, err := dates.Normalize(req.ExpiryDate); err == nil {
		in.ExpiryDate = domain.Found(v)
	}

	res := licensedates.Calculate(in)
	s.publishCalculation(ctx, &res)
	return &res
}

func (s *Service) publishCalculation(ctx context.Context, res *licensedates.Result) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, messaging.EventLicenseDatesResult, res); err != nil {
		s.log.Warn().Err(err).Msg("failed to publish license dates event")
	}
}

func calculationError(msg string) *licensedates.Result {
	return &licensedates.Result{
		Strategy: licensedates.StrategyCalendarYear,
		Error:    &msg,
	}
}

// payloadField reads a string key from a decoded JSON object, treating
// missing keys, empty strings and either absence sentinel as Absent.
func payloadField(m map[string]interface{}, key string) domain.FieldValue {
	if m == nil {
		return domain.Absent
	}
	v, ok := m[key].(string)
	if !ok {
		return domain.Absent
	}
	switch v {
	case "", domain.SentinelDash, domain.SentinelNotAvailable:
		return domain.Absent
	}
	return domain.Found(v)
}

func countDashFields(d *domain.DashExtraction) int {
	fields := []domain.FieldValue{
		d.FullName, d.DLN, d.DateOfBirth, d.Gender, d.MaritalStatus, d.Address,
		d.YearsLicensed, d.YearsContinuousInsurance, d.YearsClaimsFree,
		d.ClaimsCount6y, d.AtFaultClaims6y, d.ComprehensiveLosses6y, d.DCPDClaims6y,
		d.HistoryNonpay3y, d.CurrentCompany, d.CurrentPolicyExpiry,
		d.CurrentVehiclesCount, d.CurrentOperatorsCount, d.FirstInsuranceDate,
	}
	return countPresent(fields)
}

func countMvrFields(m *domain.MvrExtraction) int {
	fields := []domain.FieldValue{
		m.FullName, m.BirthDate, m.LicenceNumber, m.LicenceExpiryDate,
		m.IssueDate, m.FirstInsuranceDate, m.Address, m.Gender, m.MaritalStatus,
		m.YearsLicensed, m.YearsClaimsFree, m.Nonpay3y, m.Claims6y,
		m.FirstParty6y, m.ComprehensiveLosses6y, m.YearsContinuousInsurance,
		m.CurrentCompany, m.CurrentPolicyExpiry, m.CurrentVehiclesCount,
		m.CurrentOperatorsCount, m.ConvictionsCount,
	}
	return countPresent(fields)
}

func countPresent(fields []domain.FieldValue) int {
	n := 0
	for _, f := range fields {
		if f.Present() {
			n++
		}
	}
	return n
}
