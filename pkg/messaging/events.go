package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Lead events
	EventLeadReceived = "lead.received"
	EventLeadDeleted  = "lead.deleted"

	// Document events
	EventDocumentParsed     = "document.parsed"
	EventDocumentRejected   = "document.rejected"
	EventLicenseDatesResult = "document.license_dates"
)

// Exchange names
const (
	ExchangeLeadEvents     = "lead.events"
	ExchangeDocumentEvents = "document.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          raw,
	}, nil
}

// LeadReceivedEvent is published when a lead arrives via the Meta webhook
type LeadReceivedEvent struct {
	LeadID    string `json:"lead_id"`
	LeadgenID string `json:"leadgen_id"`
	FormID    string `json:"form_id"`
	AdID      string `json:"ad_id"`
	Source    string `json:"source"`
}

// LeadDeletedEvent is published when an incoming lead is dismissed
type LeadDeletedEvent struct {
	LeadID string `json:"lead_id"`
}

// DocumentParsedEvent is published after a successful extraction
type DocumentParsedEvent struct {
	DocumentType    string `json:"document_type"`
	PageCount       int    `json:"page_count"`
	FieldsExtracted int    `json:"fields_extracted"`
	DurationMs      int64  `json:"duration_ms"`
}

// DocumentRejectedEvent is published when a document fails classification
type DocumentRejectedEvent struct {
	Reason string `json:"reason"`
}
