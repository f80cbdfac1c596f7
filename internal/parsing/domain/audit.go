package domain

import "time"

// AuditEntry records one parse attempt for operational review. No
// extracted field values are stored, only counts and outcome.
type AuditEntry struct {
	ID              string    `db:"id" json:"id"`
	DocumentType    string    `db:"document_type" json:"document_type"`
	Success         bool      `db:"success" json:"success"`
	PageCount       int       `db:"page_count" json:"page_count"`
	FieldsExtracted int       `db:"fields_extracted" json:"fields_extracted"`
	DurationMs      int64     `db:"duration_ms" json:"duration_ms"`
	ErrorMessage    *string   `db:"error_message" json:"error_message,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
