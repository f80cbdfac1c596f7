package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/insurelens/insurelens-backend/internal/parsing/domain"
	"github.com/insurelens/insurelens-backend/pkg/database"
)

// AuditRepository persists parse attempt records
type AuditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record inserts one audit entry
func (r *AuditRepository) Record(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO parse_audit (
			id, document_type, success, page_count, fields_extracted,
			duration_ms, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.DocumentType, entry.Success, entry.PageCount,
		entry.FieldsExtracted, entry.DurationMs, entry.ErrorMessage, entry.CreatedAt,
	)
	return err
}

// RecentFailures returns the latest failed parse attempts, newest first
func (r *AuditRepository) RecentFailures(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, document_type, success, page_count, fields_extracted,
		       duration_ms, error_message, created_at
		FROM parse_audit
		WHERE success = false
		ORDER BY created_at DESC
		LIMIT $1
	`
	var entries []domain.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, err
	}
	return entries, nil
}
