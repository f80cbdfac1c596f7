package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/insurelens/insurelens-backend/internal/leads/domain"
	"github.com/insurelens/insurelens-backend/pkg/database"
	"github.com/insurelens/insurelens-backend/pkg/errors"
)

// LeadRepository handles lead persistence
type LeadRepository struct {
	db *database.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *database.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Create inserts a new lead
func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.Status == "" {
		lead.Status = domain.LeadStatusNew
	}

	query := `
		INSERT INTO leads (
			id, full_name, first_name, last_name, email, phone,
			lead_identity, contact_info, status, source,
			premium, potential_status, renewal_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		lead.ID, lead.FullName, lead.FirstName, lead.LastName, lead.Email, lead.Phone,
		lead.LeadIdentity, lead.ContactInfo, lead.Status, lead.Source,
		lead.Premium, lead.PotentialStatus, lead.RenewalDate,
	).Scan(&lead.CreatedAt, &lead.UpdatedAt)
}

// GetByID gets a lead by ID
func (r *LeadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	var lead domain.Lead
	query := `
		SELECT id, full_name, first_name, last_name, email, phone,
		       lead_identity, contact_info, status, source,
		       premium, potential_status, renewal_date, created_at, updated_at
		FROM leads
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &lead, query, id); err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return nil, errors.NotFound("lead")
		}
		return nil, err
	}
	return &lead, nil
}

// List returns leads matching the given filters, newest first, plus the
// total count before pagination. Search matches across name and contact
// fields.
func (r *LeadRepository) List(ctx context.Context, params domain.ListParams) ([]domain.Lead, int, error) {
	params.Normalize()

	conditions := []string{"1=1"}
	args := []interface{}{}
	argn := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(full_name ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d OR lead_identity ILIKE $%d OR contact_info ILIKE $%d)",
			argn, argn, argn, argn, argn, argn, argn))
		args = append(args, "%"+params.Search+"%")
		argn++
	}
	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argn))
		args = append(args, params.Status)
		argn++
	}
	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM leads WHERE " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, full_name, first_name, last_name, email, phone,
		       lead_identity, contact_info, status, source,
		       premium, potential_status, renewal_date, created_at, updated_at
		FROM leads
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argn, argn+1)
	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)

	var leads []domain.Lead
	if err := r.db.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// UpdateStatus moves a lead to a new pipeline state
func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) error {
	query := `UPDATE leads SET status = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NotFound("lead")
	}
	return nil
}

// CreateIncoming stores a raw webhook lead notification
func (r *LeadRepository) CreateIncoming(ctx context.Context, lead *domain.IncomingLead) error {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.ReceivedAt.IsZero() {
		lead.ReceivedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO incoming_leads (
			id, leadgen_id, form_id, ad_id, created_time, field_data, received_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		lead.ID, lead.LeadgenID, lead.FormID, lead.AdID,
		lead.CreatedTime, lead.FieldData, lead.ReceivedAt,
	)
	return err
}

// ListIncoming returns all pending webhook leads, newest first
func (r *LeadRepository) ListIncoming(ctx context.Context) ([]domain.IncomingLead, error) {
	query := `
		SELECT id, leadgen_id, form_id, ad_id, created_time, field_data, received_at
		FROM incoming_leads
		ORDER BY received_at DESC
	`
	var leads []domain.IncomingLead
	if err := r.db.SelectContext(ctx, &leads, query); err != nil {
		return nil, err
	}
	return leads, nil
}

// DeleteIncoming removes a pending webhook lead by its leadgen ID
func (r *LeadRepository) DeleteIncoming(ctx context.Context, leadgenID string) error {
	query := `DELETE FROM incoming_leads WHERE leadgen_id = $1`
	_, err := r.db.ExecContext(ctx, query, leadgenID)
	return err
}
