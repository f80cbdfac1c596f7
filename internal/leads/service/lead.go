// Package service implements lead listing, Meta webhook verification
// and the incoming-lead ingestion flow.
package service

import (
	"context"
	"encoding/json"

	"github.com/insurelens/insurelens-backend/internal/leads/domain"
	"github.com/insurelens/insurelens-backend/pkg/logger"
	"github.com/insurelens/insurelens-backend/pkg/messaging"
)

// LeadStore is the persistence seam for leads and incoming webhook
// notifications
type LeadStore interface {
	Create(ctx context.Context, lead *domain.Lead) error
	List(ctx context.Context, params domain.ListParams) ([]domain.Lead, int, error)
	UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) error
	CreateIncoming(ctx context.Context, lead *domain.IncomingLead) error
	ListIncoming(ctx context.Context) ([]domain.IncomingLead, error)
	DeleteIncoming(ctx context.Context, leadgenID string) error
}

// EventPublisher publishes lead lifecycle events
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// Service coordinates lead operations
type Service struct {
	store       LeadStore
	publisher   EventPublisher
	verifyToken string
	log         *logger.Logger
}

// NewService creates a new lead service
func NewService(store LeadStore, publisher EventPublisher, verifyToken string, log *logger.Logger) *Service {
	return &Service{
		store:       store,
		publisher:   publisher,
		verifyToken: verifyToken,
		log:         log,
	}
}

// ListResult is a paginated lead listing
type ListResult struct {
	Leads []domain.Lead `json:"leads"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
}

// List returns leads filtered by search text and status, newest first
func (s *Service) List(ctx context.Context, params domain.ListParams) (*ListResult, error) {
	params.Normalize()
	leads, total, err := s.store.List(ctx, params)
	if err != nil {
		return nil, err
	}
	if leads == nil {
		leads = []domain.Lead{}
	}

	pages := 0
	if total > 0 {
		pages = (total + params.PageSize - 1) / params.PageSize
	}
	return &ListResult{
		Leads: leads,
		Total: total,
		Page:  params.Page,
		Pages: pages,
	}, nil
}

// UpdateStatus moves a lead to a new pipeline state
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) error {
	return s.store.UpdateStatus(ctx, id, status)
}

// VerifyWebhook checks the Meta subscription handshake. On a token
// match the caller must echo the challenge verbatim.
func (s *Service) VerifyWebhook(token, challenge string) (string, bool) {
	if token != s.verifyToken {
		s.log.Warn().Msg("webhook verification failed")
		return "", false
	}
	s.log.Info().Msg("webhook verified")
	return challenge, true
}

// WebhookPayload is the Meta leadgen notification envelope. Only
// entry→changes→value.leadgen_id paths are read.
type WebhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				LeadgenID   string          `json:"leadgen_id"`
				FormID      string          `json:"form_id"`
				AdID        string          `json:"ad_id"`
				CreatedTime string          `json:"created_time"`
				FieldData   json.RawMessage `json:"field_data"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// IngestWebhook stores every leadgen notification in the payload and
// publishes a lead.received event per lead. Storage errors are logged
// but not returned: the webhook must always acknowledge, or Meta
// retries indefinitely.
func (s *Service) IngestWebhook(ctx context.Context, payload WebhookPayload) int {
	ingested := 0
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			v := change.Value
			if v.LeadgenID == "" {
				continue
			}

			lead := &domain.IncomingLead{
				LeadgenID:   v.LeadgenID,
				FormID:      v.FormID,
				AdID:        v.AdID,
				CreatedTime: v.CreatedTime,
				FieldData:   v.FieldData,
			}
			if err := s.store.CreateIncoming(ctx, lead); err != nil {
				s.log.Error().Err(err).Str("leadgen_id", v.LeadgenID).Msg("failed to store incoming lead")
				continue
			}
			ingested++

			s.log.Info().Str("leadgen_id", v.LeadgenID).Msg("lead received")
			if s.publisher != nil {
				if err := s.publisher.Publish(ctx, messaging.EventLeadReceived, messaging.LeadReceivedEvent{
					LeadID:    lead.ID,
					LeadgenID: v.LeadgenID,
					FormID:    v.FormID,
					AdID:      v.AdID,
					Source:    "meta_webhook",
				}); err != nil {
					s.log.Warn().Err(err).Msg("failed to publish lead.received")
				}
			}
		}
	}
	return ingested
}

// ListIncoming returns all pending webhook leads
func (s *Service) ListIncoming(ctx context.Context) ([]domain.IncomingLead, error) {
	leads, err := s.store.ListIncoming(ctx)
	if err != nil {
		return nil, err
	}
	if leads == nil {
		leads = []domain.IncomingLead{}
	}
	return leads, nil
}

// DeleteIncoming dismisses a pending webhook lead
func (s *Service) DeleteIncoming(ctx context.Context, leadgenID string) error {
	if err := s.store.DeleteIncoming(ctx, leadgenID); err != nil {
		return err
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, messaging.EventLeadDeleted, messaging.LeadDeletedEvent{
			LeadID: leadgenID,
		}); err != nil {
			s.log.Warn().Err(err).Msg("failed to publish lead.deleted")
		}
	}
	return nil
}
