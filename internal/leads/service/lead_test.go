package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurelens/insurelens-backend/internal/leads/domain"
	"github.com/insurelens/insurelens-backend/pkg/logger"
	"github.com/insurelens/insurelens-backend/pkg/messaging"
	"github.com/insurelens/insurelens-backend/pkg/testutil"
)

// fakeStore is an in-memory LeadStore for service tests
type fakeStore struct {
	leads    []domain.Lead
	incoming []domain.IncomingLead
}

func (f *fakeStore) Create(ctx context.Context, lead *domain.Lead) error {
	f.leads = append(f.leads, *lead)
	return nil
}

func (f *fakeStore) List(ctx context.Context, params domain.ListParams) ([]domain.Lead, int, error) {
	return f.leads, len(f.leads), nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) error {
	return nil
}

func (f *fakeStore) CreateIncoming(ctx context.Context, lead *domain.IncomingLead) error {
	f.incoming = append(f.incoming, *lead)
	return nil
}

func (f *fakeStore) ListIncoming(ctx context.Context) ([]domain.IncomingLead, error) {
	return f.incoming, nil
}

func (f *fakeStore) DeleteIncoming(ctx context.Context, leadgenID string) error {
	kept := f.incoming[:0]
	for _, l := range f.incoming {
		if l.LeadgenID != leadgenID {
			kept = append(kept, l)
		}
	}
	f.incoming = kept
	return nil
}

func newTestService(store *fakeStore, pub EventPublisher) *Service {
	return NewService(store, pub, "test-verify-token", logger.New("leads-service-test", "development"))
}

func decodePayload(t *testing.T, raw string) WebhookPayload {
	t.Helper()
	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return payload
}

func TestVerifyWebhook(t *testing.T) {
	svc := newTestService(&fakeStore{}, nil)

	echo, ok := svc.VerifyWebhook("test-verify-token", "challenge-123")
	require.True(t, ok)
	assert.Equal(t, "challenge-123", echo)

	_, ok = svc.VerifyWebhook("wrong-token", "challenge-123")
	assert.False(t, ok)
}

func TestIngestWebhook(t *testing.T) {
	store := &fakeStore{}
	pub := testutil.NewMockPublisher()
	svc := newTestService(store, pub)

	payload := decodePayload(t, `{
		"entry": [{
			"changes": [{
				"value": {
					"leadgen_id": "1234567890",
					"form_id": "f-1",
					"ad_id": "a-1",
					"created_time": "2026-08-30T10:00:00Z",
					"field_data": [{"name": "full_name", "values": ["Jane Doe"]}]
				}
			}]
		}]
	}`)

	ingested := svc.IngestWebhook(context.Background(), payload)
	assert.Equal(t, 1, ingested)
	require.Len(t, store.incoming, 1)
	assert.Equal(t, "1234567890", store.incoming[0].LeadgenID)

	pub.AssertEventPublished(t, messaging.EventLeadReceived)
}

func TestIngestWebhookSkipsEntriesWithoutLeadgenID(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)

	payload := decodePayload(t, `{
		"entry": [{
			"changes": [
				{"value": {"form_id": "f-1"}},
				{"value": {"leadgen_id": "42"}}
			]
		}]
	}`)

	ingested := svc.IngestWebhook(context.Background(), payload)
	assert.Equal(t, 1, ingested)
	require.Len(t, store.incoming, 1)
	assert.Equal(t, "42", store.incoming[0].LeadgenID)
}

func TestDeleteIncomingPublishesEvent(t *testing.T) {
	store := &fakeStore{incoming: []domain.IncomingLead{{LeadgenID: "42"}}}
	pub := testutil.NewMockPublisher()
	svc := newTestService(store, pub)

	require.NoError(t, svc.DeleteIncoming(context.Background(), "42"))
	assert.Empty(t, store.incoming)
	pub.AssertEventPublished(t, messaging.EventLeadDeleted)
}

func TestListPagination(t *testing.T) {
	store := &fakeStore{leads: []domain.Lead{{FullName: "Jane Doe"}}}
	svc := newTestService(store, nil)

	result, err := svc.List(context.Background(), domain.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 1, result.Pages)
	require.Len(t, result.Leads, 1)
}
