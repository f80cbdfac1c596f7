package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurelens/insurelens-backend/pkg/logger"
	"github.com/insurelens/insurelens-backend/pkg/messaging"
	"github.com/insurelens/insurelens-backend/pkg/testutil"
)

func newTestService(pub EventPublisher) *Service {
	return NewService(nil, pub, logger.New("parser-service-test", "development"))
}

func TestCalculateFromDocuments(t *testing.T) {
	pub := testutil.NewMockPublisher()
	svc := newTestService(pub)

	res := svc.CalculateFromDocuments(context.Background(), CombinedPayload{
		Driver: map[string]interface{}{
			"name":               "MOTILAL DANNILLIAN",
			"firstInsuranceDate": "2020-06-15",
		},
		MvrData: map[string]interface{}{
			"issue_date":          "2018-06-15",
			"birth_date":          "1990-03-10",
			"licence_expiry_date": "2026-03-12",
			"convictions":         []interface{}{},
		},
	})

	require.True(t, res.CalculationPerformed)
	assert.Equal(t, "2019-06-15", *res.GDate)
	assert.Equal(t, "2017-06-15", *res.G2Date)
	assert.Equal(t, "2015-06-15", *res.G1Date)
	require.NotNil(t, res.ExperienceWarning)
	require.NotNil(t, res.Note)
	assert.Equal(t, "G/G1/G2 dates calculated from MVR Issue Date and DASH First Insurance Date", *res.Note)

	pub.AssertEventPublished(t, messaging.EventLicenseDatesResult)
}

func TestCalculateFromDocumentsFailureNote(t *testing.T) {
	svc := newTestService(nil)

	res := svc.CalculateFromDocuments(context.Background(), CombinedPayload{
		Driver:  map[string]interface{}{"firstInsuranceDate": "garbage"},
		MvrData: map[string]interface{}{"issue_date": "2018-06-15"},
	})

	assert.False(t, res.CalculationPerformed)
	require.NotNil(t, res.Error)
	require.NotNil(t, res.Note)
	assert.Equal(t, "Calculation attempted but failed", *res.Note)
}

func TestCalculateFromDocumentsSentinelIsAbsent(t *testing.T) {
	svc := newTestService(nil)

	res := svc.CalculateFromDocuments(context.Background(), CombinedPayload{
		Driver: map[string]interface{}{
			"firstInsuranceDate": "-",
		},
		MvrData: map[string]interface{}{
			"issue_date": "Not available in document",
		},
	})

	assert.False(t, res.CalculationPerformed)
	assert.Nil(t, res.GDate)
	require.NotNil(t, res.Note)
}

func TestCalculateFromDocumentsMissingDash(t *testing.T) {
	svc := newTestService(nil)

	res := svc.CalculateFromDocuments(context.Background(), CombinedPayload{
		MvrData: map[string]interface{}{"issue_date": "2018-06-15"},
	})

	assert.False(t, res.CalculationPerformed)
	require.NotNil(t, res.Note)
	assert.Equal(t, "First Insurance Date not found in DASH document", *res.Note)
}

func TestCalculateManual(t *testing.T) {
	svc := newTestService(nil)

	res := svc.CalculateManual(context.Background(), ManualDatesRequest{
		IssueDate:          "06/15/2018",
		FirstInsuranceDate: "06/15/2020",
	})

	require.True(t, res.CalculationPerformed)
	assert.Equal(t, "2019-06-15", *res.GDate)
	assert.Equal(t, "2015-06-15", *res.G1Date)
}

func TestCalculateManualInvalidDate(t *testing.T) {
	svc := newTestService(nil)

	res := svc.CalculateManual(context.Background(), ManualDatesRequest{
		IssueDate:          "June 15 2018",
		FirstInsuranceDate: "06/15/2020",
	})

	assert.False(t, res.CalculationPerformed)
	require.NotNil(t, res.Error)
}

func TestParseDashUnreadableUpload(t *testing.T) {
	pub := testutil.NewMockPublisher()
	svc := newTestService(pub)

	res := svc.ParseDash(context.Background(), []byte("this is not a pdf"))

	assert.False(t, res.Success)
	require.NotEmpty(t, res.Errors)
	assert.Nil(t, res.Data)

	pub.AssertEventPublished(t, messaging.EventDocumentRejected)
}

func TestParseMvrUnreadableUpload(t *testing.T) {
	svc := newTestService(nil)

	res := svc.ParseMvr(context.Background(), []byte{0x25, 0x50})

	assert.False(t, res.Success)
	require.NotEmpty(t, res.Errors)
	assert.Nil(t, res.MvrData)
}
