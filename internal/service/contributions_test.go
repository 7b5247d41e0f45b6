package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"server/internal/domain"
	"server/internal/mpesa"
)

func newContributionFixture(t *testing.T) (*ContributionService, *memStore, *capturedEvents, string) {
	t.Helper()
	store := newMemStore()
	fundraisers := &memFundraisers{store: store}
	contributions := &memContributions{store: store}
	published := &capturedEvents{}
	svc := NewContributionService(fundraisers, contributions, published, zerolog.Nop())

	f := domain.Fundraiser{
		ID:          uuid.NewString(),
		UserID:      "owner-1",
		Name:        "School roof",
		EndDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		TargetFunds: decimal.NewFromInt(100000),
	}
	store.fundraisers[f.ID] = f
	return svc, store, published, f.ID
}

func TestRecord_PersistsParsedContribution(t *testing.T) {
	svc, store, published, fid := newContributionFixture(t)

	result, err := svc.Record(context.Background(), "owner-1", fid,
		"ABC1234567 Confirmed. Ksh1,500.00 received from JOHN DOE 254712345678 on 5/6/24 at 2:30 PM")
	require.NoError(t, err)
	require.NotNil(t, result.Contribution)

	assert.Equal(t, "ABC1234567", result.Contribution.Reference)
	assert.Equal(t, "JOHN DOE", result.Contribution.ContributorName)
	assert.Equal(t, "254712345678", result.Contribution.PhoneNumber)
	assert.Equal(t, "2024-06-05", result.Contribution.ContributionDate.Format("2006-01-02"))
	assert.Equal(t, "14:30:00", result.Contribution.ContributionTime)
	assert.False(t, result.Contribution.CreatedAt.IsZero(), "creation timestamp must be server-assigned")
	assert.True(t, result.FundsRaised.Equal(decimal.NewFromInt(1500)), "funds_raised = %s", result.FundsRaised)

	require.Len(t, store.contributions, 1)
	require.Len(t, published.events, 1)
	assert.Equal(t, result.Contribution.ID, published.events[0].ContributionID)
}

func TestRecord_ParseFailureWritesNothing(t *testing.T) {
	svc, store, published, fid := newContributionFixture(t)

	result, err := svc.Record(context.Background(), "owner-1", fid, "no landmarks here")
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, mpesa.ErrInvalidReference))
	assert.Empty(t, store.contributions, "failed parse must not persist anything")
	assert.Empty(t, published.events)
}

func TestRecord_UnknownFundraiser(t *testing.T) {
	svc, _, _, _ := newContributionFixture(t)

	_, err := svc.Record(context.Background(), "owner-1", uuid.NewString(),
		"ABC1234567 Ksh100. from JANE 254700000000 on 5/6/24 at 2:30 PM")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRecord_NonOwnerForbidden(t *testing.T) {
	svc, store, _, fid := newContributionFixture(t)

	_, err := svc.Record(context.Background(), "intruder", fid,
		"ABC1234567 Ksh100. from JANE 254700000000 on 5/6/24 at 2:30 PM")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Empty(t, store.contributions)
}

func TestRecord_StoreRejectionReturnsParsedFields(t *testing.T) {
	svc, store, published, fid := newContributionFixture(t)
	store.failWrites = true

	result, err := svc.Record(context.Background(), "owner-1", fid,
		"ABC1234567 Confirmed. Ksh1,500.00 received from JOHN DOE 254712345678 on 5/6/24 at 2:30 PM")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPersistence))

	require.NotNil(t, result, "parsed fields must survive a store rejection")
	require.NotNil(t, result.Fields)
	assert.Equal(t, "ABC1234567", result.Fields.Reference)
	assert.Nil(t, result.Contribution)
	assert.Empty(t, store.contributions)
	assert.Empty(t, published.events)
}

func seedContributions(store *memStore, fid string, n int) {
	for i := 0; i < n; i++ {
		store.contributions = append(store.contributions, domain.Contribution{
			ID:           fmt.Sprintf("c-%02d", i),
			FundraiserID: fid,
			Reference:    fmt.Sprintf("REF%07d", i),
			Amount:       decimal.NewFromInt(100),
			CreatedAt:    time.Date(2024, 6, 1, 12, 0, i, 0, time.UTC),
		})
	}
}

func TestPage_PaginationContract(t *testing.T) {
	svc, store, _, fid := newContributionFixture(t)
	seedContributions(store, fid, 25)

	page1, err := svc.Page(context.Background(), "owner-1", fid, 1)
	require.NoError(t, err)
	assert.Len(t, page1.Items, 10)
	assert.Equal(t, 3, page1.TotalPages)
	assert.Equal(t, int64(25), page1.Total)
	assert.Equal(t, "c-00", page1.Items[0].ID, "pages run in insertion order")

	page3, err := svc.Page(context.Background(), "owner-1", fid, 3)
	require.NoError(t, err)
	assert.Len(t, page3.Items, 5)

	page4, err := svc.Page(context.Background(), "owner-1", fid, 4)
	require.NoError(t, err)
	assert.Empty(t, page4.Items, "out-of-range pages are empty, not errors")
	assert.Equal(t, 3, page4.TotalPages)
}

func TestPage_EmptyFundraiser(t *testing.T) {
	svc, _, _, fid := newContributionFixture(t)

	page, err := svc.Page(context.Background(), "owner-1", fid, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
}

func TestAll_ForExport(t *testing.T) {
	svc, store, _, fid := newContributionFixture(t)
	seedContributions(store, fid, 12)

	items, err := svc.All(context.Background(), "owner-1", fid)
	require.NoError(t, err)
	assert.Len(t, items, 12)

	_, err = svc.All(context.Background(), "intruder", fid)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}
