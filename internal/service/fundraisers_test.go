package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"server/internal/domain"
)

func newFundraiserFixture() (*FundraiserService, *memStore) {
	store := newMemStore()
	return NewFundraiserService(&memFundraisers{store: store}, zerolog.Nop()), store
}

func validInput() CreateFundraiserInput {
	return CreateFundraiserInput{
		Name:        "Harambee for school roof",
		Description: "Replacing the roof before the rains",
		EndDate:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		TargetFunds: decimal.NewFromInt(200000),
	}
}

func TestCreate_OneActiveFundraiserPerUser(t *testing.T) {
	svc, store := newFundraiserFixture()

	first, err := svc.Create(context.Background(), "user-1", validInput())
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	_, err = svc.Create(context.Background(), "user-1", validInput())
	assert.True(t, errors.Is(err, domain.ErrFundraiserExists))
	assert.Len(t, store.fundraisers, 1, "second creation must not grow the set")

	// A different user is unaffected.
	_, err = svc.Create(context.Background(), "user-2", validInput())
	assert.NoError(t, err)
}

func TestActiveID_AbsenceIsNotAnError(t *testing.T) {
	svc, _ := newFundraiserFixture()

	id, err := svc.ActiveID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, id)

	f, err := svc.Create(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	id, err = svc.ActiveID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, f.ID, id)
}

func TestGet_ComputesLiveFundsRaised(t *testing.T) {
	svc, store := newFundraiserFixture()
	f, err := svc.Create(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	for _, amount := range []string{"100", "250.50", "0"} {
		store.contributions = append(store.contributions, domain.Contribution{
			FundraiserID: f.ID,
			Amount:       decimal.RequireFromString(amount),
		})
	}

	_, raised, err := svc.Get(context.Background(), "user-1", f.ID)
	require.NoError(t, err)
	assert.Equal(t, "350.50", raised.StringFixed(2))
}

func TestGet_EmptyFundraiserRaisesZero(t *testing.T) {
	svc, _ := newFundraiserFixture()
	f, err := svc.Create(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	_, raised, err := svc.Get(context.Background(), "user-1", f.ID)
	require.NoError(t, err)
	assert.True(t, raised.IsZero())
}

func TestGet_NonOwnerForbidden(t *testing.T) {
	svc, _ := newFundraiserFixture()
	f, err := svc.Create(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	_, _, err = svc.Get(context.Background(), "user-2", f.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestDelete_CascadesContributions(t *testing.T) {
	svc, store := newFundraiserFixture()
	f, err := svc.Create(context.Background(), "user-1", validInput())
	require.NoError(t, err)
	store.contributions = append(store.contributions,
		domain.Contribution{FundraiserID: f.ID, Amount: decimal.NewFromInt(100)},
		domain.Contribution{FundraiserID: f.ID, Amount: decimal.NewFromInt(200)},
	)

	require.NoError(t, svc.Delete(context.Background(), "user-1", f.ID))
	assert.Empty(t, store.contributions, "deletion must remove the fundraiser's contributions")

	_, _, err = svc.Get(context.Background(), "user-1", f.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDelete_NonOwnerForbidden(t *testing.T) {
	svc, store := newFundraiserFixture()
	f, err := svc.Create(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "user-2", f.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Len(t, store.fundraisers, 1)
}
