package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"server/internal/domain"
)

// FundraiserService owns fundraiser lifecycle rules: one active fundraiser
// per user, owner-scoped reads, transactional cascade deletion.
type FundraiserService struct {
	fundraisers domain.FundraiserRepository
	logger      zerolog.Logger
}

func NewFundraiserService(fundraisers domain.FundraiserRepository, logger zerolog.Logger) *FundraiserService {
	return &FundraiserService{fundraisers: fundraisers, logger: logger}
}

// CreateFundraiserInput carries the creation form fields.
type CreateFundraiserInput struct {
	Name        string
	Description string
	EndDate     time.Time
	TargetFunds decimal.Decimal
}

// Create makes the user's active fundraiser. The pre-check narrows the race
// window; the store's unique constraint on user_id closes it.
func (s *FundraiserService) Create(ctx context.Context, userID string, in CreateFundraiserInput) (*domain.Fundraiser, error) {
	existing, err := s.fundraisers.ActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrFundraiserExists
	}

	f := &domain.Fundraiser{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		EndDate:     in.EndDate,
		TargetFunds: in.TargetFunds,
	}
	if err := s.fundraisers.Create(ctx, f); err != nil {
		return nil, err
	}
	s.logger.Info().Str("fundraiser_id", f.ID).Str("user_id", userID).Msg("fundraiser created")
	return f, nil
}

// ActiveID reports the id of the user's fundraiser, or "" when the user has
// none. Absence is not an error.
func (s *FundraiserService) ActiveID(ctx context.Context, userID string) (string, error) {
	f, err := s.fundraisers.ActiveForUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if f == nil {
		return "", nil
	}
	return f.ID, nil
}

// Get returns an owner's fundraiser together with its live funds_raised sum.
func (s *FundraiserService) Get(ctx context.Context, userID, fundraiserID string) (*domain.Fundraiser, decimal.Decimal, error) {
	f, err := s.fundraisers.GetByID(ctx, fundraiserID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if f.UserID != userID {
		return nil, decimal.Zero, domain.ErrForbidden
	}
	raised, err := s.fundraisers.FundsRaised(ctx, fundraiserID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return f, raised, nil
}

// GetPublic returns a fundraiser and its funds_raised without an owner check,
// for the public share page.
func (s *FundraiserService) GetPublic(ctx context.Context, fundraiserID string) (*domain.Fundraiser, decimal.Decimal, error) {
	f, err := s.fundraisers.GetByID(ctx, fundraiserID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	raised, err := s.fundraisers.FundsRaised(ctx, fundraiserID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return f, raised, nil
}

// Delete removes an owner's fundraiser and all of its contributions.
func (s *FundraiserService) Delete(ctx context.Context, userID, fundraiserID string) error {
	f, err := s.fundraisers.GetByID(ctx, fundraiserID)
	if err != nil {
		return err
	}
	if f.UserID != userID {
		return domain.ErrForbidden
	}
	if err := s.fundraisers.Delete(ctx, fundraiserID); err != nil {
		return err
	}
	s.logger.Info().Str("fundraiser_id", fundraiserID).Msg("fundraiser deleted")
	return nil
}
