package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"server/internal/domain"
	"server/internal/events"
	"server/internal/mpesa"
)

// PageSize is the fixed contribution report page size.
const PageSize = 10

// ContributionService records contributions parsed from notification text and
// serves the paginated report over them.
type ContributionService struct {
	fundraisers   domain.FundraiserRepository
	contributions domain.ContributionRepository
	publisher     events.Publisher
	logger        zerolog.Logger
	now           func() time.Time
}

func NewContributionService(
	fundraisers domain.FundraiserRepository,
	contributions domain.ContributionRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) *ContributionService {
	return &ContributionService{
		fundraisers:   fundraisers,
		contributions: contributions,
		publisher:     publisher,
		logger:        logger,
		now:           time.Now,
	}
}

// RecordResult is the outcome of recording one contribution. Fields is set
// whenever the message parsed, even if the store write was then rejected.
type RecordResult struct {
	Fields       *mpesa.Fields
	Contribution *domain.Contribution
	FundsRaised  decimal.Decimal
}

// Record parses a raw notification message and persists the resulting
// contribution against the caller's fundraiser. On a store rejection the
// parsed fields are still returned alongside the persistence error so the
// caller can display them.
func (s *ContributionService) Record(ctx context.Context, userID, fundraiserID, message string) (*RecordResult, error) {
	f, err := s.fundraisers.GetByID(ctx, fundraiserID)
	if err != nil {
		return nil, err
	}
	if f.UserID != userID {
		return nil, domain.ErrForbidden
	}

	fields, err := mpesa.Parse(message)
	if err != nil {
		return nil, err
	}

	c := &domain.Contribution{
		ID:               uuid.NewString(),
		FundraiserID:     fundraiserID,
		Reference:        fields.Reference,
		ContributorName:  fields.ContributorName,
		PhoneNumber:      fields.PhoneNumber,
		Amount:           fields.Amount,
		ContributionDate: fields.Date,
		ContributionTime: fields.Time,
		CreatedAt:        s.now(),
	}
	if err := s.contributions.Create(ctx, c); err != nil {
		return &RecordResult{Fields: fields}, err
	}

	raised, err := s.fundraisers.FundsRaised(ctx, fundraiserID)
	if err != nil {
		return &RecordResult{Fields: fields, Contribution: c}, err
	}

	if err := s.publisher.PublishContributionRecorded(ctx, events.ContributionRecorded{
		ContributionID: c.ID,
		FundraiserID:   fundraiserID,
		Reference:      c.Reference,
		Amount:         c.Amount.String(),
		RecordedAt:     c.CreatedAt,
	}); err != nil {
		s.logger.Error().Err(err).Str("contribution_id", c.ID).Msg("publish contribution event failed")
	}

	return &RecordResult{Fields: fields, Contribution: c, FundsRaised: raised}, nil
}

// ReportPage is one page of a fundraiser's contribution report.
type ReportPage struct {
	Items      []domain.Contribution
	Page       int
	TotalPages int
	Total      int64
}

// Page returns the 1-based page of the owner's contributions in insertion
// order. Out-of-range pages yield an empty page, not an error.
func (s *ContributionService) Page(ctx context.Context, userID, fundraiserID string, page int) (*ReportPage, error) {
	if page < 1 {
		page = 1
	}
	if err := s.checkOwner(ctx, userID, fundraiserID); err != nil {
		return nil, err
	}

	total, err := s.contributions.Count(ctx, fundraiserID)
	if err != nil {
		return nil, err
	}
	items, err := s.contributions.ListPage(ctx, fundraiserID, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	return &ReportPage{Items: items, Page: page, TotalPages: totalPages, Total: total}, nil
}

// All returns every contribution of the owner's fundraiser, for export.
func (s *ContributionService) All(ctx context.Context, userID, fundraiserID string) ([]domain.Contribution, error) {
	if err := s.checkOwner(ctx, userID, fundraiserID); err != nil {
		return nil, err
	}
	return s.contributions.ListAll(ctx, fundraiserID)
}

func (s *ContributionService) checkOwner(ctx context.Context, userID, fundraiserID string) error {
	f, err := s.fundraisers.GetByID(ctx, fundraiserID)
	if err != nil {
		return err
	}
	if f.UserID != userID {
		return domain.ErrForbidden
	}
	return nil
}

// IsParseError reports whether err is one of the field-level parse errors.
func IsParseError(err error) bool {
	return errors.Is(err, mpesa.ErrInvalidReference) ||
		errors.Is(err, mpesa.ErrInvalidAmount) ||
		errors.Is(err, mpesa.ErrInvalidName) ||
		errors.Is(err, mpesa.ErrInvalidPhone) ||
		errors.Is(err, mpesa.ErrInvalidDate) ||
		errors.Is(err, mpesa.ErrInvalidTime)
}
