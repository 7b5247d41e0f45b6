package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// FundraiserRepositoryPG implements domain.FundraiserRepository backed by PostgreSQL.
type FundraiserRepositoryPG struct {
	db infra.DB
}

// NewFundraiserRepository creates a new FundraiserRepositoryPG.
func NewFundraiserRepository(db infra.DB) *FundraiserRepositoryPG {
	return &FundraiserRepositoryPG{db: db}
}

// Create inserts a new fundraiser. The unique constraint on user_id makes the
// one-active-fundraiser-per-user rule hold even when two creations race.
func (r *FundraiserRepositoryPG) Create(ctx context.Context, f *domain.Fundraiser) error {
	_, err := r.db.Exec(ctx, sqlinline.QInsertFundraiser,
		f.ID, f.UserID, f.Name, f.Description, f.EndDate, f.TargetFunds.String())
	if isUniqueViolation(err) {
		return domain.ErrFundraiserExists
	}
	return err
}

// GetByID fetches a fundraiser by id.
func (r *FundraiserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Fundraiser, error) {
	row := r.db.QueryRow(ctx, sqlinline.QSelectFundraiserByID, id)
	return scanFundraiser(row)
}

// ActiveForUser returns the user's fundraiser, or (nil, nil) when none exists.
func (r *FundraiserRepositoryPG) ActiveForUser(ctx context.Context, userID string) (*domain.Fundraiser, error) {
	row := r.db.QueryRow(ctx, sqlinline.QSelectFundraiserByUser, userID)
	f, err := scanFundraiser(row)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return f, err
}

// FundsRaised recomputes the live contribution sum for the fundraiser.
func (r *FundraiserRepositoryPG) FundsRaised(ctx context.Context, fundraiserID string) (decimal.Decimal, error) {
	row := r.db.QueryRow(ctx, sqlinline.QFundsRaised, fundraiserID)
	var raw string
	if err := row.Scan(&raw); err != nil {
		return decimal.Zero, err
	}
	total, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse funds raised: %w", err)
	}
	return total, nil
}

// Delete removes the fundraiser's contributions and then the fundraiser in a
// single transaction, so a partial cascade can never be observed.
func (r *FundraiserRepositoryPG) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, infra.RawSQL(sqlinline.QDeleteContributionsByFundraiser), id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, infra.RawSQL(sqlinline.QDeleteFundraiser), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit(ctx)
}

func scanFundraiser(row pgx.Row) (*domain.Fundraiser, error) {
	var f domain.Fundraiser
	var target string
	if err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Description, &f.EndDate, &target, &f.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var err error
	f.TargetFunds, err = decimal.NewFromString(target)
	if err != nil {
		return nil, fmt.Errorf("parse target funds: %w", err)
	}
	return &f, nil
}

var _ domain.FundraiserRepository = (*FundraiserRepositoryPG)(nil)
