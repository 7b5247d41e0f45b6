package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// ContributionRepositoryPG implements domain.ContributionRepository backed by PostgreSQL.
type ContributionRepositoryPG struct {
	db infra.DB
}

// NewContributionRepository creates a new ContributionRepositoryPG.
func NewContributionRepository(db infra.DB) *ContributionRepositoryPG {
	return &ContributionRepositoryPG{db: db}
}

// Create appends a contribution record in one atomic write. A rejected write
// surfaces as domain.ErrPersistence wrapping the store's message.
func (r *ContributionRepositoryPG) Create(ctx context.Context, c *domain.Contribution) error {
	_, err := r.db.Exec(ctx, sqlinline.QInsertContribution,
		c.ID, c.FundraiserID, c.Reference, c.ContributorName, c.PhoneNumber,
		c.Amount.String(), c.ContributionDate, c.ContributionTime)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Count returns the total number of contributions for the fundraiser.
func (r *ContributionRepositoryPG) Count(ctx context.Context, fundraiserID string) (int64, error) {
	row := r.db.QueryRow(ctx, sqlinline.QCountContributions, fundraiserID)
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// ListPage returns one page of contributions in insertion order.
func (r *ContributionRepositoryPG) ListPage(ctx context.Context, fundraiserID string, limit, offset int) ([]domain.Contribution, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListContributionsPage, fundraiserID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContributions(rows)
}

// ListAll returns every contribution for the fundraiser in insertion order.
func (r *ContributionRepositoryPG) ListAll(ctx context.Context, fundraiserID string) ([]domain.Contribution, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListContributionsAll, fundraiserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContributions(rows)
}

func collectContributions(rows pgx.Rows) ([]domain.Contribution, error) {
	var items []domain.Contribution
	for rows.Next() {
		var c domain.Contribution
		var amount string
		if err := rows.Scan(&c.ID, &c.FundraiserID, &c.Reference, &c.ContributorName,
			&c.PhoneNumber, &amount, &c.ContributionDate, &c.ContributionTime, &c.CreatedAt); err != nil {
			return nil, err
		}
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse contribution amount: %w", err)
		}
		c.Amount = parsed
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

var _ domain.ContributionRepository = (*ContributionRepositoryPG)(nil)
