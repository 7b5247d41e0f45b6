package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// FundraiserRepository handles fundraiser persistence.
type FundraiserRepository interface {
	Create(ctx context.Context, fundraiser *Fundraiser) error
	GetByID(ctx context.Context, id string) (*Fundraiser, error)
	// ActiveForUser returns the user's fundraiser, or (nil, nil) when the
	// user has none. Absence is not an error.
	ActiveForUser(ctx context.Context, userID string) (*Fundraiser, error)
	// FundsRaised recomputes the live sum of contribution amounts. The value
	// is never cached.
	FundsRaised(ctx context.Context, fundraiserID string) (decimal.Decimal, error)
	// Delete removes the fundraiser and all of its contributions in a single
	// transaction.
	Delete(ctx context.Context, id string) error
}

// ContributionRepository handles contribution persistence.
type ContributionRepository interface {
	Create(ctx context.Context, contribution *Contribution) error
	Count(ctx context.Context, fundraiserID string) (int64, error)
	// ListPage returns one page of contributions in insertion order.
	ListPage(ctx context.Context, fundraiserID string, limit, offset int) ([]Contribution, error)
	ListAll(ctx context.Context, fundraiserID string) ([]Contribution, error)
}
