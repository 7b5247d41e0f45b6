package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fundraiser is a campaign owned by exactly one user. A user owns at most one
// active fundraiser, enforced by a unique constraint on user_id.
type Fundraiser struct {
	ID          string
	UserID      string
	Name        string
	Description string
	EndDate     time.Time
	TargetFunds decimal.Decimal
	CreatedAt   time.Time
}
