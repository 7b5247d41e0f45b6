package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contribution is one validated payment record linked to a fundraiser.
// Contributions are insert-only; they are removed only when their fundraiser
// is deleted.
type Contribution struct {
	ID               string
	FundraiserID     string
	Reference        string
	ContributorName  string
	PhoneNumber      string
	Amount           decimal.Decimal
	ContributionDate time.Time
	// ContributionTime is the 24-hour wall-clock time from the notification,
	// formatted HH:MM:SS.
	ContributionTime string
	CreatedAt        time.Time
}
