package domain

import "time"

// User represents a registered account. Accounts are immutable after
// registration except for the password hash.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
