package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrUserExists       = errors.New("username already taken")
	ErrFundraiserExists = errors.New("user already has an active fundraiser")
	ErrPersistence      = errors.New("persistence failure")
)
