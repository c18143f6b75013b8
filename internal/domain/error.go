package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound             = errors.New("entity not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrAlreadyExists        = errors.New("entity already exists")
	ErrAlreadyActive        = errors.New("user is already active")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired activation code")
	ErrHashing              = errors.New("password hashing failed")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidExecContext   = errors.New("invalid executor context")
)
