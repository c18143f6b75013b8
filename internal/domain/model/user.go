package model

import (
	"time"

	"registration-service/internal/domain"

	"github.com/google/uuid"
)

// User is a registered account. Accounts start inactive and become active
// exactly once, through a successful activation code redemption.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewUser(id, email, passwordHash string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if email == "" {
		return nil, domain.ErrInvalidArgument
	}
	if passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	u := &User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return u, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }

// Activate flips the account to active. The flag never reverts.
func (u *User) Activate() {
	u.IsActive = true
	u.UpdatedAt = time.Now()
}
