package model

import (
	"time"

	"registration-service/internal/domain"

	"github.com/oklog/ulid/v2"
)

// ActivationCode is a single-use, time-boxed code gating a user's
// transition to active. Records are never deleted: superseded and redeemed
// codes keep their used timestamp as history.
type ActivationCode struct {
	ID        string
	UserID    string
	Code      string
	ExpiresAt time.Time
	UsedAt    *time.Time // nil means still unused
	CreatedAt time.Time
}

// NewActivationCode builds an unused code record. IDs are ULIDs so record
// identity sorts by creation time, which the most-recent-first lookup in
// the repository relies on.
func NewActivationCode(userID, code string, expiresAt time.Time) (*ActivationCode, error) {
	if userID == "" || code == "" {
		return nil, domain.ErrInvalidArgument
	}
	c := &ActivationCode{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Code:      code,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return c, nil
}

func (c *ActivationCode) IsUsed() bool { return c.UsedAt != nil }

func (c *ActivationCode) IsExpired(now time.Time) bool { return !now.Before(c.ExpiresAt) }

// IsLive reports whether the code can still be redeemed at now.
func (c *ActivationCode) IsLive(now time.Time) bool { return !c.IsUsed() && !c.IsExpired(now) }
