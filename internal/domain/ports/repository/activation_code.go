package repository

import (
	"context"
	"time"

	"registration-service/internal/domain/model"
)

// ActivationCodeRepository is the port for managing activation codes.
type ActivationCodeRepository interface {
	// Create inserts a new unused code record.
	Create(ctx context.Context, tx Tx, code *model.ActivationCode) error
	// FindValid returns the most recently created code for userID whose
	// value equals code, is unused and is unexpired at now. Returns
	// domain.ErrNotFound when no such record exists; the caller cannot
	// tell a wrong code, an expired code and a consumed code apart.
	FindValid(ctx context.Context, tx Tx, userID, code string, now time.Time) (*model.ActivationCode, error)
	// MarkUsed sets the used timestamp on the given record only if it is
	// still unused. Returns domain.ErrInvalidOrExpiredCode when the record
	// was already consumed, so of two racing redemptions at most one wins.
	MarkUsed(ctx context.Context, tx Tx, id string, usedAt time.Time) error
	// InvalidateAllUnused marks every unused code for userID as used,
	// superseding them before a fresh code is issued.
	InvalidateAllUnused(ctx context.Context, tx Tx, userID string, usedAt time.Time) error
}
