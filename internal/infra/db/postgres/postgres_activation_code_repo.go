package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"registration-service/internal/domain"
	"registration-service/internal/domain/model"
	"registration-service/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.ActivationCodeRepository = (*activationCodeRepo)(nil)

type activationCodeRepo struct {
	pool *pgxpool.Pool
}

func NewActivationCodeRepo(pool *pgxpool.Pool) repository.ActivationCodeRepository {
	return &activationCodeRepo{pool: pool}
}

func (r *activationCodeRepo) Create(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	const q = `
INSERT INTO activation_codes (id, user_id, code, expires_at, used_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6);
`
	ex, err := pickExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	if _, err := ex.Exec(ctx, q, code.ID, code.UserID, code.Code, code.ExpiresAt, code.UsedAt, code.CreatedAt); err != nil {
		return fmt.Errorf("insert activation code: %w", err)
	}
	return nil
}

// FindValid returns the newest unused, unexpired code matching the
// submitted value. Should several rows match, the most recently created one
// wins; the ULID id breaks creation timestamps that round to the same
// microsecond, making the ordering total.
func (r *activationCodeRepo) FindValid(ctx context.Context, tx repository.Tx, userID, code string, now time.Time) (*model.ActivationCode, error) {
	const q = `
SELECT id, user_id, code, expires_at, used_at, created_at
  FROM activation_codes
 WHERE user_id = $1
   AND code = $2
   AND used_at IS NULL
   AND expires_at > $3
 ORDER BY created_at DESC, id DESC
 LIMIT 1;
`
	ex, err := pickExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	var ac model.ActivationCode
	err = ex.QueryRow(ctx, q, userID, code, now).Scan(&ac.ID, &ac.UserID, &ac.Code, &ac.ExpiresAt, &ac.UsedAt, &ac.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan activation code: %w", err)
	}
	return &ac, nil
}

// MarkUsed is the at-most-once step of redemption: the used_at IS NULL
// guard makes the update a conditional write, so of two racing redemptions
// exactly one sees a row affected.
func (r *activationCodeRepo) MarkUsed(ctx context.Context, tx repository.Tx, id string, usedAt time.Time) error {
	const q = `UPDATE activation_codes SET used_at = $2 WHERE id = $1 AND used_at IS NULL;`
	ex, err := pickExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	tag, err := ex.Exec(ctx, q, id, usedAt)
	if err != nil {
		return fmt.Errorf("mark used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidOrExpiredCode
	}
	return nil
}

func (r *activationCodeRepo) InvalidateAllUnused(ctx context.Context, tx repository.Tx, userID string, usedAt time.Time) error {
	const q = `UPDATE activation_codes SET used_at = $2 WHERE user_id = $1 AND used_at IS NULL;`
	ex, err := pickExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	if _, err := ex.Exec(ctx, q, userID, usedAt); err != nil {
		return fmt.Errorf("invalidate unused codes: %w", err)
	}
	return nil
}
