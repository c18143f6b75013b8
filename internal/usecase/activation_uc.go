package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"registration-service/internal/domain"
	"registration-service/internal/domain/model"
	"registration-service/internal/domain/ports/repository"
	"registration-service/internal/infra/logging"
	"registration-service/internal/infra/metrics"
	"registration-service/internal/security"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ ActivationUseCase = (*activationUC)(nil)

// ActivationUseCase owns the activation code lifecycle: issuing codes and
// redeeming them to activate an account.
type ActivationUseCase interface {
	// Issue supersedes every unused code for the user and persists a
	// fresh one. It verifies the user exists first and fails with
	// domain.ErrUserNotFound otherwise. Returns the plaintext code for
	// out-of-band delivery.
	Issue(ctx context.Context, userID string) (string, error)
	// Redeem consumes submittedCode and marks the account active, both in
	// one transaction. Fails with domain.ErrUserNotFound,
	// domain.ErrAlreadyActive or domain.ErrInvalidOrExpiredCode; a wrong,
	// expired and already-used code are indistinguishable to the caller.
	Redeem(ctx context.Context, userID, submittedCode string) error
}

type activationUC struct {
	users      repository.UserRepository
	codes      repository.ActivationCodeRepository
	tm         repository.TransactionManager
	codeLength int
	ttl        time.Duration
	log        *zerolog.Logger
}

func NewActivationUseCase(users repository.UserRepository, codes repository.ActivationCodeRepository, tm repository.TransactionManager, codeLength int, ttl time.Duration, logger *zerolog.Logger) *activationUC {
	if codeLength <= 0 {
		codeLength = security.DefaultCodeLength
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &activationUC{
		users:      users,
		codes:      codes,
		tm:         tm,
		codeLength: codeLength,
		ttl:        ttl,
		log:        logger,
	}
}

func (u *activationUC) Issue(ctx context.Context, userID string) (string, error) {
	defer logging.TraceDuration(u.log, "ActivationUC.Issue")()

	// Serializable so two concurrent issues cannot both miss each other's
	// insert and leave two live codes. The transaction manager reruns the
	// losing transaction after a serialization abort.
	var plaintext string
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		if _, err := u.users.FindByID(ctx, tx, userID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		now := time.Now()
		// Supersede before insert, so a concurrent redeem sees either the
		// old code still live or the new one, never both.
		if err := u.codes.InvalidateAllUnused(ctx, tx, userID, now); err != nil {
			return err
		}

		code, err := security.GenerateCode(u.codeLength)
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		rec, err := model.NewActivationCode(userID, code, now.Add(u.ttl))
		if err != nil {
			return err
		}
		if err := u.codes.Create(ctx, tx, rec); err != nil {
			return err
		}
		plaintext = code
		return nil
	})
	if err != nil {
		return "", err
	}

	metrics.IncActivationIssued()
	u.log.Info().Str("user_id", userID).Msg("activation code issued")
	return plaintext, nil
}

func (u *activationUC) Redeem(ctx context.Context, userID, submittedCode string) error {
	defer logging.TraceDuration(u.log, "ActivationUC.Redeem")()

	// ReadCommitted on purpose: of two racing redemptions the loser's
	// conditional MarkUsed re-evaluates against the winner's committed row
	// and matches nothing, which surfaces as ErrInvalidOrExpiredCode. At
	// Serializable the loser would instead abort with a serialization
	// failure and, on rerun, see an already-active account.
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		usr, err := u.users.FindByID(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		if usr.IsActive {
			// Re-activation is rejected, not a silent no-op.
			return domain.ErrAlreadyActive
		}

		now := time.Now()
		rec, err := u.codes.FindValid(ctx, tx, userID, submittedCode, now)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrInvalidOrExpiredCode
			}
			return err
		}

		// Conditional write: a concurrent redemption that got here first
		// leaves zero rows for this update, failing the whole transaction.
		if err := u.codes.MarkUsed(ctx, tx, rec.ID, now); err != nil {
			return err
		}
		return u.users.MarkActive(ctx, tx, userID)
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.IncActivationFailure("not_found")
		case errors.Is(err, domain.ErrAlreadyActive):
			metrics.IncActivationFailure("already_active")
		case errors.Is(err, domain.ErrInvalidOrExpiredCode):
			metrics.IncActivationFailure("invalid_code")
		}
		return err
	}

	metrics.IncActivationRedeemed()
	u.log.Info().Str("user_id", userID).Msg("account activated")
	return nil
}
