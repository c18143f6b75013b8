package usecase

import (
	"context"
	"errors"
	"net/mail"
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
var _ UserUseCase = (*userUC)(nil)

const minPasswordLength = 8

// UserUseCase exposes account operations used by the registration and
// login flows.
type UserUseCase interface {
	// Register creates an inactive account. Fails with
	// domain.ErrAlreadyExists when the email is taken and
	// domain.ErrInvalidArgument on malformed input.
	Register(ctx context.Context, email, password string) (*model.User, error)
	// VerifyCredentials authenticates a login attempt. Both an unknown
	// email and a wrong password return (nil, nil): the caller cannot use
	// the result to enumerate accounts.
	VerifyCredentials(ctx context.Context, email, password string) (*model.User, error)
	Count(ctx context.Context) (int, error)
}

type userUC struct {
	users  repository.UserRepository
	tm     repository.TransactionManager
	hasher *security.PasswordHasher
	log    *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, tm repository.TransactionManager, hasher *security.PasswordHasher, logger *zerolog.Logger) *userUC {
	return &userUC{
		users:  users,
		tm:     tm,
		hasher: hasher,
		log:    logger,
	}
}

func (u *userUC) Register(ctx context.Context, email, password string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Register")()

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidArgument
	}
	if len(password) < minPasswordLength {
		return nil, domain.ErrInvalidArgument
	}

	// Hash outside the transaction: bcrypt takes ~100ms and there is no
	// reason to hold a DB transaction open for it.
	start := time.Now()
	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	metrics.ObservePasswordHash(time.Since(start))

	// ReadCommitted on purpose: the unique index on email is the arbiter
	// for racing registrations. The loser's INSERT waits on the winner's
	// commit and comes back as a duplicate, not a serialization abort.
	var user *model.User
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err = u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		existing, err := u.users.FindByEmail(ctx, tx, email)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyExists
		}

		nu, err := model.NewUser("", email, hash)
		if err != nil {
			return err
		}
		if err := u.users.Create(ctx, tx, nu); err != nil {
			return err
		}
		user = nu
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncRegistration()
	u.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (u *userUC) VerifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.VerifyCredentials")()

	usr, err := u.users.FindByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !u.hasher.Verify(password, usr.PasswordHash) {
		return nil, nil
	}
	return usr, nil
}

func (u *userUC) Count(ctx context.Context) (int, error) {
	return u.users.CountUsers(ctx, nil)
}
