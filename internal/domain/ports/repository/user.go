package repository

import (
	"context"

	"registration-service/internal/domain/model"
)

// -----------------------------
// Users
// -----------------------------

type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrAlreadyExists when the
	// email is already taken.
	Create(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	// MarkActive sets the active flag. The flag is monotonic: there is no
	// operation that clears it.
	MarkActive(ctx context.Context, tx Tx, id string) error
	CountUsers(ctx context.Context, tx Tx) (int, error)
}
