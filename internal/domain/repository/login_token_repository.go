package repository

import (
	"context"

	"authflow/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrLoginTokenNotFound is returned when an account has no stored session.
var ErrLoginTokenNotFound = errors.New("login token not found")

// LoginTokenRepository stores the single active session of each account.
type LoginTokenRepository interface {
	// Save inserts the login token or overwrites the existing row of the same account.
	Save(ctx context.Context, token *entity.LoginToken) error

	// FindByAccountID returns the current session row of an account.
	FindByAccountID(ctx context.Context, accountID uuid.UUID) (*entity.LoginToken, error)

	// DeleteByAccountID removes the session of an account.
	DeleteByAccountID(ctx context.Context, accountID uuid.UUID) error
}
