package repository

import (
	"context"

	"authflow/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrAccountNotFound is returned when a local account is not found.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository reads local accounts. Accounts are only ever written by IdentityRepository.Promote.
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.LocalAccount, error)
}
