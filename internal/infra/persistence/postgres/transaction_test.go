package postgres

import (
	"context"
	"testing"
	"time"

	"authflow/internal/domain/entity"
	"authflow/internal/domain/repository"
	"authflow/internal/infra/persistence/model"
	"authflow/internal/testutil"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionManager_RollbackUndoesPromotion(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	_, err := NewIdentityRepository(db).UpsertPending(ctx, entity.ProviderGoogle, "ext-tx", testToken("a"))
	require.NoError(t, err)

	failure := errors.New("session persistence failed")
	err = NewTransactionManager(db).Execute(ctx, func(f repository.RepositoryFactory) error {
		account := testAccount()
		if err := f.NewIdentityRepository().Promote(ctx, entity.ProviderGoogle, "ext-tx", account); err != nil {
			return err
		}

		require.NoError(t, f.NewLoginTokenRepository().Save(ctx, &entity.LoginToken{
			AccountID: account.ID,
			Provider:  entity.ProviderGoogle,
			TokenHash: "h",
			ExpiresAt: time.Now().Add(time.Hour),
		}))

		return failure
	})
	assert.ErrorIs(t, err, failure)

	assert.Zero(t, testutil.Count(t, db, &model.AccountModel{}))
	assert.Zero(t, testutil.Count(t, db, &model.LoginTokenModel{}))

	identity, err := NewIdentityRepository(db).FindByExternalID(ctx, entity.ProviderGoogle, "ext-tx")
	require.NoError(t, err)
	assert.True(t, identity.IsPending())
}

func TestTransactionManager_Commit(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	_, err := NewIdentityRepository(db).UpsertPending(ctx, entity.ProviderGoogle, "ext-ok", testToken("a"))
	require.NoError(t, err)

	var accountID string
	err = NewTransactionManager(db).Execute(ctx, func(f repository.RepositoryFactory) error {
		account := testAccount()
		if err := f.NewIdentityRepository().Promote(ctx, entity.ProviderGoogle, "ext-ok", account); err != nil {
			return err
		}
		accountID = account.ID.String()

		found, err := f.NewAccountRepository().FindByID(ctx, account.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, "juan@example.com", found.Email)

		return nil
	})
	require.NoError(t, err)

	linked, err := NewIdentityRepository(db).FindLinked(ctx, entity.ProviderGoogle, "ext-ok")
	require.NoError(t, err)
	assert.Equal(t, accountID, linked.ID.String())

	_, err = NewAccountRepository(db).FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}
