// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"authflow/internal/domain/entity"
	domainerrors "authflow/internal/domain/errors"
	"authflow/internal/domain/repository"
	"authflow/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// identityRepository implements repository.IdentityRepository.
type identityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository is the constructor for identityRepository.
func NewIdentityRepository(db *gorm.DB) repository.IdentityRepository {
	return &identityRepository{db: db}
}

// FindLinked only matches identities whose linked_account_id is set.
// Reads go to the primary so a promotion committed a moment ago is visible.
func (repo *identityRepository) FindLinked(ctx context.Context, provider entity.ProviderType, externalID string) (*entity.LocalAccount, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Joins("JOIN auth_providers ON auth_providers.linked_account_id = users.id").
		Where("auth_providers.provider = ? AND auth_providers.external_id = ?", provider.String(), externalID).
		Where("auth_providers.linked_account_id IS NOT NULL").
		First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrIdentityNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find linked identity")
	}

	return toAccountDomain(&accountM), nil
}

// FindByExternalID returns the identity whether it is pending or linked.
func (repo *identityRepository) FindByExternalID(ctx context.Context, provider entity.ProviderType, externalID string) (*entity.ProviderIdentity, error) {
	identityM, err := repo.findModel(repo.db.WithContext(ctx).Clauses(dbresolver.Write), provider, externalID)
	if err != nil {
		return nil, err
	}

	return toIdentityDomain(identityM), nil
}

// UpsertPending is a single INSERT ... ON CONFLICT (provider, external_id) DO UPDATE.
// The update list deliberately leaves linked_account_id out.
func (repo *identityRepository) UpsertPending(ctx context.Context, provider entity.ProviderType, externalID string, token *entity.ProviderToken) (*entity.ProviderIdentity, error) {
	identity := &entity.ProviderIdentity{
		ID:         uuid.New(),
		Provider:   provider,
		ExternalID: externalID,
	}
	identity.ApplyToken(token)
	identityM := fromIdentityDomain(identity)

	var stored *model.ProviderIdentityModel
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "provider"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"access_token", "refresh_token", "token_expires_at", "updated_at",
			}),
		}).Create(identityM)
		if result.Error != nil {
			return domainerrors.NewDatabaseExecuteError(result.Error, "failed to upsert pending identity")
		}

		var err error
		stored, err = repo.findModel(tx, provider, externalID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return toIdentityDomain(stored), nil
}

// Promote creates the account and links it in one transaction.
// The conditional UPDATE is the serialization point: a concurrent promotion that
// committed first leaves zero matching rows and this call rolls back.
func (repo *identityRepository) Promote(ctx context.Context, provider entity.ProviderType, externalID string, account *entity.LocalAccount) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		identityM, err := repo.findModel(tx.Clauses(dbresolver.Write), provider, externalID)
		if err != nil {
			if errors.Is(err, repository.ErrIdentityNotFound) {
				return repository.ErrIdentityNotPending
			}

			return err
		}
		if identityM.LinkedAccountID != nil {
			return repository.ErrIdentityNotPending
		}

		if account.ID == uuid.Nil {
			account.ID = uuid.New()
		}
		accountM := fromAccountDomain(account)
		if err := tx.Create(accountM).Error; err != nil {
			if isUniqueConstraintViolation(err) {
				return errors.Wrap(domainerrors.ErrRegistrationFailed, "account id collision")
			}

			return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
		}

		result := tx.Model(&model.ProviderIdentityModel{}).
			Where("id = ? AND linked_account_id IS NULL", identityM.ID).
			Updates(map[string]any{
				"linked_account_id": accountM.ID,
				"updated_at":        time.Now(),
			})
		if result.Error != nil {
			return domainerrors.NewDatabaseExecuteError(result.Error, "failed to link identity")
		}
		if result.RowsAffected == 0 {
			return repository.ErrIdentityNotPending
		}

		account.CreatedAt = accountM.CreatedAt
		account.UpdatedAt = accountM.UpdatedAt

		return nil
	})
}

// RefreshTokens is scoped to the one linked identity; pending rows are left alone.
func (repo *identityRepository) RefreshTokens(ctx context.Context, provider entity.ProviderType, externalID string, token *entity.ProviderToken) error {
	var identity entity.ProviderIdentity
	identity.ApplyToken(token)
	updates := map[string]any{
		"access_token":     identity.AccessToken,
		"refresh_token":    identity.RefreshToken,
		"token_expires_at": nullableTime(identity.TokenExpiresAt),
		"updated_at":       time.Now(),
	}

	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.ProviderIdentityModel{}).
			Where("provider = ? AND external_id = ? AND linked_account_id IS NOT NULL", provider.String(), externalID).
			Updates(updates)
		if result.Error != nil {
			return domainerrors.NewDatabaseExecuteError(result.Error, "failed to refresh identity tokens")
		}
		if result.RowsAffected == 0 {
			return repository.ErrIdentityNotFound
		}

		return nil
	})
}

func (repo *identityRepository) findModel(db *gorm.DB, provider entity.ProviderType, externalID string) (*model.ProviderIdentityModel, error) {
	var identityM model.ProviderIdentityModel
	err := db.Where("provider = ? AND external_id = ?", provider.String(), externalID).First(&identityM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrIdentityNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find identity")
	}

	return &identityM, nil
}

func toIdentityDomain(data *model.ProviderIdentityModel) *entity.ProviderIdentity {
	if data == nil {
		return nil
	}

	identity := &entity.ProviderIdentity{
		ID:              data.ID,
		Provider:        entity.ProviderType(data.Provider),
		ExternalID:      data.ExternalID,
		AccessToken:     data.AccessToken,
		RefreshToken:    data.RefreshToken,
		LinkedAccountID: data.LinkedAccountID,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
	if data.TokenExpiresAt != nil {
		identity.TokenExpiresAt = *data.TokenExpiresAt
	}

	return identity
}

func fromIdentityDomain(data *entity.ProviderIdentity) *model.ProviderIdentityModel {
	if data == nil {
		return nil
	}

	return &model.ProviderIdentityModel{
		ID:              data.ID,
		Provider:        data.Provider.String(),
		ExternalID:      data.ExternalID,
		AccessToken:     data.AccessToken,
		RefreshToken:    data.RefreshToken,
		TokenExpiresAt:  nullableTime(data.TokenExpiresAt),
		LinkedAccountID: data.LinkedAccountID,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}
