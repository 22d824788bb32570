package postgres

import (
	"context"

	"authflow/internal/domain/entity"
	domainerrors "authflow/internal/domain/errors"
	"authflow/internal/domain/repository"
	"authflow/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loginTokenRepository implements repository.LoginTokenRepository.
type loginTokenRepository struct {
	db *gorm.DB
}

// NewLoginTokenRepository is the constructor for loginTokenRepository.
func NewLoginTokenRepository(db *gorm.DB) repository.LoginTokenRepository {
	return &loginTokenRepository{db: db}
}

// Save upserts on account_id so each account keeps a single session row.
func (repo *loginTokenRepository) Save(ctx context.Context, token *entity.LoginToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	tokenM := fromLoginTokenDomain(token)

	err := repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"provider", "external_id", "token_hash", "ip_address", "expires_at", "updated_at",
		}),
	}).Create(tokenM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(repository.ErrAccountNotFound, "login token for unknown account")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to save login token")
	}

	return nil
}

// FindByAccountID returns the session row of an account.
func (repo *loginTokenRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*entity.LoginToken, error) {
	return repo.first(repo.db.WithContext(ctx).Where("account_id = ?", accountID))
}

// DeleteByAccountID removes the session row of an account.
func (repo *loginTokenRepository) DeleteByAccountID(ctx context.Context, accountID uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&model.LoginTokenModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete login token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrLoginTokenNotFound
	}

	return nil
}

func (repo *loginTokenRepository) first(query *gorm.DB) (*entity.LoginToken, error) {
	var tokenM model.LoginTokenModel
	if err := query.First(&tokenM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLoginTokenNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find login token")
	}

	return toLoginTokenDomain(&tokenM), nil
}

func toLoginTokenDomain(data *model.LoginTokenModel) *entity.LoginToken {
	return &entity.LoginToken{
		ID:         data.ID,
		AccountID:  data.AccountID,
		Provider:   entity.ProviderType(data.Provider),
		ExternalID: data.ExternalID,
		TokenHash:  data.TokenHash,
		OriginIP:   data.IPAddress,
		ExpiresAt:  data.ExpiresAt,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

func fromLoginTokenDomain(data *entity.LoginToken) *model.LoginTokenModel {
	return &model.LoginTokenModel{
		ID:         data.ID,
		AccountID:  data.AccountID,
		Provider:   data.Provider.String(),
		ExternalID: data.ExternalID,
		TokenHash:  data.TokenHash,
		IPAddress:  data.OriginIP,
		ExpiresAt:  data.ExpiresAt,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
