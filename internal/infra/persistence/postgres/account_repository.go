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
)

// accountRepository implements repository.AccountRepository.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByID retrieves an account by its unique ID.
func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.LocalAccount, error) {
	return repo.first(repo.db.WithContext(ctx).Where("id = ?", id))
}

func (repo *accountRepository) first(query *gorm.DB) (*entity.LocalAccount, error) {
	var accountM model.AccountModel
	if err := query.First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find account")
	}

	return toAccountDomain(&accountM), nil
}

func toAccountDomain(data *model.AccountModel) *entity.LocalAccount {
	if data == nil {
		return nil
	}

	return &entity.LocalAccount{
		ID:           data.ID,
		FirstName:    data.FirstName,
		MiddleName:   data.MiddleName,
		LastName:     data.LastName,
		Email:        data.Email,
		Phone:        data.Telephone,
		Country:      data.Country,
		Province:     data.Province,
		City:         data.City,
		District:     data.District,
		PasswordHash: data.PasswordHash,
		Scope:        entity.Scope(data.Scope),
		Verified:     data.Verified,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromAccountDomain(data *entity.LocalAccount) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		ID:           data.ID,
		FirstName:    data.FirstName,
		MiddleName:   data.MiddleName,
		LastName:     data.LastName,
		Email:        data.Email,
		Telephone:    data.Phone,
		Country:      data.Country,
		Province:     data.Province,
		City:         data.City,
		District:     data.District,
		PasswordHash: data.PasswordHash,
		Scope:        data.Scope.String(),
		Verified:     data.Verified,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
