package model

import (
	"time"

	"github.com/google/uuid"
)

// ProviderIdentityModel mirrors the 'auth_providers' table.
// A NULL linked_account_id marks a pending registration.
type ProviderIdentityModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Provider        string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_auth_providers_provider_external_id"`
	ExternalID      string     `gorm:"column:external_id;type:varchar(255);not null;uniqueIndex:idx_auth_providers_provider_external_id"`
	AccessToken     string     `gorm:"type:text;not null"`
	RefreshToken    string     `gorm:"type:text;not null;default:''"`
	TokenExpiresAt  *time.Time `gorm:"column:token_expires_at"`
	LinkedAccountID *uuid.UUID `gorm:"column:linked_account_id;type:uuid;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProviderIdentityModel) TableName() string {
	return "auth_providers"
}
