package model

import (
	"time"

	"github.com/google/uuid"
)

// LoginTokenModel mirrors the 'login_tokens' table: one row per account.
type LoginTokenModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID  uuid.UUID `gorm:"column:account_id;type:uuid;not null;uniqueIndex"`
	Provider   string    `gorm:"type:varchar(20);not null"`
	ExternalID string    `gorm:"column:external_id;type:varchar(255);not null"`
	TokenHash  string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	IPAddress  string    `gorm:"column:ip_address;type:varchar(64)"`
	ExpiresAt  time.Time `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (LoginTokenModel) TableName() string {
	return "login_tokens"
}

// All returns every model, in migration order.
func All() []any {
	return []any{&AccountModel{}, &ProviderIdentityModel{}, &LoginTokenModel{}}
}
