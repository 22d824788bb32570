package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'users' table.
type AccountModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName    string    `gorm:"type:varchar(50);not null"`
	MiddleName   string    `gorm:"type:varchar(50)"`
	LastName     string    `gorm:"type:varchar(50);not null"`
	Email        string    `gorm:"type:varchar(255);index"`
	Telephone    string    `gorm:"type:varchar(32)"`
	Country      string    `gorm:"type:varchar(100)"`
	Province     string    `gorm:"type:varchar(100)"`
	City         string    `gorm:"type:varchar(100)"`
	District     string    `gorm:"type:varchar(100)"`
	PasswordHash string    `gorm:"type:varchar(255)"`
	Scope        string    `gorm:"type:varchar(20);not null;default:'owner'"`
	Verified     bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "users"
}
