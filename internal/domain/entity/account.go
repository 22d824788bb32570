package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalAccount is the first-party user record created when a pending identity is promoted.
type LocalAccount struct {
	ID           uuid.UUID
	FirstName    string
	MiddleName   string
	LastName     string
	Email        string
	Phone        string
	Country      string
	Province     string
	City         string
	District     string
	PasswordHash string
	Scope        Scope
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountRegistration is the completed profile submitted to finish a pending registration.
type AccountRegistration struct {
	Provider   ProviderType
	ExternalID string
	FirstName  string
	MiddleName string
	LastName   string
	Email      string
	Phone      string
	Country    string
	Province   string
	City       string
	District   string
	Password   string
	OriginIP   string
}

// Normalized returns a copy with surrounding whitespace removed from every field but the password.
func (r AccountRegistration) Normalized() AccountRegistration {
	for _, field := range []*string{
		&r.ExternalID, &r.FirstName, &r.MiddleName, &r.LastName, &r.Email,
		&r.Phone, &r.Country, &r.Province, &r.City, &r.District,
	} {
		*field = strings.TrimSpace(*field)
	}

	return r
}
