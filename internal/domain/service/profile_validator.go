package service

import "authflow/internal/domain/entity"

// ProfileValidator checks a completion payload before any mutation happens.
// A non-nil result maps request field names to user-facing messages.
type ProfileValidator interface {
	ValidateRegistration(reg *entity.AccountRegistration) map[string]string
}
