// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"authflow/internal/domain/entity"
	"authflow/internal/domain/service"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// StartLoginInput selects the provider whose consent page the user is sent to.
type StartLoginInput struct {
	Provider string
}

// CallbackInput is what the provider redirect carries back.
// Provider may be empty, in which case it is derived from the State prefix.
type CallbackInput struct {
	Provider string
	Code     string
	State    string
	OriginIP string
}

// CompleteRegistrationInput is the completion form submitted for a pending identity.
type CompleteRegistrationInput struct {
	Provider     string
	Registration entity.AccountRegistration
}

// VerifyInput carries the bearer access token and the challenge cookie value.
type VerifyInput struct {
	AccessToken string
	Challenge   string
}

// --- Output DTOs ---

// StartLoginOutput holds the consent page URL and the state embedded in it.
type StartLoginOutput struct {
	Provider         entity.ProviderType
	State            string
	AuthorizationURL string
}

// CallbackOutcome tells the delivery layer which branch the callback took.
type CallbackOutcome string

const (
	// OutcomeLoggedIn means a linked identity signed in and Session is set.
	OutcomeLoggedIn CallbackOutcome = "logged_in"
	// OutcomeAwaitingCompletion means a pending identity was stored and Profile is set.
	OutcomeAwaitingCompletion CallbackOutcome = "awaiting_completion"
)

// CallbackOutput is the result of a successful callback.
type CallbackOutput struct {
	Outcome CallbackOutcome
	Session *entity.Session
	Profile *entity.ProviderProfile
}

// OAuthUsecase drives the provider sign-in protocol.
type OAuthUsecase interface {
	// StartLogin returns the authorization URL of the provider.
	StartLogin(ctx context.Context, input *StartLoginInput) (*StartLoginOutput, error)

	// HandleCallback exchanges the code, fetches the profile and either signs the
	// linked account in or records a pending identity awaiting completion.
	HandleCallback(ctx context.Context, input *CallbackInput) (*CallbackOutput, error)
}

// RegistrationUsecase finishes the second phase of a registration.
type RegistrationUsecase interface {
	// CompleteRegistration validates the form, promotes the pending identity and signs the new account in.
	CompleteRegistration(ctx context.Context, input *CompleteRegistrationInput) (*entity.Session, error)
}

// SessionUsecase checks and ends sessions issued by this service.
type SessionUsecase interface {
	VerifyAccess(ctx context.Context, input *VerifyInput) (*service.Claims, error)

	// SignOut drops the stored session of the account. Signing out twice is not an error.
	SignOut(ctx context.Context, accountID uuid.UUID) error
}
