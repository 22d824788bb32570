// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "authflow/internal/delivery/context"
	"authflow/internal/domain/entity"
	"authflow/internal/domain/repository"
	"authflow/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// sessionRecorder issues sessions and stores their refresh credential.
// Both the login branch and registration completion go through it.
type sessionRecorder struct {
	tokenService service.TokenService
	publisher    service.EventPublisher
}

// issue mints a session. It performs no I/O, so it can run before the transaction opens.
func (r *sessionRecorder) issue(accountID uuid.UUID, scope entity.Scope, originIP string) (*entity.Session, error) {
	session, err := r.tokenService.Issue(accountID, scope)
	if err != nil {
		return nil, errors.Wrap(err, "issue session")
	}
	session.OriginIP = originIP

	return session, nil
}

// persist overwrites the account's login token row inside the caller's transaction.
func (r *sessionRecorder) persist(ctx context.Context, repo repository.LoginTokenRepository, session *entity.Session, provider entity.ProviderType, externalID string) error {
	err := repo.Save(ctx, &entity.LoginToken{
		AccountID:  session.AccountID,
		Provider:   provider,
		ExternalID: externalID,
		TokenHash:  r.tokenService.HashToken(session.RefreshToken),
		OriginIP:   session.OriginIP,
		ExpiresAt:  session.RefreshExpiresAt,
	})

	return errors.Wrap(err, "persist login token")
}

// publish sends an account event after commit. Failures never change the outcome.
func (r *sessionRecorder) publish(ctx context.Context, logger *slog.Logger, eventType service.AuthEventType, session *entity.Session, provider entity.ProviderType, externalID string) {
	if r.publisher == nil {
		return
	}

	event := &service.AuthEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       eventType,
		AccountID:  session.AccountID.String(),
		Provider:   provider.String(),
		ExternalID: externalID,
		OriginIP:   session.OriginIP,
		OccurredAt: time.Now().UTC(),
	}
	if err := r.publisher.PublishAuthEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish auth event",
			slog.String("event", string(eventType)),
			slog.String("account_id", event.AccountID),
			slog.Any("error", err),
		)
	}
}
