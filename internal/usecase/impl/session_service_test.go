package impl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authflow/internal/domain/entity"
	domainerrors "authflow/internal/domain/errors"
	"authflow/internal/infra/persistence/model"
	"authflow/internal/infra/persistence/postgres"
	"authflow/internal/testutil"
	"authflow/internal/usecase"
)

func TestSessionService_VerifyAccess(t *testing.T) {
	f := newFixture(t)
	srv := NewSessionService(SessionServiceParams{
		TokenService: f.tokenService,
		AccountRepo:  postgres.NewAccountRepository(f.db),
		LoginRepo:    postgres.NewLoginTokenRepository(f.db),
		Logger:       f.logger,
	})

	session := f.register(t, "g-verify")

	orphan, err := f.tokenService.Issue(uuid.New(), entity.ScopeOwner)
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   *usecase.VerifyInput
		wantErr error
	}{
		{
			name:  "matching challenge",
			input: &usecase.VerifyInput{AccessToken: session.AccessToken, Challenge: session.Challenge},
		},
		{
			name:    "missing token",
			input:   &usecase.VerifyInput{Challenge: session.Challenge},
			wantErr: domainerrors.ErrUnauthorized,
		},
		{
			name:    "refresh token used as access token",
			input:   &usecase.VerifyInput{AccessToken: session.RefreshToken, Challenge: session.Challenge},
			wantErr: domainerrors.ErrTokenInvalid,
		},
		{
			name:    "wrong challenge",
			input:   &usecase.VerifyInput{AccessToken: session.AccessToken, Challenge: "stolen"},
			wantErr: domainerrors.ErrChallengeMismatch,
		},
		{
			name:    "account does not exist",
			input:   &usecase.VerifyInput{AccessToken: orphan.AccessToken, Challenge: orphan.Challenge},
			wantErr: domainerrors.ErrTokenInvalid,
		},
		{
			name:    "missing challenge",
			input:   &usecase.VerifyInput{AccessToken: session.AccessToken},
			wantErr: domainerrors.ErrChallengeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := srv.VerifyAccess(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, session.AccountID, claims.AccountID)
			assert.Equal(t, entity.ScopeOwner, claims.Scope)
		})
	}
}

func TestSessionService_VerifyAccess_ExpiredSession(t *testing.T) {
	f := newFixture(t)
	srv := NewSessionService(SessionServiceParams{
		TokenService: f.tokenService,
		AccountRepo:  postgres.NewAccountRepository(f.db),
		LoginRepo:    postgres.NewLoginTokenRepository(f.db),
		Logger:       f.logger,
	}).(*sessionService)

	session := f.register(t, "g-expired")
	srv.now = func() time.Time { return session.RefreshExpiresAt.Add(time.Second) }

	_, err := srv.VerifyAccess(context.Background(), &usecase.VerifyInput{AccessToken: session.AccessToken, Challenge: session.Challenge})
	assert.ErrorIs(t, err, domainerrors.ErrTokenInvalid)
}

func TestSessionService_SignOut(t *testing.T) {
	f := newFixture(t)
	srv := NewSessionService(SessionServiceParams{
		TokenService: f.tokenService,
		AccountRepo:  postgres.NewAccountRepository(f.db),
		LoginRepo:    postgres.NewLoginTokenRepository(f.db),
		Logger:       f.logger,
	})

	session := f.register(t, "g-signout")
	require.EqualValues(t, 1, testutil.Count(t, f.db, &model.LoginTokenModel{}))
	verify := &usecase.VerifyInput{AccessToken: session.AccessToken, Challenge: session.Challenge}
	_, err := srv.VerifyAccess(context.Background(), verify)
	require.NoError(t, err)

	require.NoError(t, srv.SignOut(context.Background(), session.AccountID))
	assert.Zero(t, testutil.Count(t, f.db, &model.LoginTokenModel{}))

	_, err = srv.VerifyAccess(context.Background(), verify)
	assert.ErrorIs(t, err, domainerrors.ErrTokenInvalid, "signing out ends the access token")

	assert.NoError(t, srv.SignOut(context.Background(), session.AccountID), "signing out twice is fine")
}
