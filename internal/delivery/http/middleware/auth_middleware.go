package middleware

import (
	"strings"

	"authflow/config"
	domainerrors "authflow/internal/domain/errors"
	"authflow/internal/domain/service"
	"authflow/internal/usecase"

	"github.com/labstack/echo/v4"
)

const claimsContextKey = "claims"

// AuthMiddleware admits requests that carry an access token together with its challenge cookie.
type AuthMiddleware struct {
	sessions   usecase.SessionUsecase
	cookieName string
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(sessions usecase.SessionUsecase, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		cookieName: cfg.Auth.ChallengeCookie,
	}
}

// Authenticate validates the bearer token and stores its claims on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return domainerrors.ErrUnauthorized
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			return domainerrors.ErrUnauthorized.WithDetails("must be a Bearer token")
		}

		var challenge string
		if cookie, err := c.Cookie(m.cookieName); err == nil {
			challenge = cookie.Value
		}

		claims, err := m.sessions.VerifyAccess(c.Request().Context(), &usecase.VerifyInput{
			AccessToken: tokenString,
			Challenge:   challenge,
		})
		if err != nil {
			return err
		}

		c.Set(claimsContextKey, claims)

		return next(c)
	}
}

// GetClaims returns the claims stored by Authenticate.
func GetClaims(c echo.Context) (*service.Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*service.Claims)

	return claims, ok
}

