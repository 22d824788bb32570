package handler

import (
	"net/http"

	"authflow/internal/delivery/http/middleware"
	"authflow/internal/delivery/http/response"
	domainerrors "authflow/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// VerifyToken returns the claims of a token admitted by the auth middleware.
func VerifyToken(c echo.Context) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	data := map[string]any{
		"account_id": claims.AccountID.String(),
		"scope":      claims.Scope.String(),
	}
	if claims.ExpiresAt != nil {
		data["expires_at"] = claims.ExpiresAt.Time.UTC()
	}

	return response.Success(c, http.StatusOK, data)
}
