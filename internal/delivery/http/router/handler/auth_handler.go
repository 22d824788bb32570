// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"authflow/config"
	deliverycontext "authflow/internal/delivery/context"
	"authflow/internal/delivery/http/middleware"
	"authflow/internal/delivery/http/response"
	"authflow/internal/domain/entity"
	domainerrors "authflow/internal/domain/errors"
	"authflow/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler exposes the provider sign-in flow over HTTP.
type AuthHandler struct {
	oauth        usecase.OAuthUsecase
	registration usecase.RegistrationUsecase
	sessions     usecase.SessionUsecase
	cfg          *config.AuthConfig
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(oauth usecase.OAuthUsecase, registration usecase.RegistrationUsecase, sessions usecase.SessionUsecase, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		oauth:        oauth,
		registration: registration,
		sessions:     sessions,
		cfg:          cfg.Auth,
	}
}

type startLoginRequest struct {
	Provider string `param:"provider"`
	Redirect bool   `query:"redirect"`
}

type callbackRequest struct {
	Provider      string `param:"provider" json:"-"`
	QueryProvider string `query:"provider" json:"provider"`
	Code          string `query:"code" json:"code"`
	State         string `query:"state" json:"state"`
}

type completeRegistrationRequest struct {
	ExternalID string `json:"id"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Country    string `json:"country"`
	Province   string `json:"province"`
	City       string `json:"city"`
	District   string `json:"district"`
	Password   string `json:"password"`
}

// StartLogin answers with the provider consent URL, or redirects to it when ?redirect=true.
func (h *AuthHandler) StartLogin(c echo.Context) error {
	var req startLoginRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrBadRequest.WrapMessage(err.Error())
	}

	output, err := h.oauth.StartLogin(c.Request().Context(), &usecase.StartLoginInput{Provider: req.Provider})
	if err != nil {
		return errors.WithStack(err)
	}

	if req.Redirect {
		return c.Redirect(http.StatusTemporaryRedirect, output.AuthorizationURL)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"oauth_url": output.AuthorizationURL,
		"provider":  output.Provider.String(),
	})
}

// Callback handles the provider redirect. A linked identity is signed in with a JSON
// envelope, a new one is sent to the completion form.
func (h *AuthHandler) Callback(c echo.Context) error {
	var req callbackRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrBadRequest.WrapMessage(err.Error())
	}

	provider := req.Provider
	if provider == "" {
		provider = req.QueryProvider
	}

	output, err := h.oauth.HandleCallback(c.Request().Context(), &usecase.CallbackInput{
		Provider: provider,
		Code:     req.Code,
		State:    req.State,
		OriginIP: deliverycontext.OriginIP(c),
	})
	if errors.Is(err, domainerrors.ErrRegistrationStartFailed) {
		return c.Redirect(http.StatusFound, h.cfg.ErrorRedirect)
	}
	if err != nil {
		return errors.WithStack(err)
	}

	if output.Outcome == usecase.OutcomeAwaitingCompletion {
		return c.Redirect(http.StatusFound, h.completionURL(output.Profile))
	}

	return h.signedIn(c, output.Session)
}

// CompleteRegistration finishes a pending registration and signs the new account in.
func (h *AuthHandler) CompleteRegistration(c echo.Context) error {
	var req completeRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrBadRequest.WrapMessage(err.Error())
	}

	session, err := h.registration.CompleteRegistration(c.Request().Context(), &usecase.CompleteRegistrationInput{
		Provider: c.Param("provider"),
		Registration: entity.AccountRegistration{
			ExternalID: req.ExternalID,
			FirstName:  req.FirstName,
			MiddleName: req.MiddleName,
			LastName:   req.LastName,
			Email:      req.Email,
			Phone:      req.Phone,
			Country:    req.Country,
			Province:   req.Province,
			City:       req.City,
			District:   req.District,
			Password:   req.Password,
			OriginIP:   deliverycontext.OriginIP(c),
		},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.signedIn(c, session)
}

// SignOut drops the stored session and expires the challenge cookie.
func (h *AuthHandler) SignOut(c echo.Context) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	if err := h.sessions.SignOut(c.Request().Context(), claims.AccountID); err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cfg.ChallengeCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !h.cfg.InsecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	return response.Success(c, http.StatusOK, map[string]string{"account_id": claims.AccountID.String()})
}

// signedIn sets the challenge cookie and returns the bearer tokens in the body.
func (h *AuthHandler) signedIn(c echo.Context, session *entity.Session) error {
	c.SetCookie(&http.Cookie{
		Name:     h.cfg.ChallengeCookie,
		Value:    session.Challenge,
		Path:     "/",
		MaxAge:   h.cfg.ChallengeMaxAge,
		Expires:  time.Now().Add(time.Duration(h.cfg.ChallengeMaxAge) * time.Second),
		HttpOnly: true,
		Secure:   !h.cfg.InsecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	return response.Success(c, http.StatusOK, &response.TokenData{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	})
}

// completionURL carries the provider profile to the completion form. Absent fields are omitted.
func (h *AuthHandler) completionURL(profile *entity.ProviderProfile) string {
	params := url.Values{}
	for _, field := range []struct{ key, value string }{
		{"id", profile.ExternalID},
		{"first_name", profile.FirstName},
		{"middle_name", profile.MiddleName},
		{"last_name", profile.LastName},
		{"email", profile.Email},
		{"phone", profile.Phone},
		{"country", profile.Country},
		{"province", profile.Province},
		{"city", profile.City},
		{"district", profile.District},
	} {
		if value := strings.TrimSpace(field.value); value != "" {
			params.Set(field.key, value)
		}
	}

	return h.cfg.CompletionPath + "?" + params.Encode()
}
