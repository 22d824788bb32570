package middleware

import (
	"log/slog"
	"net/http"

	"authflow/config"
	deliverycontext "authflow/internal/delivery/context"
	"authflow/internal/delivery/http/response"
	domainerrors "authflow/internal/domain/errors"
	"authflow/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger       *slog.Logger
	legacyStatus bool
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger, cfg *config.Config) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger:       logger,
		legacyStatus: cfg.HTTP.LegacyStatus,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if validationErr, ok := errors.AsType[*domainerrors.ValidationError](err); ok {
		_ = response.ValidationFailed(c, m.status(validationErr.HTTPCode()), validationErr.Message(), validationErr.Fields())

		return
	}

	// AppError messages are written for end users; wrapped causes stay in the logs.
	if appErr, ok := errors.AsType[domainerrors.AppError](err); ok {
		_ = response.Error(c, m.status(appErr.HTTPCode()), appErr.ErrorCode(), appErr.Message())

		return
	}

	if httpErr, ok := errors.AsType[*echo.HTTPError](err); ok {
		// Unmatched routes answer like any other missing resource.
		if httpErr.Code == http.StatusNotFound {
			_ = response.Error(c, http.StatusNotFound, domainerrors.ErrNotFound.ErrorCode(), domainerrors.ErrNotFound.Message())

			return
		}

		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}

		_ = response.Error(c, m.status(httpErr.Code), "HTTP_ERROR", message)

		return
	}

	deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	_ = response.Error(c, m.status(http.StatusInternalServerError), "INTERNAL_ERROR", "Internal server error, please try again later")
}

// status maps an outcome to the response code. In legacy mode every outcome
// except not-found is answered with 200 and only the envelope tells them apart.
func (m *ErrorMiddleware) status(code int) int {
	if !m.legacyStatus || code == http.StatusNotFound {
		return code
	}

	return http.StatusOK
}
