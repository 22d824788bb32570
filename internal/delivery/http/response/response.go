// Package response renders the uniform status envelope every endpoint answers with.
package response

import (
	"net/http"

	deliverycontext "authflow/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the body of every JSON response. Clients branch on Status alone.
type Envelope struct {
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data,omitempty"`
	Meta    *MetaInfo `json:"meta,omitempty"`
}

// ErrorData is the data member of an error envelope.
type ErrorData struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID string `json:"request_id"` // Request tracking ID
}

// TokenData is returned whenever a session was issued.
type TokenData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Success returns a successful response
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, Envelope{
		Status: StatusSuccess,
		Data:   data,
		Meta:   meta(c),
	})
}

// Error returns an error response. The message is repeated inside data for
// clients that only read the data member.
func Error(c echo.Context, statusCode int, errorCode string, message string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, Envelope{
		Status:  StatusError,
		Message: message,
		Data: &ErrorData{
			Message: message,
			Code:    errorCode,
		},
		Meta: meta(c),
	})
}

// ValidationFailed returns an error response whose data is the field -> message map.
func ValidationFailed(c echo.Context, statusCode int, message string, fields map[string]string) error {
	return c.JSON(statusCode, Envelope{
		Status:  StatusError,
		Message: message,
		Data:    fields,
		Meta:    meta(c),
	})
}

func meta(c echo.Context) *MetaInfo {
	return &MetaInfo{RequestID: deliverycontext.GetRequestID(c)}
}
