package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/seoan1210/seoan-server/internal/utils/platformerrors"
)

// ErrorBody is the envelope every error response carries.
type ErrorBody struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse wraps the error body for JSON rendering.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// HandleError maps a domain error onto an HTTP status and renders the
// error envelope. PlatformError types carry their own status mapping;
// anything else is treated as internal.
func HandleError(c *gin.Context, logger zerolog.Logger, err error) {
	var platformErr *platformerrors.PlatformError
	if !errors.As(err, &platformErr) {
		platformErr = platformerrors.AsError(c.Request.Context(), platformerrors.LayerHandler, err, err.Error())
	}
	platformerrors.LogError(logger, platformErr)

	status := platformerrors.ErrorTypeToHTTPStatus(platformErr.Type)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{
		Message:   platformErr.Message,
		Type:      string(platformErr.Type),
		RequestID: platformErr.RequestID,
	}})
}

// HandleErrorWithStatus renders an error envelope with an explicit status.
func HandleErrorWithStatus(c *gin.Context, status int, err error, message string) {
	if message == "" && err != nil {
		message = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{
		Message: message,
		Type:    http.StatusText(status),
	}})
}
