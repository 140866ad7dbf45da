package types

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/thanulingayath/reception-agent/pkg/errors"
)

// ErrorResponse is the standard error body returned by all handlers
type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// NewErrorResponse builds an error body with just a message
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Message: message,
	}
}

// RespondError writes err as JSON using the application error taxonomy to
// pick the status code. Unclassified errors become a plain 500.
func RespondError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := apperrors.GetHTTPCode(err)

	message := "Internal server error"
	if appErr, ok := err.(*apperrors.AppError); ok {
		message = appErr.Message
	}

	c.JSON(status, ErrorResponse{
		Status:  "error",
		Code:    string(code),
		Message: message,
	})
}
