// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"repair_portal_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error response format. Every failure body
// carries ok=false and a stable error string.
type ErrorResponse struct {
	OK     bool        `json:"ok"`
	Error  string      `json:"error"`
	Issues interface{} `json:"issues,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, issues interface{}) {
	c.JSON(status, ErrorResponse{OK: false, Error: message, Issues: issues})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// HandleError maps domain errors to HTTP responses.
// Typed *apperr.Error values anywhere in the chain choose the status from
// their Kind and the body text from their Code (falling back to Message).
// Untyped errors become a 500 with a generic message so internals never leak.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := apperr.As(err); ok {
		Error(c, domainErr.HTTPStatus(), domainErr.PublicMessage(), domainErr.Details)
		return true
	}

	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", nil)
	return true
}
