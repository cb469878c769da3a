// Package handlers provides HTTP handlers for API endpoints.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kuesioner-tools/survey_backend/internal/models"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respondError maps a service error to an HTTP status and writes the response.
// #IMPLEMENTATION_DECISION: One mapping for every handler keeps status codes consistent
func respondError(c *gin.Context, err error) {
	switch {
	case models.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: err.Error()})
	case models.IsValidationError(err):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation_failed", Message: err.Error()})
	case models.IsConflictError(err):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict", Message: err.Error()})
	case models.IsSessionError(err):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "session_invalid", Message: err.Error()})
	case models.IsOwnershipError(err):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "An unexpected error occurred"})
	}
}
