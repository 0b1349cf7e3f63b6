package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"expense_tracker/internal/session"    // Session errors
	"expense_tracker/internal/store"      // Store errors
	"expense_tracker/internal/validation" // Validation errors

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`           // Human readable message
	Field string `json:"field,omitempty"` // Offending input field, for validation errors
}

// respondError maps a session, validation or store error onto a status code
func respondError(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, session.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
	case errors.Is(err, session.ErrUsernameTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Username already exists"})
	case errors.Is(err, session.ErrNoActiveSession):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "No active session"})
	case errors.Is(err, session.ErrAmountRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Amount is required", Field: "amount"})
	case errors.Is(err, store.ErrUnavailable):
		logrus.WithError(err).Error("Storage unavailable") // Log the backend failure
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Storage unavailable"})
	default:
		logrus.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
	}
}

// badRequest reports a body that could not be bound
func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
}
