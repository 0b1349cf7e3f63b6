package api

import (
	"net/http" // HTTP status codes

	"expense_tracker/internal/domain"     // Domain models
	"expense_tracker/internal/session"    // Session layer
	"expense_tracker/internal/validation" // Form rules

	"github.com/gin-gonic/gin" // Gin web framework
)

// ProfileRequest is the onboarding form
type ProfileRequest struct {
	FullName       string                `json:"fullName" binding:"required"` // Display name
	BirthYear      int                   `json:"birthYear"`                   // Year of birth
	MonthlyIncome  float64               `json:"monthlyIncome"`               // Income per month
	EducationLevel domain.EducationLevel `json:"educationLevel"`              // Education level
}

// GetProfileHandler returns the session user's profile
func GetProfileHandler(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := caller(c, sess).Snapshot()
		if err != nil {
			respondError(c, err)
			return
		}
		p := st.Profile
		if p == nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Profile not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// SaveProfileHandler replaces the session user's profile
func SaveProfileHandler(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProfileRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		p := domain.Profile(req)
		if err := validation.Profile(p); err != nil {
			respondError(c, err)
			return
		}
		if err := caller(c, sess).SaveProfile(c.Request.Context(), p); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
