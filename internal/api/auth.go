package api

import (
	"net/http" // HTTP status codes
	"time"     // Token issue time

	"expense_tracker/internal/middleware" // Context keys
	"expense_tracker/internal/session"    // Session layer
	"expense_tracker/internal/utils"      // Utility functions
	"expense_tracker/internal/validation" // Form rules

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request and Response structs
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"` // Username must be provided
	Password        string `json:"password" binding:"required"` // Password must be provided
	ConfirmPassword string `json:"confirm_password"`            // Must repeat the password
}

// Request struct for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for authentication
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// SessionResponse describes the active session
type SessionResponse struct {
	Username   string `json:"username"`    // Logged-in user
	HasProfile bool   `json:"has_profile"` // Whether onboarding is complete
}

// RegisterHandler creates a credential, logs the new user in and returns a token
func RegisterHandler(sess *session.Session, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c) // If binding fails, return bad request
			return
		}
		// Validate username, password and confirmation
		if err := validation.Registration(req.Username, req.Password, req.ConfirmPassword); err != nil {
			respondError(c, err)
			return
		}
		if err := sess.Register(c.Request.Context(), req.Username, req.Password); err != nil {
			respondError(c, err) // Duplicate username or storage failure
			return
		}
		issueToken(c, http.StatusCreated, req.Username, jwtSecret)
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(sess *session.Session, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c) // If binding fails, return bad request
			return
		}
		if err := sess.Login(c.Request.Context(), req.Username, req.Password); err != nil {
			respondError(c, err)
			return
		}
		issueToken(c, http.StatusOK, req.Username, jwtSecret)
	}
}

// LogoutHandler ends the active session
func LogoutHandler(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := caller(c, sess).Logout(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// SessionHandler reports who is logged in
func SessionHandler(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := caller(c, sess).Snapshot()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, SessionResponse{Username: st.Username, HasProfile: st.Profile != nil})
	}
}

// caller scopes the session to the token's user, so a login by someone else
// between the middleware and the handler is reported as no active session
func caller(c *gin.Context, sess *session.Session) session.UserView {
	return sess.As(middleware.TokenUser(c))
}

func issueToken(c *gin.Context, status int, username, jwtSecret string) {
	token, err := utils.GenerateJWT(username, jwtSecret, time.Now()) // Generate JWT token
	if err != nil {
		// If token generation fails, return internal server error
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}
	c.JSON(status, AuthResponse{Token: token}) // Return the token in the response
}
