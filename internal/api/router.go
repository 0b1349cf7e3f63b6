package api

import (
	"time" // Clock for the dashboard

	"expense_tracker/internal/middleware" // Custom package for middleware
	"expense_tracker/internal/session"    // Session layer

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRoutes wires every endpoint onto r
func RegisterRoutes(r *gin.Engine, sess *session.Session, jwtSecret string) {
	// Auth routes
	r.POST("/user", RegisterHandler(sess, jwtSecret))    // Registration endpoint
	r.POST("/user/login", LoginHandler(sess, jwtSecret)) // Login endpoint

	// Protected routes (JWT plus active session)
	auth := r.Group("")
	auth.Use(middleware.SessionAuth(jwtSecret, sess))
	auth.GET("/session", SessionHandler(sess))               // Current session endpoint
	auth.DELETE("/session", LogoutHandler(sess))             // Logout endpoint
	auth.GET("/profile", GetProfileHandler(sess))            // Get profile endpoint
	auth.PUT("/profile", SaveProfileHandler(sess))           // Save profile endpoint
	auth.GET("/expenses", ListExpensesHandler(sess))         // List expenses endpoint
	auth.POST("/expenses", AddExpenseHandler(sess))          // Add expense endpoint
	auth.DELETE("/expenses/:id", DeleteExpenseHandler(sess)) // Delete expense endpoint
	auth.GET("/savings", GetSavingsHandler(sess))            // Get savings endpoint
	auth.POST("/savings/unlock", UnlockSavingsHandler(sess)) // Unlock savings endpoint
	auth.PUT("/savings", UpdateSavingsHandler(sess))         // Update savings endpoint
	auth.GET("/dashboard", DashboardHandler(sess, time.Now)) // Dashboard endpoint
}
