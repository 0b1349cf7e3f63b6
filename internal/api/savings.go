package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"expense_tracker/internal/domain"     // Domain models
	"expense_tracker/internal/session"    // Session layer
	"expense_tracker/internal/validation" // Form rules

	"github.com/gin-gonic/gin" // Gin web framework
)

// SavingsResponse is the savings record as shown to clients; the PIN never leaves the server
type SavingsResponse struct {
	Locked   bool         `json:"locked"`             // A PIN gates the record
	Amount   *float64     `json:"amount,omitempty"`   // Total saved, hidden while locked
	Goal     *domain.Goal `json:"goal,omitempty"`     // Savings goal, hidden while locked
	Progress *float64     `json:"progress,omitempty"` // Goal completion percentage
}

// UnlockRequest carries the PIN for a locked record
type UnlockRequest struct {
	PIN string `json:"pin" binding:"required"` // PIN to check
}

// SavingsRequest is the savings editor form
type SavingsRequest struct {
	PIN           string  `json:"pin"`             // Current PIN, needed while locked
	AmountToAdd   float64 `json:"amount_to_add"`   // Top-up added to the total
	GoalName      string  `json:"goal_name"`       // New goal name
	GoalTarget    float64 `json:"goal_target"`     // New goal target
	NewPIN        string  `json:"new_pin"`         // Replacement PIN
	ConfirmNewPIN string  `json:"confirm_new_pin"` // Repeat of the replacement PIN
}

// savingsView renders s, hiding its contents when it is locked and not revealed
func savingsView(s domain.Savings, reveal bool) SavingsResponse {
	resp := SavingsResponse{Locked: s.Locked()}
	if s.Locked() && !reveal {
		return resp
	}
	amount, progress := s.Amount, s.Progress()
	resp.Amount = &amount
	resp.Progress = &progress
	resp.Goal = s.Goal
	return resp
}

// respondPIN reports a wrong PIN as forbidden rather than as a form error
func respondPIN(c *gin.Context, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) && verr.Field == "pin" {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: verr.Message, Field: verr.Field})
		return
	}
	respondError(c, err)
}

// GetSavingsHandler returns the savings record, locked records without their contents
func GetSavingsHandler(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := caller(c, sess).Snapshot()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, savingsView(st.Savings, false))
	}
}

// UnlockSavingsHandler reveals a locked savings record when the PIN matches
func UnlockSavingsHandler(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UnlockRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		st, err := caller(c, sess).Snapshot()
		if err != nil {
			respondError(c, err)
			return
		}
		if err := validation.Unlock(st.Savings, req.PIN); err != nil {
			respondPIN(c, err)
			return
		}
		c.JSON(http.StatusOK, savingsView(st.Savings, true))
	}
}

// UpdateSavingsHandler tops up the savings, sets the goal and changes the PIN
func UpdateSavingsHandler(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SavingsRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		user := caller(c, sess)
		st, err := user.Snapshot()
		if err != nil {
			respondError(c, err)
			return
		}
		if err := validation.Unlock(st.Savings, req.PIN); err != nil {
			respondPIN(c, err)
			return
		}
		u, err := validation.SavingsChange(st.Savings, validation.SavingsForm{
			AmountToAdd: req.AmountToAdd,
			GoalName:    req.GoalName,
			GoalTarget:  req.GoalTarget,
			NewPIN:      req.NewPIN,
			ConfirmPIN:  req.ConfirmNewPIN,
		}, st.Remaining())
		if err != nil {
			respondError(c, err)
			return
		}
		saved, err := user.UpdateSavings(c.Request.Context(), u)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, savingsView(saved, true))
	}
}
