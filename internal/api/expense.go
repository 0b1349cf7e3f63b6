package api

import (
	"net/http" // HTTP status codes

	"expense_tracker/internal/domain"     // Domain models
	"expense_tracker/internal/session"    // Session layer
	"expense_tracker/internal/validation" // Form rules

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// ExpenseRequest represents a new expense
type ExpenseRequest struct {
	Amount      *float64               `json:"amount"`                      // Amount spent, required
	Category    domain.ExpenseCategory `json:"category" binding:"required"` // Expense category
	Description string                 `json:"description"`                 // Optional free text
}

// newestFirst returns the ledger in reverse creation order
func newestFirst(expenses []domain.Expense) []domain.Expense {
	out := make([]domain.Expense, len(expenses))
	for i, e := range expenses {
		out[len(expenses)-1-i] = e
	}
	return out
}

// ListExpensesHandler returns the session user's expenses, newest first
func ListExpensesHandler(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := caller(c, sess).Snapshot()
		if err != nil {
			respondError(c, err)
			return
		}
		expenses := newestFirst(st.Expenses)
		if cat := domain.ExpenseCategory(c.Query("category")); cat != "" {
			filtered := expenses[:0]
			for _, e := range expenses {
				if e.Category == cat {
					filtered = append(filtered, e)
				}
			}
			expenses = filtered
		}
		c.JSON(http.StatusOK, gin.H{
			"expenses": expenses,      // Ledger entries
			"total":    len(expenses), // Number of entries
		})
	}
}

// AddExpenseHandler records a new expense for the session user
func AddExpenseHandler(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExpenseRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		if req.Amount == nil {
			respondError(c, session.ErrAmountRequired)
			return
		}
		user := caller(c, sess)
		st, err := user.Snapshot()
		if err != nil {
			respondError(c, err)
			return
		}
		// The balance check runs against the state at request time
		if err := validation.Expense(*req.Amount, req.Category, st.Remaining()); err != nil {
			respondError(c, err)
			return
		}
		e, err := user.AddExpense(c.Request.Context(), domain.NewExpense{
			Amount:      req.Amount,
			Category:    req.Category,
			Description: req.Description,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, e)
	}
}

// DeleteExpenseHandler removes an expense by id
func DeleteExpenseHandler(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := caller(c, sess).DeleteExpense(c.Request.Context(), id); err != nil {
			logrus.WithFields(logrus.Fields{
				"expense_id": id,          // Requested id
				"error":      err.Error(), // Error message
			}).Warn("Delete expense failed")
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
