package api

import (
	"net/http" // HTTP status codes
	"time"     // Current time for the weekly window

	"expense_tracker/internal/domain"  // Domain models and summaries
	"expense_tracker/internal/session" // Session layer

	"github.com/gin-gonic/gin" // Gin web framework
)

// RecentLimit is how many expenses the dashboard lists
const RecentLimit = 5

// DashboardResponse summarises the session user's month
type DashboardResponse struct {
	Username   string                 `json:"username"`    // Logged-in user
	Income     float64                `json:"income"`      // Monthly income, 0 without a profile
	Spent      float64                `json:"spent"`       // Sum of all expenses
	Remaining  float64                `json:"remaining"`   // Income minus spent
	ByCategory []domain.CategoryTotal `json:"by_category"` // Totals per category
	Weekly     []domain.DayTotal      `json:"weekly"`      // Last seven days by weekday
	Recent     []domain.Expense       `json:"recent"`      // Newest expenses
	Savings    SavingsResponse        `json:"savings"`     // Savings summary, hidden while locked
}

// DashboardHandler returns the figures behind the dashboard screen
func DashboardHandler(sess *session.Session, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := caller(c, sess).Snapshot()
		if err != nil {
			respondError(c, err)
			return
		}
		resp := DashboardResponse{
			Username:   st.Username,
			Spent:      domain.TotalSpent(st.Expenses),
			Remaining:  st.Remaining(),
			ByCategory: domain.CategoryTotals(st.Expenses),
			Weekly:     domain.WeeklySpending(st.Expenses, now()),
			Recent:     newestFirst(st.Expenses),
			Savings:    savingsView(st.Savings, false),
		}
		if st.Profile != nil {
			resp.Income = st.Profile.MonthlyIncome
		}
		if resp.ByCategory == nil {
			resp.ByCategory = []domain.CategoryTotal{} // Render as [] rather than null
		}
		if len(resp.Recent) > RecentLimit {
			resp.Recent = resp.Recent[:RecentLimit]
		}
		c.JSON(http.StatusOK, resp)
	}
}
