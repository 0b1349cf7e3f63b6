package domain

import (
	"time"

	"github.com/shopspring/decimal" // Exact decimal arithmetic for ledger sums
)

// CategoryTotal is the amount spent in one category
type CategoryTotal struct {
	Category ExpenseCategory `json:"category"` // Expense category
	Amount   float64         `json:"amount"`   // Sum of the category's expenses
}

// DayTotal is the amount spent on one weekday within the last week
type DayTotal struct {
	Weekday time.Weekday `json:"weekday"` // Sunday = 0
	Day     string       `json:"day"`     // Short weekday name
	Amount  float64      `json:"amount"`  // Sum of that day's expenses
}

// TotalSpent returns the sum of all expense amounts
func TotalSpent(expenses []Expense) float64 {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(decimal.NewFromFloat(e.Amount))
	}
	return sum.InexactFloat64()
}

// RemainingBalance returns the monthly income minus everything spent; 0 without a profile
func RemainingBalance(profile *Profile, expenses []Expense) float64 {
	if profile == nil {
		return 0
	}
	income := decimal.NewFromFloat(profile.MonthlyIncome)
	spent := decimal.NewFromFloat(TotalSpent(expenses))
	return income.Sub(spent).InexactFloat64()
}

// CategoryTotals sums expenses per category, in order of first appearance in the ledger
func CategoryTotals(expenses []Expense) []CategoryTotal {
	index := make(map[ExpenseCategory]int) // Position of each category in sums
	var sums []decimal.Decimal
	var order []ExpenseCategory
	for _, e := range expenses {
		i, seen := index[e.Category]
		if !seen {
			i = len(order)
			index[e.Category] = i
			order = append(order, e.Category)
			sums = append(sums, decimal.Zero)
		}
		sums[i] = sums[i].Add(decimal.NewFromFloat(e.Amount))
	}
	totals := make([]CategoryTotal, len(order))
	for i, c := range order {
		totals[i] = CategoryTotal{Category: c, Amount: sums[i].InexactFloat64()}
	}
	return totals
}

// WeeklySpending buckets expenses created within 7 days before now by weekday, Sunday first.
// Expenses with a malformed date are skipped.
func WeeklySpending(expenses []Expense, now time.Time) []DayTotal {
	var sums [7]decimal.Decimal
	oneWeekAgo := now.AddDate(0, 0, -7)
	for _, e := range expenses {
		t, ok := e.Time()
		if !ok || t.Before(oneWeekAgo) {
			continue
		}
		day := t.In(now.Location()).Weekday() // Bucket in the caller's local day
		sums[day] = sums[day].Add(decimal.NewFromFloat(e.Amount))
	}
	days := make([]DayTotal, 7)
	for i := range days {
		wd := time.Weekday(i)
		days[i] = DayTotal{Weekday: wd, Day: wd.String()[:3], Amount: sums[i].InexactFloat64()}
	}
	return days
}
