package domain

import "time"

// ExpenseCategory classifies an expense entry
type ExpenseCategory string

const (
	Food          ExpenseCategory = "food"          // Food and drinks
	Entertainment ExpenseCategory = "entertainment" // Entertainment
	Study         ExpenseCategory = "study"         // Study
	Transport     ExpenseCategory = "transport"     // Transport
	Other         ExpenseCategory = "other"         // Anything else
)

// ExpenseCategories lists every category in display order
var ExpenseCategories = []ExpenseCategory{Food, Entertainment, Study, Transport, Other}

// Valid reports whether c is one of the known categories
func (c ExpenseCategory) Valid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// DateLayout is the textual form of an expense creation time (UTC, millisecond precision)
const DateLayout = "2006-01-02T15:04:05.000Z"

// Expense Model
type Expense struct {
	ID          string          `json:"id"`          // Creation time in Unix milliseconds
	Amount      float64         `json:"amount"`      // Amount spent
	Category    ExpenseCategory `json:"category"`    // Expense category
	Description string          `json:"description"` // Optional free text
	Date        string          `json:"date"`        // Creation time, see DateLayout
}

// Time parses the expense date; ok is false when the stored date is malformed
func (e Expense) Time() (t time.Time, ok bool) {
	t, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		// Accept any RFC 3339 timestamp written by other clients
		if t, err = time.Parse(time.RFC3339Nano, e.Date); err != nil {
			return time.Time{}, false
		}
	}
	return t, true
}

// NewExpense holds the caller-supplied fields of an expense before id and date are assigned
type NewExpense struct {
	Amount      *float64        // Required; nil means the amount was not given
	Category    ExpenseCategory // Expense category
	Description string          // Optional description
}
