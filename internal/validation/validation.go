// Package validation holds the business rules front ends check before calling the session layer.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"expense_tracker/internal/domain"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

// Error is a user-facing rejection of one input field
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &Error{Field: field, Message: msg}
}

// Registration checks the sign-up form
func Registration(username, password, confirm string) error {
	if password != confirm {
		return invalid("confirm_password", "passwords do not match")
	}
	if utf8.RuneCountInString(username) < MinUsernameLength || utf8.RuneCountInString(password) < MinPasswordLength {
		return invalid("username", fmt.Sprintf("username needs at least %d characters and password at least %d", MinUsernameLength, MinPasswordLength))
	}
	return nil
}

// Profile checks the onboarding form
func Profile(p domain.Profile) error {
	switch {
	case strings.TrimSpace(p.FullName) == "":
		return invalid("fullName", "full name is required")
	case p.BirthYear <= 0:
		return invalid("birthYear", "birth year is required")
	case p.MonthlyIncome < 0:
		return invalid("monthlyIncome", "monthly income cannot be negative")
	case !p.EducationLevel.Valid():
		return invalid("educationLevel", "unknown education level")
	}
	return nil
}

// Expense checks a new expense against the remaining balance
func Expense(amount float64, category domain.ExpenseCategory, remaining float64) error {
	switch {
	case amount <= 0:
		return invalid("amount", "amount must be greater than zero")
	case !category.Valid():
		return invalid("category", "unknown category")
	case amount > remaining:
		return invalid("amount", "amount exceeds the remaining balance")
	}
	return nil
}

// Unlock checks the PIN entered to open a locked savings record
func Unlock(s domain.Savings, pin string) error {
	if s.Locked() && pin != s.PIN {
		return invalid("pin", "incorrect PIN")
	}
	return nil
}

// SavingsForm is what the savings editor submits
type SavingsForm struct {
	AmountToAdd float64 // Top-up added to the current total
	GoalName    string  // New goal name, used only together with GoalTarget
	GoalTarget  float64 // New goal target
	NewPIN      string  // Replacement PIN, empty keeps the current one
	ConfirmPIN  string  // Must equal NewPIN when one is given
}

// SavingsChange validates f and turns it into the update to apply to current
func SavingsChange(current domain.Savings, f SavingsForm, remaining float64) (domain.SavingsUpdate, error) {
	if f.NewPIN != "" && f.NewPIN != f.ConfirmPIN {
		return domain.SavingsUpdate{}, invalid("confirm_new_pin", "new PINs do not match")
	}
	if f.AmountToAdd < 0 {
		return domain.SavingsUpdate{}, invalid("amount_to_add", "amount cannot be negative")
	}
	if f.AmountToAdd > remaining {
		return domain.SavingsUpdate{}, invalid("amount_to_add", "not enough remaining balance to save")
	}

	total := current.Amount + f.AmountToAdd // Amount replaces the stored total
	u := domain.SavingsUpdate{Amount: &total}
	if f.GoalName != "" && f.GoalTarget > 0 {
		u.Goal = &domain.Goal{Name: f.GoalName, Target: f.GoalTarget}
	}
	if f.NewPIN != "" {
		pin := f.NewPIN
		u.PIN = &pin
	}
	return u, nil
}
