package session

import "expense_tracker/internal/domain"

// State is a point-in-time copy of the session's data
type State struct {
	Username string
	Profile  *domain.Profile
	Expenses []domain.Expense
	Savings  domain.Savings
}

// Active reports whether a user is logged in
func (st State) Active() bool { return st.Username != "" }

// Remaining is the monthly income minus everything spent
func (st State) Remaining() float64 {
	return domain.RemainingBalance(st.Profile, st.Expenses)
}

// Snapshot copies the current state so callers can render it without holding the lock
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() State {
	st := State{
		Username: s.username,
		Expenses: append([]domain.Expense(nil), s.expenses...),
		Savings:  s.savings,
	}
	if s.profile != nil {
		p := *s.profile
		st.Profile = &p
	}
	if s.savings.Goal != nil {
		g := *s.savings.Goal
		st.Savings.Goal = &g
	}
	return st
}

// User returns the logged-in username
func (s *Session) User() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username, s.username != ""
}

// Profile returns a copy of the profile, nil when none has been saved
func (s *Session) Profile() *domain.Profile { return s.Snapshot().Profile }

// Expenses returns a copy of the ledger in creation order
func (s *Session) Expenses() []domain.Expense { return s.Snapshot().Expenses }

// Savings returns a copy of the savings record
func (s *Session) Savings() domain.Savings { return s.Snapshot().Savings }
