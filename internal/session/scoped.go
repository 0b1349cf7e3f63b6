package session

import (
	"context"

	"expense_tracker/internal/domain"
)

// UserView is the Session as seen by one authenticated user. Every call
// fails with ErrNoActiveSession unless that user is the one logged in,
// checked under the same lock the operation runs under.
type UserView struct {
	s     *Session
	owner owner
}

// As scopes the session to username
func (s *Session) As(username string) UserView {
	return UserView{s: s, owner: owner{username: username}}
}

// Username is the user the view is scoped to
func (v UserView) Username() string { return v.owner.username }

// Snapshot copies the state if the view's user is still logged in
func (v UserView) Snapshot() (State, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if err := v.s.require(v.owner); err != nil {
		return State{}, err
	}
	return v.s.snapshot(), nil
}

// Logout ends the session if it still belongs to the view's user
func (v UserView) Logout(ctx context.Context) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if err := v.s.require(v.owner); err != nil {
		return err
	}
	return v.s.logout(ctx)
}

func (v UserView) SaveProfile(ctx context.Context, p domain.Profile) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.saveProfile(ctx, v.owner, p)
}

func (v UserView) AddExpense(ctx context.Context, in domain.NewExpense) (domain.Expense, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.addExpense(ctx, v.owner, in)
}

func (v UserView) DeleteExpense(ctx context.Context, id string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.deleteExpense(ctx, v.owner, id)
}

func (v UserView) UpdateSavings(ctx context.Context, u domain.SavingsUpdate) (domain.Savings, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.updateSavings(ctx, v.owner, u)
}
