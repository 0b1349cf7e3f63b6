package session

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned by Register when re-registration is disabled.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrNoActiveSession is returned by operations that need a logged-in user.
	ErrNoActiveSession = errors.New("no active session")
	// ErrAmountRequired is returned by AddExpense when no amount was given.
	ErrAmountRequired = errors.New("expense amount is required")
)
