// Package cli implements the expensectl subcommands on top of the session layer.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"expense_tracker/internal/config"
	"expense_tracker/internal/session"
	"expense_tracker/internal/store"
	"expense_tracker/internal/utils"

	"github.com/Rhymond/go-money"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// Env is what every subcommand runs against
type Env struct {
	Config *config.Config
	Out    io.Writer
	Err    io.Writer
	Now    func() time.Time

	// Store, when set, is used instead of opening Config's backend and is never closed
	Store store.Store
}

// NewEnv returns an environment writing to the process's standard streams
func NewEnv(cfg *config.Config) *Env {
	return &Env{Config: cfg, Out: os.Stdout, Err: os.Stderr, Now: time.Now}
}

// Commands lists every subcommand bound to env
func Commands(env *Env) []subcommands.Command {
	return []subcommands.Command{
		&registerCmd{env: env},
		&loginCmd{env: env},
		&logoutCmd{env: env},
		&whoamiCmd{env: env},
		&profileCmd{env: env},
		&addCmd{env: env},
		&rmCmd{env: env},
		&listCmd{env: env},
		&savingsCmd{env: env},
		&summaryCmd{env: env},
	}
}

// open builds a session on the configured store and resumes the last login.
// The returned func releases the store.
func (env *Env) open(ctx context.Context) (*session.Session, func(), error) {
	st, release := env.Store, func() {}
	if st == nil {
		var err error
		st, err = store.Open(ctx, env.Config.StoreOptions())
		if err != nil {
			return nil, nil, err
		}
		release = func() { _ = store.Close(st) }
	}
	sess := session.New(st,
		session.WithPasswordHasher(utils.NewPasswordHasher(env.Config.PasswordHashing)),
		session.WithReregistration(env.Config.AllowReregister),
		session.WithClock(env.Now),
	)
	if _, err := sess.Restore(ctx); err != nil {
		release()
		return nil, nil, err
	}
	return sess, release, nil
}

// fail reports err and returns the failure status
func (env *Env) fail(err error) subcommands.ExitStatus {
	switch {
	case errors.Is(err, session.ErrNoActiveSession):
		fmt.Fprintln(env.Err, "not logged in; run login or register first")
	case errors.Is(err, store.ErrUnavailable):
		fmt.Fprintf(env.Err, "storage unavailable: %v\n", err)
	default:
		fmt.Fprintln(env.Err, err)
	}
	return subcommands.ExitFailure
}

// usage reports a malformed command line
func (env *Env) usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(env.Err, format+"\n", args...)
	return subcommands.ExitUsageError
}

// money formats amount in the configured currency
func (env *Env) money(amount float64) string {
	return formatMoney(amount, env.Config.Currency)
}

func formatMoney(amount float64, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return decimal.NewFromFloat(amount).StringFixed(2) + " " + currency
	}
	factor := decimal.New(1, int32(cur.Fraction)) // Minor units per major unit
	minor := decimal.NewFromFloat(amount).Mul(factor).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display()
}

// parseAmount reads a decimal amount from the command line
func parseAmount(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return d.InexactFloat64(), nil
}
