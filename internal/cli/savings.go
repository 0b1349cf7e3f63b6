package cli

import (
	"context"
	"flag"
	"fmt"

	"expense_tracker/internal/domain"
	"expense_tracker/internal/session"
	"expense_tracker/internal/validation"

	"github.com/google/subcommands"
)

type savingsCmd struct {
	env        *Env
	pin        string
	add        string
	goal       string
	target     string
	newPIN     string
	confirmPIN string
}

func (*savingsCmd) Name() string     { return "savings" }
func (*savingsCmd) Synopsis() string { return "show or update savings" }
func (*savingsCmd) Usage() string {
	return `expensectl savings [-pin <pin>] [-add <amount>] [-goal <name> -target <amount>] [-new-pin <pin> -confirm-pin <pin>]

  Without update flags, prints the savings. A locked record needs -pin
  both to be shown and to be changed.
`
}

func (c *savingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.pin, "pin", "", "Current PIN of a locked record.")
	f.StringVar(&c.add, "add", "0", "Amount to add to the savings.")
	f.StringVar(&c.goal, "goal", "", "Goal name.")
	f.StringVar(&c.target, "target", "0", "Goal target amount.")
	f.StringVar(&c.newPIN, "new-pin", "", "New PIN to lock the record with.")
	f.StringVar(&c.confirmPIN, "confirm-pin", "", "Repeat of the new PIN.")
}

func (c *savingsCmd) changes() bool {
	return c.add != "0" || c.goal != "" || c.newPIN != ""
}

func (c *savingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	add, err := parseAmount(c.add)
	if err != nil {
		return c.env.usage("%v", err)
	}
	target, err := parseAmount(c.target)
	if err != nil {
		return c.env.usage("%v", err)
	}
	sess, release, err := c.env.open(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	defer release()

	st := sess.Snapshot()
	if !st.Active() {
		return c.env.fail(session.ErrNoActiveSession)
	}
	if err := validation.Unlock(st.Savings, c.pin); err != nil {
		if !c.changes() {
			fmt.Fprintln(c.env.Out, "Savings are locked; pass -pin to view them")
		}
		return c.env.fail(err)
	}
	if !c.changes() {
		c.print(st.Savings)
		return subcommands.ExitSuccess
	}

	u, err := validation.SavingsChange(st.Savings, validation.SavingsForm{
		AmountToAdd: add,
		GoalName:    c.goal,
		GoalTarget:  target,
		NewPIN:      c.newPIN,
		ConfirmPIN:  c.confirmPIN,
	}, st.Remaining())
	if err != nil {
		return c.env.fail(err)
	}
	saved, err := sess.UpdateSavings(ctx, u)
	if err != nil {
		return c.env.fail(err)
	}
	c.print(saved)
	return subcommands.ExitSuccess
}

func (c *savingsCmd) print(s domain.Savings) {
	fmt.Fprintf(c.env.Out, "Saved:  %s\n", c.env.money(s.Amount))
	if s.Goal != nil {
		fmt.Fprintf(c.env.Out, "Goal:   %s, %s (%.0f%%)\n", s.Goal.Name, c.env.money(s.Goal.Target), s.Progress())
	}
	if s.Locked() {
		fmt.Fprintln(c.env.Out, "Locked: yes")
	}
}
