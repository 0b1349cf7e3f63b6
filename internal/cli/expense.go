package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"expense_tracker/internal/domain"
	"expense_tracker/internal/session"
	"expense_tracker/internal/validation"

	"github.com/google/subcommands"
)

type addCmd struct {
	env         *Env
	category    string
	description string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an expense" }
func (*addCmd) Usage() string {
	return `expensectl add [-c <category>] [-d <description>] <amount>

  Categories: food, entertainment, study, transport, other.
  The amount may not exceed the remaining balance.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", string(domain.Food), "Expense category.")
	f.StringVar(&c.description, "d", "", "Optional description.")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.env.usage("add needs exactly one amount")
	}
	amount, err := parseAmount(f.Arg(0))
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
	category := domain.ExpenseCategory(c.category)
	if err := validation.Expense(amount, category, st.Remaining()); err != nil {
		return c.env.fail(err)
	}
	e, err := sess.AddExpense(ctx, domain.NewExpense{Amount: &amount, Category: category, Description: c.description})
	if err != nil {
		return c.env.fail(err)
	}
	fmt.Fprintf(c.env.Out, "Added %s %s (%s)\n", e.ID, c.env.money(e.Amount), e.Category)
	return subcommands.ExitSuccess
}

type rmCmd struct{ env *Env }

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete an expense" }
func (*rmCmd) Usage() string {
	return `expensectl rm <id>...
`
}
func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return c.env.usage("rm needs at least one expense id")
	}
	sess, release, err := c.env.open(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	defer release()
	for _, id := range f.Args() {
		if err := sess.DeleteExpense(ctx, id); err != nil {
			return c.env.fail(err)
		}
		fmt.Fprintf(c.env.Out, "Deleted %s\n", id)
	}
	return subcommands.ExitSuccess
}

type listCmd struct {
	env      *Env
	category string
	limit    int
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list expenses, newest first" }
func (*listCmd) Usage() string {
	return `expensectl list [-c <category>] [-n <count>]
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "", "Only show this category.")
	f.IntVar(&c.limit, "n", 0, "Show at most this many expenses (0 for all).")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sess, release, err := c.env.open(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	defer release()
	st := sess.Snapshot()
	if !st.Active() {
		return c.env.fail(session.ErrNoActiveSession)
	}

	w := tabwriter.NewWriter(c.env.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	shown := 0
	for i := len(st.Expenses) - 1; i >= 0; i-- {
		e := st.Expenses[i]
		if c.category != "" && string(e.Category) != c.category {
			continue
		}
		if c.limit > 0 && shown == c.limit {
			break
		}
		date := e.Date
		if t, ok := e.Time(); ok {
			date = t.In(c.env.Now().Location()).Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, date, e.Category, c.env.money(e.Amount), e.Description)
		shown++
	}
	if err := w.Flush(); err != nil {
		return c.env.fail(err)
	}
	return subcommands.ExitSuccess
}
