package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"expense_tracker/internal/domain"
	"expense_tracker/internal/session"

	"github.com/google/subcommands"
)

type summaryCmd struct{ env *Env }

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "print the balance and spending breakdown" }
func (*summaryCmd) Usage() string {
	return `expensectl summary

  Prints income, total spent, remaining balance, spending per category
  and spending per weekday over the last seven days.
`
}
func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sess, release, err := c.env.open(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	defer release()
	st := sess.Snapshot()
	if !st.Active() {
		return c.env.fail(session.ErrNoActiveSession)
	}

	income := 0.0
	if st.Profile != nil {
		income = st.Profile.MonthlyIncome
	}
	w := tabwriter.NewWriter(c.env.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Income\t%s\n", c.env.money(income))
	fmt.Fprintf(w, "Spent\t%s\n", c.env.money(domain.TotalSpent(st.Expenses)))
	fmt.Fprintf(w, "Remaining\t%s\n", c.env.money(st.Remaining()))
	if !st.Savings.Locked() {
		fmt.Fprintf(w, "Saved\t%s\n", c.env.money(st.Savings.Amount))
	}

	if totals := domain.CategoryTotals(st.Expenses); len(totals) > 0 {
		fmt.Fprintln(w, "\nBy category")
		for _, t := range totals {
			fmt.Fprintf(w, "  %s\t%s\n", t.Category, c.env.money(t.Amount))
		}
	}
	fmt.Fprintln(w, "\nLast 7 days")
	for _, d := range domain.WeeklySpending(st.Expenses, c.env.Now()) {
		fmt.Fprintf(w, "  %s\t%s\n", d.Day, c.env.money(d.Amount))
	}
	if err := w.Flush(); err != nil {
		return c.env.fail(err)
	}
	return subcommands.ExitSuccess
}
