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

type profileCmd struct {
	env       *Env
	name      string
	birthYear int
	income    string
	education string
}

func (*profileCmd) Name() string     { return "profile" }
func (*profileCmd) Synopsis() string { return "show or save the profile" }
func (*profileCmd) Usage() string {
	return `expensectl profile [-name <full name> -birth <year> -income <amount> -education <level>]

  Without flags, prints the profile. With -name, replaces it.
  Education levels: lower-secondary, upper-secondary, university.
`
}

func (c *profileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Full name.")
	f.IntVar(&c.birthYear, "birth", 0, "Birth year.")
	f.StringVar(&c.income, "income", "0", "Monthly income.")
	f.StringVar(&c.education, "education", string(domain.University), "Education level.")
}

func (c *profileCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sess, release, err := c.env.open(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	defer release()
	if _, ok := sess.User(); !ok {
		return c.env.fail(session.ErrNoActiveSession)
	}

	if c.name == "" {
		p := sess.Profile()
		if p == nil {
			fmt.Fprintln(c.env.Out, "No profile yet; set one with -name, -birth, -income and -education")
			return subcommands.ExitSuccess
		}
		c.print(*p)
		return subcommands.ExitSuccess
	}

	income, err := parseAmount(c.income)
	if err != nil {
		return c.env.usage("%v", err)
	}
	p := domain.Profile{
		FullName:       c.name,
		BirthYear:      c.birthYear,
		MonthlyIncome:  income,
		EducationLevel: domain.EducationLevel(c.education),
	}
	if err := validation.Profile(p); err != nil {
		return c.env.fail(err)
	}
	if err := sess.SaveProfile(ctx, p); err != nil {
		return c.env.fail(err)
	}
	c.print(p)
	return subcommands.ExitSuccess
}

func (c *profileCmd) print(p domain.Profile) {
	fmt.Fprintf(c.env.Out, "Name:      %s\n", p.FullName)
	fmt.Fprintf(c.env.Out, "Born:      %d\n", p.BirthYear)
	fmt.Fprintf(c.env.Out, "Income:    %s\n", c.env.money(p.MonthlyIncome))
	fmt.Fprintf(c.env.Out, "Education: %s\n", p.EducationLevel)
}
