package cli

import (
	"context"
	"flag"
	"fmt"

	"expense_tracker/internal/validation"

	"github.com/google/subcommands"
)

type registerCmd struct {
	env     *Env
	confirm string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create an account and log in" }
func (*registerCmd) Usage() string {
	return `expensectl register [-confirm <password>] <username> <password>

  Creates the account and starts a session for it. The confirmation
  defaults to the password itself.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.confirm, "confirm", "", "Password confirmation (defaults to the password).")
}

func (c *registerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return c.env.usage("register needs a username and a password")
	}
	username, password := f.Arg(0), f.Arg(1)
	confirm := c.confirm
	if confirm == "" {
		confirm = password
	}
	if err := validation.Registration(username, password, confirm); err != nil {
		return c.env.fail(err)
	}
	sess, release, err := c.env.open(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	defer release()
	if err := sess.Register(ctx, username, password); err != nil {
		return c.env.fail(err)
	}
	fmt.Fprintf(c.env.Out, "Registered and logged in as %s\n", username)
	return subcommands.ExitSuccess
}

type loginCmd struct{ env *Env }

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "start a session" }
func (*loginCmd) Usage() string {
	return `expensectl login <username> <password>
`
}
func (*loginCmd) SetFlags(*flag.FlagSet) {}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return c.env.usage("login needs a username and a password")
	}
	sess, release, err := c.env.open(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	defer release()
	if err := sess.Login(ctx, f.Arg(0), f.Arg(1)); err != nil {
		return c.env.fail(err)
	}
	fmt.Fprintf(c.env.Out, "Logged in as %s\n", f.Arg(0))
	return subcommands.ExitSuccess
}

type logoutCmd struct{ env *Env }

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "end the session" }
func (*logoutCmd) Usage() string {
	return `expensectl logout
`
}
func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (c *logoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sess, release, err := c.env.open(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	defer release()
	if err := sess.Logout(ctx); err != nil {
		return c.env.fail(err)
	}
	fmt.Fprintln(c.env.Out, "Logged out")
	return subcommands.ExitSuccess
}

type whoamiCmd struct{ env *Env }

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "print the logged-in user" }
func (*whoamiCmd) Usage() string {
	return `expensectl whoami
`
}
func (*whoamiCmd) SetFlags(*flag.FlagSet) {}

func (c *whoamiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sess, release, err := c.env.open(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	defer release()
	user, ok := sess.User()
	if !ok {
		fmt.Fprintln(c.env.Out, "Not logged in")
		return subcommands.ExitFailure
	}
	fmt.Fprintln(c.env.Out, user)
	return subcommands.ExitSuccess
}
