package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/iota-uz/hr-console/pkg/composables"
)

const (
	annotationProtected = "protected"
	sessionExpired      = "Session expired. Please log in again."
)

var errNotLoggedIn = errors.New("not logged in: run hrconsole login first")

// cli carries what every command shares: output streams, the chosen output
// format and the app built on first use.
type cli struct {
	out     io.Writer
	errOut  io.Writer
	format  string
	factory appFactory
	app     *app
}

func (c *cli) ensureApp(ctx context.Context) (*app, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := c.factory(ctx)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func (c *cli) render() (*renderer, error) {
	return newRenderer(c.out, c.format)
}

func isProtected(cmd *cobra.Command) bool {
	for p := cmd; p != nil; p = p.Parent() {
		if p.Annotations[annotationProtected] == "true" {
			return true
		}
	}
	return false
}

func protected() map[string]string {
	return map[string]string{annotationProtected: "true"}
}

func newRootCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hrconsole",
		Short:         "Terminal console for the HR management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := newRenderer(c.out, c.format); err != nil {
				return err
			}
			a, err := c.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			ctx := composables.WithLogger(cmd.Context(), a.log.WithField("command", cmd.CommandPath()))
			cmd.SetContext(ctx)
			if isProtected(cmd) && !a.store.IsAuthenticated() {
				return withCode(exitAuth, errNotLoggedIn)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&c.format, "output", "o", formatTable, "Output format: table, json or yaml")

	cmd.AddCommand(newLoginCmd(c))
	cmd.AddCommand(newLogoutCmd(c))
	cmd.AddCommand(newRegisterCmd(c))
	cmd.AddCommand(newWhoamiCmd(c))
	cmd.AddCommand(newNavCmd(c))
	cmd.AddCommand(newFindCmd(c))
	cmd.AddCommand(newDashboardCmd(c))
	cmd.AddCommand(newEmployeesCmd(c))
	cmd.AddCommand(newDepartmentsCmd(c))
	cmd.AddCommand(newLocationsCmd(c))
	cmd.AddCommand(newJobsCmd(c))
	cmd.AddCommand(newJobHistoryCmd(c))
	cmd.AddCommand(newSessionCmd(c))
	cmd.AddCommand(newServeCmd(c))
	return cmd
}

// run executes args and returns the process exit code.
func (c *cli) run(ctx context.Context, args []string) int {
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	err := root.ExecuteContext(ctx)

	expired := false
	if c.app != nil {
		expired = c.app.expired.Load()
		if cerr := c.app.Close(ctx); cerr != nil {
			c.app.log.WithError(cerr).Warn("shutdown")
		}
	}
	if expired {
		fmt.Fprintln(c.errOut, sessionExpired)
		return exitAuth
	}
	if err != nil {
		fmt.Fprintln(c.errOut, err.Error())
		return exitCode(err)
	}
	return exitOK
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	c := &cli{
		out:     os.Stdout,
		errOut:  os.Stderr,
		factory: defaultFactory([]string{".env", ".env.local"}),
	}
	code := c.run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
