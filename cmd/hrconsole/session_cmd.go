package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iota-uz/hr-console/pkg/session"
)

type sessionStatus struct {
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
	Backend       string `json:"backend" yaml:"backend"`
	External      bool   `json:"external,omitempty" yaml:"external,omitempty"`
	At            string `json:"at,omitempty" yaml:"at,omitempty"`
}

func (s sessionStatus) String() string {
	state := "logged out"
	if s.Authenticated {
		state = "logged in"
	}
	return fmt.Sprintf("%s (%s)", state, s.Backend)
}

func newSessionCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect the stored session",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether a token is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.render()
			if err != nil {
				return err
			}
			status := sessionStatus{
				Authenticated: c.app.store.IsAuthenticated(),
				Backend:       c.app.conf.Session.Backend,
			}
			if out.structured() {
				return out.encode(status)
			}
			fmt.Fprintln(c.out, status)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Print login and logout from other processes until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out, err := c.render()
			if err != nil {
				return err
			}
			changes := make(chan sessionStatus, 8)
			unsubscribe := c.app.store.Subscribe(func(e *session.ChangedEvent) {
				select {
				case changes <- sessionStatus{
					Authenticated: e.Authenticated,
					Backend:       c.app.conf.Session.Backend,
					External:      e.External,
					At:            time.Now().Format(time.RFC3339),
				}:
				default:
				}
			})
			defer unsubscribe()

			watchErr := make(chan error, 1)
			go func() { watchErr <- c.app.store.Watch(ctx) }()

			for {
				select {
				case <-ctx.Done():
					return nil
				case err := <-watchErr:
					if err != nil && ctx.Err() == nil {
						return err
					}
					return nil
				case s := <-changes:
					if out.structured() {
						if err := out.encode(s); err != nil {
							return err
						}
						continue
					}
					fmt.Fprintf(c.out, "%s %s\n", mutedStyle.Render(s.At), s)
				}
			}
		},
	})
	return cmd
}
