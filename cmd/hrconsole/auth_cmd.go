package main

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/iota-uz/hr-console/modules/hrm/presentation/viewmodels"
	"github.com/iota-uz/hr-console/pkg/apiclient"
)

func userFields(u *apiclient.User) []viewmodels.Field {
	if u == nil {
		return nil
	}
	admin := "no"
	if u.IsAdmin {
		admin = "yes"
	}
	return []viewmodels.Field{
		{Label: "ID", Value: fmt.Sprint(u.ID)},
		{Label: "Email", Value: u.Email},
		{Label: "Username", Value: u.Username},
		{Label: "Name", Value: u.FirstName + " " + u.LastName},
		{Label: "Admin", Value: admin},
	}
}

func printUser(out *renderer, u *apiclient.User, greeting string) error {
	if out.structured() {
		return out.encode(u)
	}
	fmt.Fprintln(out.w, successStyle.Render(greeting))
	out.fields(userFields(u))
	return nil
}

func newLoginCmd(c *cli) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.render()
			if err != nil {
				return err
			}
			if email == "" || password == "" {
				return withCode(exitUsage, errors.New("--email and --password are required"))
			}
			user, err := c.app.services.Auth.Login(cmd.Context(), email, password)
			if err != nil {
				return errors.Wrap(err, "login")
			}
			return printUser(out, user, "Logged in")
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.services.Auth.Logout(cmd.Context()); err != nil {
				return errors.Wrap(err, "logout")
			}
			fmt.Fprintln(c.out, "Logged out")
			return nil
		},
	}
}

func newRegisterCmd(c *cli) *cobra.Command {
	var req apiclient.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.render()
			if err != nil {
				return err
			}
			if req.Email == "" || req.Username == "" || req.Password == "" {
				return withCode(exitUsage, errors.New("--email, --username and --password are required"))
			}
			user, err := c.app.services.Auth.Register(cmd.Context(), req)
			if err != nil {
				return errors.Wrap(err, "register")
			}
			greeting := "Account created"
			if c.app.store.IsAuthenticated() {
				greeting = "Account created and logged in"
			}
			return printUser(out, user, greeting)
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Username, "username", "", "Username")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	return cmd
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:         "whoami",
		Short:       "Show the logged in user",
		Args:        cobra.NoArgs,
		Annotations: protected(),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.render()
			if err != nil {
				return err
			}
			user, err := c.app.services.Auth.Me(cmd.Context())
			if err != nil {
				return err
			}
			if out.structured() {
				return out.encode(user)
			}
			out.fields(userFields(user))
			return nil
		},
	}
}
