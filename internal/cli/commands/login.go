package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/talentfit/talentfit/internal/cli/client"
)

// NewLoginCmd creates the login command
func NewLoginCmd(opts *Options) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to TalentFit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set TALENTFIT_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set TALENTFIT_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(cmd *cobra.Command, opts *Options, email, password string) error {
	// Environment variables are useful for CI
	if email == "" {
		email = os.Getenv("TALENTFIT_EMAIL")
	}
	if password == "" {
		password = os.Getenv("TALENTFIT_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or TALENTFIT_EMAIL env var)")
	}

	if password == "" && !opts.Interactive() {
		return fmt.Errorf("password is required in non-interactive mode (use --password flag or TALENTFIT_PASSWORD env var)")
	}
	password, err := opts.require(password, "password", "Password", true)
	if err != nil {
		return err
	}

	app, err := opts.App()
	if err != nil {
		return err
	}

	fmt.Fprintf(opts.Out, "Logging in to %s...\n", app.BaseURL)

	resp, err := app.Session.Login(cmd.Context(), email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return errors.New("invalid email or password")
		}
		return friendlyError(err, opts.Logger)
	}

	fmt.Fprintln(opts.Out, "✓ Login successful!")
	if resp.User != nil {
		fmt.Fprintf(opts.Out, "  User: %s (%s)\n", resp.User.DisplayName(), resp.User.Email)
		fmt.Fprintf(opts.Out, "  Role: %s\n", resp.User.Role)
	}

	return nil
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.App()
			if err != nil {
				return err
			}
			app.Session.Logout()
			return nil
		},
	}
}

// NewStatusCmd creates the status command
func NewStatusCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether you are signed in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.App()
			if err != nil {
				return err
			}
			if err := app.Initialize(cmd.Context()); err != nil {
				return err
			}

			if app.State.Current() {
				fmt.Fprintf(opts.Out, "Logged in to %s\n", app.BaseURL)
			} else {
				fmt.Fprintf(opts.Out, "Not logged in to %s\n", app.BaseURL)
			}
			return nil
		},
	}
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.App()
			if err != nil {
				return err
			}
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return err
			}

			user, err := app.Session.CurrentUser(cmd.Context())
			if err != nil {
				return friendlyError(err, opts.Logger)
			}

			printUser(opts, user)
			return nil
		},
	}
}

func printUser(opts *Options, user *client.User) {
	fmt.Fprintf(opts.Out, "Name:     %s\n", user.DisplayName())
	fmt.Fprintf(opts.Out, "Email:    %s\n", user.Email)
	fmt.Fprintf(opts.Out, "Role:     %s\n", user.Role)
	fmt.Fprintf(opts.Out, "Verified: %t\n", user.Verified)
	if user.Gender != nil {
		fmt.Fprintf(opts.Out, "Gender:   %s\n", *user.Gender)
	}
	if user.DateOfBirth != nil {
		fmt.Fprintf(opts.Out, "Born:     %s\n", user.DateOfBirth.Format("2006-01-02"))
	}
	if user.Description != nil {
		fmt.Fprintf(opts.Out, "About:    %s\n", *user.Description)
	}
	if user.CVFilename != nil {
		fmt.Fprintf(opts.Out, "CV:       %s\n", *user.CVFilename)
	}
}
