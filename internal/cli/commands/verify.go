package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the verify command. By itself it completes a
// registration; "check" and "resend" cover the rest of the code flow.
func NewVerifyCmd(opts *Options) *cobra.Command {
	var email, code string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Activate an account with the e-mailed verification code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email, err = opts.require(email, "email", "Email", false); err != nil {
				return err
			}
			if code, err = opts.require(code, "code", "Verification code", false); err != nil {
				return err
			}

			app, err := opts.App()
			if err != nil {
				return err
			}

			user, err := app.Session.CompleteRegistration(cmd.Context(), email, code)
			if err != nil {
				return friendlyError(err, opts.Logger)
			}

			fmt.Fprintf(opts.Out, "✓ Account %s verified\n", user.Email)
			fmt.Fprintln(opts.Out, "\nNext step: run 'talentfit login' to sign in")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address of the account")
	cmd.Flags().StringVar(&code, "code", "", "Six-digit verification code")

	cmd.AddCommand(newVerifyCheckCmd(opts))
	cmd.AddCommand(newVerifyResendCmd(opts))

	return cmd
}

func newVerifyCheckCmd(opts *Options) *cobra.Command {
	var email, code string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a verification code without using it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email, err = opts.require(email, "email", "Email", false); err != nil {
				return err
			}
			if code, err = opts.require(code, "code", "Verification code", false); err != nil {
				return err
			}

			app, err := opts.App()
			if err != nil {
				return err
			}

			if err := app.Session.VerifyEmail(cmd.Context(), email, code); err != nil {
				return friendlyError(err, opts.Logger)
			}

			fmt.Fprintln(opts.Out, "✓ Code is valid")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address of the account")
	cmd.Flags().StringVar(&code, "code", "", "Six-digit verification code")

	return cmd
}

func newVerifyResendCmd(opts *Options) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "resend",
		Short: "Send a new verification code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email, err = opts.require(email, "email", "Email", false); err != nil {
				return err
			}

			app, err := opts.App()
			if err != nil {
				return err
			}

			if err := app.Session.ResendVerification(cmd.Context(), email); err != nil {
				return friendlyError(err, opts.Logger)
			}

			fmt.Fprintf(opts.Out, "✓ A new code was sent to %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address of the account")

	return cmd
}
