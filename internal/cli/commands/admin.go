package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/talentfit/talentfit/internal/cli/client"
	"github.com/talentfit/talentfit/internal/cli/guard"
)

type listFunc func(ctx context.Context, token string, skip, limit int) ([]client.User, error)

// NewAdminCmd creates the admin command
func NewAdminCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer accounts (admin only)",
	}

	cmd.AddCommand(newAdminListCmd(opts, "users", "List all accounts", func(a *App) listFunc { return a.API.ListUsers }))
	cmd.AddCommand(newAdminListCmd(opts, "candidates", "List candidate accounts", func(a *App) listFunc { return a.API.ListCandidates }))
	cmd.AddCommand(newAdminListCmd(opts, "pending", "List companies awaiting approval", func(a *App) listFunc { return a.API.ListPendingCompanies }))

	cmd.AddCommand(&cobra.Command{
		Use:   "approve <company-email>",
		Short: "Approve a company account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.App()
			if err != nil {
				return err
			}
			token, _, err := app.requireView(cmd.Context(), guard.AdminDashboardPath)
			if err != nil {
				return err
			}

			if err := app.API.VerifyCompany(cmd.Context(), token, args[0]); err != nil {
				return friendlyError(err, opts.Logger)
			}

			fmt.Fprintf(opts.Out, "✓ Company %s approved\n", args[0])
			return nil
		},
	})

	return cmd
}

func newAdminListCmd(opts *Options, use, short string, list func(*App) listFunc) *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if skip < 0 || limit < 1 {
				return fmt.Errorf("--skip must be >= 0 and --limit >= 1")
			}

			app, err := opts.App()
			if err != nil {
				return err
			}
			token, _, err := app.requireView(cmd.Context(), guard.AdminDashboardPath)
			if err != nil {
				return err
			}

			users, err := list(app)(cmd.Context(), token, skip, limit)
			if err != nil {
				return friendlyError(err, opts.Logger)
			}

			if len(users) == 0 {
				fmt.Fprintln(opts.Out, "No accounts found.")
				return nil
			}

			w := tabwriter.NewWriter(opts.Out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tVERIFIED")
			fmt.Fprintln(w, "──\t────\t─────\t────\t────────")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", u.ID, u.DisplayName(), u.Email, u.Role, u.Verified)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "Number of accounts to skip")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of accounts to show")

	return cmd
}
