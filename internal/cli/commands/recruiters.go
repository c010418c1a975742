package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/talentfit/talentfit/internal/cli/guard"
	"github.com/talentfit/talentfit/internal/models"
)

// NewRecruitersCmd creates the recruiters command used by company accounts
func NewRecruitersCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recruiters",
		Short: "Manage the recruiters of your company",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List recruiters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.App()
			if err != nil {
				return err
			}
			token, _, err := app.requireView(cmd.Context(), guard.JobOpeningAdministratorPath)
			if err != nil {
				return err
			}

			recruiters, err := app.API.ListRecruiters(cmd.Context(), token)
			if err != nil {
				return friendlyError(err, opts.Logger)
			}

			if len(recruiters) == 0 {
				fmt.Fprintln(opts.Out, "No recruiters assigned.")
				fmt.Fprintln(opts.Out, "\nAssign one with: talentfit recruiters add <candidate-email>")
				return nil
			}

			w := tabwriter.NewWriter(opts.Out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tEMAIL\tASSIGNED AT")
			fmt.Fprintln(w, "────\t─────\t───────────")
			for _, r := range recruiters {
				name := r.Name
				if r.LastName != nil && *r.LastName != "" {
					name += " " + *r.LastName
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, r.Email, r.AssignedAt.Format(dateLayout))
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <candidate-email>",
		Short: "Assign a candidate as recruiter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.App()
			if err != nil {
				return err
			}
			token, _, err := app.requireView(cmd.Context(), guard.JobOpeningAdministratorPath)
			if err != nil {
				return err
			}

			if err := app.API.AddRecruiter(cmd.Context(), token, args[0]); err != nil {
				return friendlyError(err, opts.Logger)
			}

			fmt.Fprintf(opts.Out, "✓ %s is now a recruiter\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <candidate-email>",
		Aliases: []string{"remove"},
		Short:   "Unassign a recruiter",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.App()
			if err != nil {
				return err
			}
			token, _, err := app.requireView(cmd.Context(), guard.JobOpeningAdministratorPath)
			if err != nil {
				return err
			}

			if err := app.API.RemoveRecruiter(cmd.Context(), token, args[0]); err != nil {
				return friendlyError(err, opts.Logger)
			}

			fmt.Fprintf(opts.Out, "✓ %s removed\n", args[0])
			return nil
		},
	})

	return cmd
}

// NewRecruitingForCmd lists the companies a candidate recruits for
func NewRecruitingForCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "recruiting-for",
		Short: "List the companies you recruit for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.App()
			if err != nil {
				return err
			}
			token, err := requireCandidate(cmd, app)
			if err != nil {
				return err
			}

			companies, err := app.API.RecruitingFor(cmd.Context(), token)
			if err != nil {
				return friendlyError(err, opts.Logger)
			}

			if len(companies) == 0 {
				fmt.Fprintln(opts.Out, "You are not recruiting for any company.")
				return nil
			}

			w := tabwriter.NewWriter(opts.Out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCOMPANY\tEMAIL\tSINCE")
			fmt.Fprintln(w, "──\t───────\t─────\t─────")
			for _, c := range companies {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.AssignedAt.Format(dateLayout))
			}
			return w.Flush()
		},
	}
}

// NewResignCmd stops recruiting for a company
func NewResignCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "resign <company-id>",
		Short: "Stop recruiting for a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.App()
			if err != nil {
				return err
			}
			token, err := requireCandidate(cmd, app)
			if err != nil {
				return err
			}

			if err := app.API.ResignFromCompany(cmd.Context(), token, args[0]); err != nil {
				return friendlyError(err, opts.Logger)
			}

			fmt.Fprintln(opts.Out, "✓ You are no longer a recruiter for this company")
			return nil
		},
	}
}

func requireCandidate(cmd *cobra.Command, app *App) (string, error) {
	token, err := app.requireSession(cmd.Context())
	if err != nil {
		return "", err
	}

	user, err := app.Session.CurrentUser(cmd.Context())
	if err != nil {
		return "", friendlyError(err, app.logger)
	}
	if user.Role != models.RoleCandidate {
		return "", errNotCandidate
	}
	return token, nil
}
