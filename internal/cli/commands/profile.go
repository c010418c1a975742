package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/talentfit/talentfit/internal/cli/client"
	"github.com/talentfit/talentfit/internal/models"
)

// NewProfileCmd creates the profile command
func NewProfileCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}

	cmd.AddCommand(newProfileUpdateCmd(opts))

	return cmd
}

func newProfileUpdateCmd(opts *Options) *cobra.Command {
	var name, lastName, gender, birthDate, description, cv, picture string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change fields of your profile",
		Long: `Change fields of your profile. Only the flags you pass are sent.

Candidates may change --name, --last-name, --gender, --birth-date, --cv and --picture.
Companies may change --name, --description and --picture.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.App()
			if err != nil {
				return err
			}
			token, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}

			user, err := app.Session.CurrentUser(cmd.Context())
			if err != nil {
				return friendlyError(err, opts.Logger)
			}

			changed := func(flag string) bool { return cmd.Flags().Changed(flag) }

			var updated *client.User
			switch user.Role {
			case models.RoleCandidate:
				if changed("description") {
					return fmt.Errorf("--description is only available to companies")
				}

				var in client.CandidateUpdate
				if changed("name") {
					in.Name = &name
				}
				if changed("last-name") {
					in.LastName = &lastName
				}
				if changed("gender") {
					g, err := models.ParseGender(gender)
					if err != nil {
						return err
					}
					in.Gender = &g
				}
				if changed("birth-date") {
					born, err := time.Parse(dateLayout, birthDate)
					if err != nil {
						return fmt.Errorf("invalid --birth-date '%s', expected YYYY-MM-DD", birthDate)
					}
					in.DateOfBirth = &born
				}

				files, err := attachments(cv, picture)
				if err != nil {
					return err
				}
				if in == (client.CandidateUpdate{}) && len(files) == 0 {
					return errNotActionable
				}

				updated, err = app.API.UpdateCandidate(cmd.Context(), token, in, files...)
				if err != nil {
					return friendlyError(err, opts.Logger)
				}

			case models.RoleCompany:
				for _, flag := range []string{"last-name", "gender", "birth-date", "cv"} {
					if changed(flag) {
						return fmt.Errorf("--%s is only available to candidates", flag)
					}
				}

				var in client.CompanyUpdate
				if changed("name") {
					in.Name = &name
				}
				if changed("description") {
					in.Description = &description
				}

				files, err := attachments("", picture)
				if err != nil {
					return err
				}
				if in == (client.CompanyUpdate{}) && len(files) == 0 {
					return errNotActionable
				}

				updated, err = app.API.UpdateCompany(cmd.Context(), token, in, files...)
				if err != nil {
					return friendlyError(err, opts.Logger)
				}

			default:
				return fmt.Errorf("%s accounts have no editable profile", user.Role)
			}

			fmt.Fprintln(opts.Out, "✓ Profile updated")
			printUser(opts, updated)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name (candidates)")
	cmd.Flags().StringVar(&gender, "gender", "", "Gender: masculino, femenino or otro (candidates)")
	cmd.Flags().StringVar(&birthDate, "birth-date", "", "Date of birth YYYY-MM-DD (candidates)")
	cmd.Flags().StringVar(&description, "description", "", "Description (companies)")
	cmd.Flags().StringVar(&cv, "cv", "", "Path to a new CV (candidates)")
	cmd.Flags().StringVar(&picture, "picture", "", "Path to a new profile picture")

	return cmd
}
