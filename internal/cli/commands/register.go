package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/talentfit/talentfit/internal/cli/client"
	"github.com/talentfit/talentfit/internal/models"
)

const dateLayout = "2006-01-02"

type candidateFlags struct {
	email     string
	password  string
	name      string
	lastName  string
	gender    string
	birthDate string
	cv        string
	picture   string
}

type companyFlags struct {
	email       string
	password    string
	name        string
	description string
	picture     string
}

// NewRegisterCmd creates the register command and its per-role subcommands
func NewRegisterCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a TalentFit account",
		Long: `Create a candidate or company account.

Without a subcommand an interactive prompt asks which kind of account to create.

Examples:
  $ talentfit register candidate --email ana@example.com --name Ana --last-name Lopez \
      --gender femenino --birth-date 1990-04-12 --cv ./cv.pdf
  $ talentfit register company --email jobs@acme.com --name Acme --description "We build things"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.Interactive() {
				return fmt.Errorf("choose an account type: 'talentfit register candidate' or 'talentfit register company'")
			}

			index, err := promptChoice("Account type", []string{"Candidate", "Company"})
			if err != nil {
				return err
			}
			if index == 0 {
				return runRegisterCandidate(cmd, opts, &candidateFlags{})
			}
			return runRegisterCompany(cmd, opts, &companyFlags{})
		},
	}

	cmd.AddCommand(newRegisterCandidateCmd(opts))
	cmd.AddCommand(newRegisterCompanyCmd(opts))

	return cmd
}

func newRegisterCandidateCmd(opts *Options) *cobra.Command {
	f := &candidateFlags{}

	cmd := &cobra.Command{
		Use:   "candidate",
		Short: "Create a candidate account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegisterCandidate(cmd, opts, f)
		},
	}

	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.password, "password", "", "Password (at least 8 characters with a letter and a digit)")
	cmd.Flags().StringVar(&f.name, "name", "", "First name")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&f.gender, "gender", "", "Gender: masculino, femenino or otro")
	cmd.Flags().StringVar(&f.birthDate, "birth-date", "", "Date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.cv, "cv", "", "Path to a CV document (pdf, doc, docx)")
	cmd.Flags().StringVar(&f.picture, "picture", "", "Path to a profile picture (jpg, png)")

	return cmd
}

func newRegisterCompanyCmd(opts *Options) *cobra.Command {
	f := &companyFlags{}

	cmd := &cobra.Command{
		Use:   "company",
		Short: "Create a company account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegisterCompany(cmd, opts, f)
		},
	}

	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.password, "password", "", "Password (at least 8 characters with a letter and a digit)")
	cmd.Flags().StringVar(&f.name, "name", "", "Company name")
	cmd.Flags().StringVar(&f.description, "description", "", "Company description")
	cmd.Flags().StringVar(&f.picture, "picture", "", "Path to a logo (jpg, png)")

	return cmd
}

func runRegisterCandidate(cmd *cobra.Command, opts *Options, f *candidateFlags) error {
	var err error
	if f.email, err = opts.require(f.email, "email", "Email", false); err != nil {
		return err
	}
	if f.password, err = opts.require(f.password, "password", "Password", true); err != nil {
		return err
	}
	if f.name, err = opts.require(f.name, "name", "First name", false); err != nil {
		return err
	}
	if f.lastName, err = opts.require(f.lastName, "last-name", "Last name", false); err != nil {
		return err
	}
	if f.gender, err = opts.require(f.gender, "gender", "Gender (masculino, femenino, otro)", false); err != nil {
		return err
	}
	if f.birthDate, err = opts.require(f.birthDate, "birth-date", "Date of birth (YYYY-MM-DD)", false); err != nil {
		return err
	}

	gender, err := models.ParseGender(f.gender)
	if err != nil {
		return err
	}
	born, err := time.Parse(dateLayout, f.birthDate)
	if err != nil {
		return fmt.Errorf("invalid --birth-date '%s', expected YYYY-MM-DD", f.birthDate)
	}

	files, err := attachments(f.cv, f.picture)
	if err != nil {
		return err
	}

	app, err := opts.App()
	if err != nil {
		return err
	}

	user, err := app.Session.RegisterCandidate(cmd.Context(), client.CandidateRequest{
		Email:       f.email,
		Password:    f.password,
		Name:        f.name,
		LastName:    f.lastName,
		Gender:      gender,
		DateOfBirth: born,
	}, files...)
	if err != nil {
		return friendlyError(err, opts.Logger)
	}

	printRegistered(opts, user)
	return nil
}

func runRegisterCompany(cmd *cobra.Command, opts *Options, f *companyFlags) error {
	var err error
	if f.email, err = opts.require(f.email, "email", "Email", false); err != nil {
		return err
	}
	if f.password, err = opts.require(f.password, "password", "Password", true); err != nil {
		return err
	}
	if f.name, err = opts.require(f.name, "name", "Company name", false); err != nil {
		return err
	}
	if f.description, err = opts.require(f.description, "description", "Description", false); err != nil {
		return err
	}

	files, err := attachments("", f.picture)
	if err != nil {
		return err
	}

	app, err := opts.App()
	if err != nil {
		return err
	}

	user, err := app.Session.RegisterCompany(cmd.Context(), client.CompanyRequest{
		Email:       f.email,
		Password:    f.password,
		Name:        f.name,
		Description: f.description,
	}, files...)
	if err != nil {
		return friendlyError(err, opts.Logger)
	}

	printRegistered(opts, user)
	return nil
}

// attachments reads the optional CV and picture files
func attachments(cvPath, picturePath string) ([]client.Attachment, error) {
	var files []client.Attachment
	if cvPath != "" {
		cv, err := client.CVFile(cvPath)
		if err != nil {
			return nil, err
		}
		files = append(files, cv)
	}
	if picturePath != "" {
		picture, err := client.ProfilePictureFile(picturePath)
		if err != nil {
			return nil, err
		}
		files = append(files, picture)
	}
	return files, nil
}

func printRegistered(opts *Options, user *client.User) {
	fmt.Fprintf(opts.Out, "✓ Account created for %s\n", user.Email)

	switch {
	case user.Verified:
		fmt.Fprintln(opts.Out, "\nNext step: run 'talentfit login' to sign in")
	case user.Role == models.RoleCompany:
		fmt.Fprintln(opts.Out, "\nYour company account is pending approval.")
		fmt.Fprintf(opts.Out, "If you received a verification code, run 'talentfit verify --email %s --code <code>'\n", user.Email)
	default:
		fmt.Fprintf(opts.Out, "\nCheck your inbox, then run 'talentfit verify --email %s --code <code>'\n", user.Email)
	}
}
