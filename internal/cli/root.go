package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/talentfit/talentfit/internal/cli/commands"
	"github.com/talentfit/talentfit/internal/logger"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the talentfit command tree around opts
func NewRootCmd(opts *commands.Options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "talentfit",
		Short: "TalentFit - job board from the terminal",
		Long: `TalentFit CLI - sign in, manage your profile and administer the job board.

The backend is taken from --api-url, then TALENTFIT_API_URL, then the
selected server of ./talentfit.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if opts.Debug {
				level = "debug"
			}
			opts.Logger = logger.New(opts.Err, level, "console")
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", "", "UserAPI base URL (or set TALENTFIT_API_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.ServerAlias, "server", "", "Server alias from talentfit.yaml")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Log debug output to stderr")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(opts.Out, "talentfit version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewInitCmd(opts))
	rootCmd.AddCommand(commands.NewSelectServerCmd(opts))
	rootCmd.AddCommand(commands.NewLoginCmd(opts))
	rootCmd.AddCommand(commands.NewLogoutCmd(opts))
	rootCmd.AddCommand(commands.NewStatusCmd(opts))
	rootCmd.AddCommand(commands.NewWhoamiCmd(opts))
	rootCmd.AddCommand(commands.NewRegisterCmd(opts))
	rootCmd.AddCommand(commands.NewVerifyCmd(opts))
	rootCmd.AddCommand(commands.NewProfileCmd(opts))
	rootCmd.AddCommand(commands.NewRecruitersCmd(opts))
	rootCmd.AddCommand(commands.NewRecruitingForCmd(opts))
	rootCmd.AddCommand(commands.NewResignCmd(opts))
	rootCmd.AddCommand(commands.NewAdminCmd(opts))

	return rootCmd
}

// Execute runs the root command. Ctrl-C cancels in-flight requests.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := commands.NewOptions()
	if err := NewRootCmd(opts).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", displayMessage(err))
		return err
	}
	return nil
}

// displayMessage capitalizes the first letter of err for the terminal
func displayMessage(err error) string {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
