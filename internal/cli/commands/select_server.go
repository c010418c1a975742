package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talentfit/talentfit/internal/cli/config"
	"github.com/talentfit/talentfit/internal/cli/serverselect"
	"github.com/talentfit/talentfit/internal/cli/userconfig"
)

// NewSelectServerCmd creates the select-server command
func NewSelectServerCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select-server [alias]",
		Short: "Select the backend to use for commands",
		Long: `Select the backend to use for commands.

If no alias is provided, an interactive prompt will be shown.

Examples:
  $ talentfit select-server           # Interactive selection
  $ talentfit select-server staging   # Select by alias`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var alias string
			if len(args) > 0 {
				alias = args[0]
			}
			return runSelectServer(opts, alias)
		},
	}

	return cmd
}

func runSelectServer(opts *Options, alias string) error {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return fmt.Errorf("failed to load config: %w\nRun 'talentfit init <auth-url>' to create a configuration file", err)
	}

	var server *config.Server
	if alias != "" {
		server, err = cfg.GetServerByAlias(alias)
	} else {
		server, err = serverselect.PromptServerSelection(cfg)
	}
	if err != nil {
		return err
	}

	if err := userconfig.SetSelectedServer(server.Alias); err != nil {
		return fmt.Errorf("failed to save selected server: %w", err)
	}

	fmt.Fprintf(opts.Out, "Selected server: %s (%s)\n", server.Alias, server.Auth)
	return nil
}
