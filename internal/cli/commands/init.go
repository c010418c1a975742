package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/talentfit/talentfit/internal/cli/client"
	"github.com/talentfit/talentfit/internal/cli/config"
)

const healthCheckTimeout = 5 * time.Second

type initOptions struct {
	alias     string
	jobs      string
	matching  string
	assistant string
}

// NewInitCmd creates the init command
func NewInitCmd(opts *Options) *cobra.Command {
	o := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init <auth-url>",
		Short: "Add a TalentFit backend to ./talentfit.yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context(), opts, args[0], o)
		},
	}

	cmd.Flags().StringVar(&o.alias, "alias", "", "Name of the server (defaults to server-N)")
	cmd.Flags().StringVar(&o.jobs, "jobs", "", "Jobs API base URL")
	cmd.Flags().StringVar(&o.matching, "matching", "", "Matching API base URL")
	cmd.Flags().StringVar(&o.assistant, "assistant", "", "Assistant API base URL")

	return cmd
}

func runInit(ctx context.Context, opts *Options, authURL string, o *initOptions) error {
	u, err := url.Parse(authURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid auth URL '%s', expected e.g. http://localhost:8000/api/v1", authURL)
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(currentDir, config.ConfigFileName)

	cfg := &config.Config{}
	isNewConfig := true
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		isNewConfig = false
		fmt.Fprintf(opts.Out, "Found existing %s\n", config.ConfigFileName)
	}

	for _, server := range cfg.Servers {
		if server.Auth == authURL {
			fmt.Fprintf(opts.Out, "Server %s already exists in %s as '%s'\n", authURL, config.ConfigFileName, server.Alias)
			return nil
		}
	}

	alias := o.alias
	if alias == "" {
		alias = fmt.Sprintf("server-%d", len(cfg.Servers)+1)
	}
	if _, err := cfg.GetServerByAlias(alias); err == nil {
		return fmt.Errorf("alias '%s' is already used in %s", alias, config.ConfigFileName)
	}

	cfg.Servers = append(cfg.Servers, config.Server{
		Alias:     alias,
		Auth:      authURL,
		Jobs:      o.jobs,
		Matching:  o.matching,
		Assistant: o.assistant,
	})

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	// An unreachable server is still saved, it may simply not be running yet
	healthCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := client.New(authURL).Health(healthCtx); err != nil {
		opts.Logger.Debug().Err(err).Str("url", authURL).Msg("Health check failed")
		fmt.Fprintf(opts.Err, "⚠ Could not reach %s, check the URL or start the server\n", authURL)
	}

	if isNewConfig {
		fmt.Fprintf(opts.Out, "✓ Created ./%s with server %s (%s)\n", config.ConfigFileName, alias, authURL)
	} else {
		fmt.Fprintf(opts.Out, "✓ Added server %s (%s) to ./%s\n", alias, authURL, config.ConfigFileName)
	}

	fmt.Fprintln(opts.Out, "\nNext steps:")
	fmt.Fprintln(opts.Out, "  1. Run 'talentfit register' to create an account")
	fmt.Fprintln(opts.Out, "  2. Run 'talentfit login' to sign in")

	return nil
}
