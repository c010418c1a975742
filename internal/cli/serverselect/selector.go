package serverselect

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"

	"github.com/talentfit/talentfit/internal/cli/config"
	"github.com/talentfit/talentfit/internal/cli/userconfig"
)

// ResolveServer determines which server to use based on the following priority:
// 1. If serverAlias is provided, use that server
// 2. If user has a selected server in their local config, use that
// 3. If only one server in project config, use that
// 4. Otherwise, prompt user to select a server interactively
func ResolveServer(projectConfig *config.Config, serverAlias string) (*config.Server, error) {
	if serverAlias != "" {
		return projectConfig.GetServerByAlias(serverAlias)
	}

	selected, err := userconfig.GetSelectedServer()
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	if selected != "" {
		server, err := projectConfig.GetServerByAlias(selected)
		if err == nil {
			return server, nil
		}
		// Selected server no longer exists in project config, clear it and continue
		_ = userconfig.SetSelectedServer("")
	}

	if len(projectConfig.Servers) == 1 {
		server := &projectConfig.Servers[0]
		if err := userconfig.SetSelectedServer(server.Alias); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save selected server: %v\n", err)
		}
		return server, nil
	}

	server, err := PromptServerSelection(projectConfig)
	if err != nil {
		return nil, err
	}

	if err := userconfig.SetSelectedServer(server.Alias); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save selected server: %v\n", err)
	}

	return server, nil
}

// PromptServerSelection shows an interactive prompt for the user to select a server
func PromptServerSelection(projectConfig *config.Config) (*config.Server, error) {
	if len(projectConfig.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured in %s", config.ConfigFileName)
	}

	type serverOption struct {
		Label  string
		Server *config.Server
	}

	options := make([]serverOption, len(projectConfig.Servers))
	for i := range projectConfig.Servers {
		server := &projectConfig.Servers[i]
		options[i] = serverOption{
			Label:  fmt.Sprintf("%s (%s)", server.Alias, server.Auth),
			Server: server,
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     "Select a server",
		Items:     options,
		Templates: templates,
		Size:      10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server selection cancelled: %w", err)
	}

	return options[index].Server, nil
}
