package serverselect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentfit/talentfit/internal/cli/config"
	"github.com/talentfit/talentfit/internal/cli/userconfig"
)

func twoServers() *config.Config {
	return &config.Config{Servers: []config.Server{
		{Alias: "staging", Auth: "https://staging.example.com/api/v1"},
		{Alias: "local", Auth: "http://localhost:8000/api/v1"},
	}}
}

func TestResolveServer_ExplicitAlias(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	server, err := ResolveServer(twoServers(), "local")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api/v1", server.Auth)

	_, err = ResolveServer(twoServers(), "prod")
	assert.Error(t, err)
}

func TestResolveServer_RemembersSelection(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, userconfig.SetSelectedServer("staging"))

	server, err := ResolveServer(twoServers(), "")
	require.NoError(t, err)
	assert.Equal(t, "staging", server.Alias)
}

func TestResolveServer_SingleServerIsSaved(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, userconfig.SetSelectedServer("gone"))

	cfg := &config.Config{Servers: []config.Server{{Alias: "only", Auth: "http://only"}}}
	server, err := ResolveServer(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "only", server.Alias)

	selected, err := userconfig.GetSelectedServer()
	require.NoError(t, err)
	assert.Equal(t, "only", selected)
}

func TestPromptServerSelection_Empty(t *testing.T) {
	_, err := PromptServerSelection(&config.Config{})
	assert.ErrorContains(t, err, "no servers configured")
}
