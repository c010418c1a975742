package userconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectedServer(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	alias, err := GetSelectedServer()
	require.NoError(t, err)
	assert.Empty(t, alias)

	require.NoError(t, SetSelectedServer("staging"))

	alias, err = GetSelectedServer()
	require.NoError(t, err)
	assert.Equal(t, "staging", alias)

	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "talentfit", "config.json"), path)
	assert.FileExists(t, path)
}

func TestLoad_Corrupt(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "talentfit")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{"), 0600))

	_, err := Load()
	assert.ErrorContains(t, err, "failed to parse user config file")
}
