package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azdohist/cli/internal/testutils"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "organization: Acme\nproject: Widgets\ntoken_file: /home/dev/.azdohist/azdo.token\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := loadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme", cfg.Organization)
	assert.Equal(t, "Widgets", cfg.Project)
	assert.Equal(t, "/home/dev/.azdohist/azdo.token", cfg.TokenFile)
}

func TestLoadMissingFileReturnsEmptyConfig(t *testing.T) {
	cfg, err := loadFromFile(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("organization: [unclosed"), 0600))

	_, err := loadFromFile(path)
	assert.Error(t, err)
}

func TestResolvePrecedence(t *testing.T) {
	cfg := &Config{Organization: "FileOrg", Project: "FileProj", TokenFile: "/file/token"}

	tests := []struct {
		name        string
		flagOrg     string
		env         map[string]string
		expectedOrg string
	}{
		{
			name:        "Flag wins over env and file",
			flagOrg:     "FlagOrg",
			env:         map[string]string{"AZDOHIST_ORG": "EnvOrg", "AZDOHIST_PROJECT": "", "AZDOHIST_TOKEN_FILE": ""},
			expectedOrg: "FlagOrg",
		},
		{
			name:        "Env wins over file",
			env:         map[string]string{"AZDOHIST_ORG": "EnvOrg", "AZDOHIST_PROJECT": "", "AZDOHIST_TOKEN_FILE": ""},
			expectedOrg: "EnvOrg",
		},
		{
			name:        "File is the fallback",
			env:         map[string]string{"AZDOHIST_ORG": "", "AZDOHIST_PROJECT": "", "AZDOHIST_TOKEN_FILE": ""},
			expectedOrg: "FileOrg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := testutils.SetEnv(t, tt.env)
			defer cleanup()

			org, proj, file := cfg.Resolve(tt.flagOrg, "", "")
			assert.Equal(t, tt.expectedOrg, org)
			assert.Equal(t, "FileProj", proj)
			assert.Equal(t, "/file/token", file)
		})
	}
}
