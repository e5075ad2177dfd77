package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "poker-trainer.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.hcl"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Engine.URL)
	assert.Equal(t, 15, cfg.Engine.RequestTimeout)
	assert.Equal(t, "warn", cfg.UI.LogLevel)
	assert.False(t, cfg.History.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
engine {
	url             = "http://trainer.local:9000"
	request_timeout = 30
}

ui {
	log_level = "debug"
	log_file  = "debug.log"
	no_color  = true
}

history {
	enabled = true
	dir     = "transcripts"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://trainer.local:9000", cfg.Engine.URL)
	assert.Equal(t, 30, cfg.Engine.RequestTimeout)
	assert.Equal(t, "debug", cfg.UI.LogLevel)
	assert.Equal(t, "debug.log", cfg.UI.LogFile)
	assert.True(t, cfg.UI.NoColor)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "transcripts", cfg.History.Dir)
	require.NoError(t, cfg.Validate())
}

func TestLoadAppliesFieldDefaults(t *testing.T) {
	path := writeConfig(t, `
engine {
	url = "http://trainer.local:9000"
}

ui {}

history {}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Engine.RequestTimeout)
	assert.Equal(t, "warn", cfg.UI.LogLevel)
	assert.Equal(t, "poker-trainer.log", cfg.UI.LogFile)
	assert.Equal(t, "hands", cfg.History.Dir)
}

func TestLoadRejectsMalformedHCL(t *testing.T) {
	path := writeConfig(t, `engine { url = `)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing engine url",
			mutate:  func(c *Config) { c.Engine.URL = "" },
			wantErr: "engine URL is required",
		},
		{
			name:    "non-positive timeout",
			mutate:  func(c *Config) { c.Engine.RequestTimeout = 0 },
			wantErr: "request timeout must be positive",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.UI.LogLevel = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name: "history enabled without dir",
			mutate: func(c *Config) {
				c.History.Enabled = true
				c.History.Dir = ""
			},
			wantErr: "history dir is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
