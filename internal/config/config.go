// Package config loads the trainer client configuration from HCL.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete client configuration
type Config struct {
	Engine  EngineConnection `hcl:"engine,block"`
	UI      UISettings       `hcl:"ui,block"`
	History HistorySettings  `hcl:"history,block"`
}

// EngineConnection contains remote engine connection settings
type EngineConnection struct {
	URL            string `hcl:"url"`
	RequestTimeout int    `hcl:"request_timeout,optional"` // seconds
}

// UISettings contains user interface settings
type UISettings struct {
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
	NoColor  bool   `hcl:"no_color,optional"`
}

// HistorySettings controls hand transcript export. Session state itself is
// never persisted; this only writes finished-hand transcripts.
type HistorySettings struct {
	Enabled bool   `hcl:"enabled,optional"`
	Dir     string `hcl:"dir,optional"`
}

// Default returns the default client configuration
func Default() *Config {
	return &Config{
		Engine: EngineConnection{
			URL:            "http://localhost:8000",
			RequestTimeout: 15,
		},
		UI: UISettings{
			LogLevel: "warn",
			LogFile:  "poker-trainer.log",
		},
		History: HistorySettings{
			Enabled: false,
			Dir:     "hands",
		},
	}
}

// Load loads client configuration from an HCL file. A missing file yields
// the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := Default()

	if cfg.Engine.URL == "" {
		cfg.Engine.URL = defaults.Engine.URL
	}
	if cfg.Engine.RequestTimeout == 0 {
		cfg.Engine.RequestTimeout = defaults.Engine.RequestTimeout
	}
	if cfg.UI.LogLevel == "" {
		cfg.UI.LogLevel = defaults.UI.LogLevel
	}
	if cfg.UI.LogFile == "" {
		cfg.UI.LogFile = defaults.UI.LogFile
	}
	if cfg.History.Dir == "" {
		cfg.History.Dir = defaults.History.Dir
	}

	return &cfg, nil
}

// Validate validates the client configuration
func (c *Config) Validate() error {
	if c.Engine.URL == "" {
		return fmt.Errorf("engine URL is required")
	}

	if c.Engine.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.UI.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}

	if c.History.Enabled && c.History.Dir == "" {
		return fmt.Errorf("history dir is required when history is enabled")
	}

	return nil
}
