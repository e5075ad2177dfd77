package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/pokertrainer/internal/config"
	"github.com/lox/pokertrainer/internal/engine"
	"github.com/lox/pokertrainer/internal/history"
	"github.com/lox/pokertrainer/internal/session"
	"github.com/lox/pokertrainer/internal/tui"
)

// PlayCmd runs the interactive training session
type PlayCmd struct{}

func (p *PlayCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	// The TUI owns stdout, so logs go to a file.
	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	logger := newLogger(logFile, cfg.UI.LogLevel)
	logger.Info("Starting poker trainer",
		"engine", cfg.Engine.URL,
		"config", cli.Config,
		"version", version)

	if cfg.UI.NoColor || cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	client := engine.NewClient(cfg.Engine.URL, time.Duration(cfg.Engine.RequestTimeout)*time.Second, logger)

	var opts []session.Option
	if cfg.History.Enabled {
		recorder, err := history.NewRecorder(cfg.History.Dir, logger)
		if err != nil {
			return err
		}
		opts = append(opts, session.WithRecorder(recorder))
	}
	controller := session.NewController(client, logger, opts...)

	program := tea.NewProgram(tui.New(controller, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// loadConfig loads the HCL config and applies command line overrides
func loadConfig(cli *CLI) (*config.Config, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if cli.Engine != "" {
		cfg.Engine.URL = cli.Engine
	}
	if cli.LogLevel != "" {
		cfg.UI.LogLevel = cli.LogLevel
	}
	if cli.LogFile != "" {
		cfg.UI.LogFile = cli.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds a file-backed logger at the configured level
func newLogger(out *os.File, level string) *log.Logger {
	logger := log.New(out)
	switch level {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}
