package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/pokertrainer/internal/engine"
)

// HealthCmd probes the engine's health endpoint and exits
type HealthCmd struct {
	Timeout time.Duration `default:"5s" help:"Probe timeout"`
}

func (h *HealthCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr)
	logger.SetLevel(log.WarnLevel)

	client := engine.NewClient(cfg.Engine.URL, h.Timeout, logger)

	ctx, cancel := context.WithTimeout(context.Background(), h.Timeout)
	defer cancel()

	status, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("engine at %s is not healthy: %w", cfg.Engine.URL, err)
	}
	fmt.Printf("engine at %s reports %q\n", cfg.Engine.URL, status)
	return nil
}
