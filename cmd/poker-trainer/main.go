package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`

	Config   string `short:"c" default:"poker-trainer.hcl" help:"Path to HCL configuration file"`
	Engine   string `short:"e" help:"Engine URL (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	LogFile  string `help:"Log file path (overrides config)"`
	NoColor  bool   `help:"Disable color output"`

	Play   PlayCmd   `cmd:"" default:"1" help:"Play a training session against the engine"`
	Health HealthCmd `cmd:"" help:"Probe engine health and exit"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("poker-trainer"),
		kong.Description("Terminal client for the heads-up poker training engine"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
