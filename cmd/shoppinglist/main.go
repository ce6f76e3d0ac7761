// Package main is the entry point for the shopping list.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/vyrodovalexey/shoppinglist/internal/config"
)

var version = "dev"

// options holds the global flags.
type options struct {
	ConfigPath string
	LogLevel   string
	LogFile    string
}

// app is shared by the subcommands once Before has run.
type app struct {
	opts options
	cfg  *config.Config
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	a := &app{}

	tuiCmd := a.tuiCommand()

	return &cli.Command{
		Name:      "shoppinglist",
		Usage:     "Keep a shopping list in the terminal or serve it to other devices",
		UsageText: "shoppinglist [global options] [command [command options]]",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to a yaml, toml or json config file",
				Sources:     cli.EnvVars("SHOPLIST_CONFIG"),
				Destination: &a.opts.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("SHOPLIST_LOG_LEVEL"),
				Destination: &a.opts.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (tui logs nowhere without it, serve logs to stdout)",
				Sources:     cli.EnvVars("SHOPLIST_LOG_FILE"),
				Destination: &a.opts.LogFile,
			},
		},
		Before: func(ctx context.Context, _ *cli.Command) (context.Context, error) {
			cfg, err := a.loadConfig()
			if err != nil {
				return ctx, err
			}
			a.cfg = cfg
			return ctx, nil
		},
		Commands: []*cli.Command{
			tuiCmd,
			a.serveCommand(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 0 {
				return fmt.Errorf("unknown command %q. Run 'shoppinglist --help' for usage", c.Args().First())
			}
			return tuiCmd.Action(ctx, c)
		},
	}
}

// loadConfig reads the config and applies the global flags over it.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if a.opts.LogLevel != "" {
		cfg.Log.Level = a.opts.LogLevel
	}
	if a.opts.LogFile != "" {
		cfg.Log.File = a.opts.LogFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate flags: %w", err)
	}

	return cfg, nil
}
