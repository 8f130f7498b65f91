package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"webrunner/infrastructure/config"
	"webrunner/infrastructure/files"
	"webrunner/presentation/terminal"

	"github.com/urfave/cli/v2"
)

// Version is set at build time
var Version = "dev"

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "Run a JSON scenario in a browser",
	ArgsUsage: "<scenario.json>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "browser",
			Aliases: []string{"b"},
			Usage:   "Browser to launch (chrome, chrome-headless, chrome-debug, firefox, firefox-headless, safari, remote, playwright-chromium, playwright-firefox, playwright-webkit)",
			EnvVars: []string{"WEBRUNNER_BROWSER"},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "INI config file",
			Value:   "config.ini",
		},
	},
	Action: runScenario,
}

var zipCommand = &cli.Command{
	Name:      "zip",
	Usage:     "Zip a directory, e.g. allure-results",
	ArgsUsage: "<dir> <out.zip>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return cli.Exit("usage: webrunner zip <dir> <out.zip>", 2)
		}
		count, err := files.ZipDirectory(c.Args().Get(0), c.Args().Get(1))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Zipped %d file(s) into %s\n", count, c.Args().Get(1))
		return nil
	},
}

func runScenario(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: webrunner run [--browser name] [--config file] <scenario.json>", 2)
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := config.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	termInterface := terminal.NewTerminalInterface(cfg, logger, c.App.Writer)
	return termInterface.Run(ctx, c.Args().First(), c.String("browser"))
}

func main() {
	app := &cli.App{
		Name:    "webrunner",
		Usage:   "Browser automation helpers for UI tests",
		Version: Version,
		Commands: []*cli.Command{
			runCommand,
			zipCommand,
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
