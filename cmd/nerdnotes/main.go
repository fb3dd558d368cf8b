package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/nerdnotes/internal"
	"github.com/starford/nerdnotes/internal/ui"
)

func newApp(cmd *cli.Command) (*internal.App, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cmd.String("log-level"), err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	opts := []internal.Option{internal.WithLogger(logger)}
	if path := cmd.String("settings"); path != "" {
		opts = append(opts, internal.WithSettingsPath(path))
	}

	app, err := internal.New(opts...)
	if err != nil {
		return nil, err
	}
	return app, nil
}

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:  "nerdnotes",
		Usage: "Structured Markdown notes with tags, summaries and git sync",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "settings",
				Usage:       "Path to settings file",
				DefaultText: "~/.nerd_notes/settings.yaml",
				Sources:     cli.EnvVars(internal.EnvSettings),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Diagnostic log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars(internal.EnvLogLevel),
			},
		},
		Commands: commands(),
	}
}

func main() {
	if err := rootCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
		os.Exit(1)
	}
}
