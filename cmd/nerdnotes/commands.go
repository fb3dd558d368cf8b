package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/starford/nerdnotes/internal"
	"github.com/starford/nerdnotes/internal/parser"
)

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "new",
			Usage:     "Create a note from the standard template",
			ArgsUsage: "[tag...]",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Note title", Required: true},
				&cli.StringSliceFlag{Name: "tags", Usage: "Tags for the note (repeatable or comma-separated)"},
			},
			Action: withApp(func(ctx context.Context, cmd *cli.Command, app *internal.App) error {
				return app.NewNote(ctx, cmd.String("title"), collectTags(cmd))
			}),
		},
		{
			Name:  "list",
			Usage: "List notes with their index",
			Action: withApp(func(ctx context.Context, _ *cli.Command, app *internal.App) error {
				return app.List(ctx)
			}),
		},
		{
			Name:  "tags",
			Usage: "List every tag used across notes",
			Action: withApp(func(ctx context.Context, _ *cli.Command, app *internal.App) error {
				return app.Tags(ctx)
			}),
		},
		{
			Name:      "filter",
			Usage:     "List notes that carry all of the given tags",
			ArgsUsage: "[tag...]",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{Name: "tags", Usage: "Required tags (repeatable or comma-separated)"},
			},
			Action: withApp(func(ctx context.Context, cmd *cli.Command, app *internal.App) error {
				return app.Filter(ctx, collectTags(cmd))
			}),
		},
		{
			Name:      "open",
			Usage:     "Open a note in the configured editor",
			ArgsUsage: "[note]",
			Flags:     []cli.Flag{fileFlag()},
			Action: withApp(func(ctx context.Context, cmd *cli.Command, app *internal.App) error {
				ref, err := noteRef(cmd)
				if err != nil {
					return err
				}
				return app.Open(ctx, ref)
			}),
		},
		{
			Name:      "view",
			Usage:     "Print a note, rendered as Markdown on a terminal",
			ArgsUsage: "[note]",
			Flags: []cli.Flag{
				fileFlag(),
				&cli.BoolFlag{Name: "raw", Usage: "Print the file without rendering"},
				&cli.BoolFlag{Name: "follow", Aliases: []string{"f"}, Usage: "Re-render whenever the file changes"},
			},
			Action: withApp(func(ctx context.Context, cmd *cli.Command, app *internal.App) error {
				ref, err := noteRef(cmd)
				if err != nil {
					return err
				}
				return app.View(ctx, ref, cmd.Bool("raw"), cmd.Bool("follow"))
			}),
		},
		{
			Name:      "summarize",
			Usage:     "Generate the Summary section with a language model",
			ArgsUsage: "[note]",
			Flags:     []cli.Flag{fileFlag()},
			Action: withApp(func(ctx context.Context, cmd *cli.Command, app *internal.App) error {
				ref, err := noteRef(cmd)
				if err != nil {
					return err
				}
				return app.Summarize(ctx, ref)
			}),
		},
		{
			Name:  "sync",
			Usage: "Commit and exchange notes with a git remote",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "repo", Usage: "Remote URL, overriding the configured one"},
			},
			Action: withApp(func(ctx context.Context, cmd *cli.Command, app *internal.App) error {
				return app.Sync(ctx, cmd.String("repo"))
			}),
		},
		{
			Name:  "settings",
			Usage: "Show or change settings",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "path", Usage: "Notes directory"},
				&cli.StringFlag{Name: "editor", Usage: "Editor command"},
				&cli.StringFlag{Name: "token", Usage: "OpenAI API token"},
				&cli.StringFlag{Name: "git", Usage: "Git remote URL"},
				&cli.StringFlag{Name: "provider", Usage: "Language model provider (openai, anthropic)"},
				&cli.StringFlag{Name: "anthropic-token", Usage: "Anthropic API token"},
				&cli.StringFlag{Name: "model", Usage: "Model name passed to the provider"},
			},
			Action: withApp(func(ctx context.Context, cmd *cli.Command, app *internal.App) error {
				return app.UpdateSettings(ctx, internal.SettingsUpdate{
					NotesDir:       optional(cmd, "path"),
					Editor:         optional(cmd, "editor"),
					OpenAIToken:    optional(cmd, "token"),
					GitRemote:      optional(cmd, "git"),
					LLMProvider:    optional(cmd, "provider"),
					AnthropicToken: optional(cmd, "anthropic-token"),
					Model:          optional(cmd, "model"),
				})
			}),
		},
	}
}

func withApp(fn func(context.Context, *cli.Command, *internal.App) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return fn(ctx, cmd, app)
	}
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{Name: "file", Usage: "Note file name, path, or index from 'list'"}
}

// noteRef takes the note from --file or the first positional argument.
func noteRef(cmd *cli.Command) (string, error) {
	if ref := cmd.String("file"); ref != "" {
		return ref, nil
	}
	if ref := cmd.Args().First(); ref != "" {
		return ref, nil
	}
	return "", errors.New("a note is required: pass --file <name|path|index>")
}

func collectTags(cmd *cli.Command) []string {
	var raw []string
	for _, v := range append(cmd.StringSlice("tags"), cmd.Args().Slice()...) {
		raw = append(raw, parser.SplitTags(v)...)
	}
	return parser.CleanTags(raw)
}

func optional(cmd *cli.Command, name string) *string {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.String(name)
	return &v
}
