// Package internal wires settings, storage and the note operations behind
// each command.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/starford/nerdnotes/internal/apperr"
	"github.com/starford/nerdnotes/internal/editor"
	"github.com/starford/nerdnotes/internal/gitsync"
	"github.com/starford/nerdnotes/internal/noteservice"
	"github.com/starford/nerdnotes/internal/storage"
	"github.com/starford/nerdnotes/internal/summarizer"
	"github.com/starford/nerdnotes/internal/ui"
	"github.com/starford/nerdnotes/internal/watch"
	pkgconfig "github.com/starford/nerdnotes/pkg/config"
)

const clearScreen = "\033[H\033[2J"

// App holds everything a single command invocation needs. Settings are
// loaded once in New and passed down explicitly.
type App struct {
	settingsPath string
	settings     Settings // as persisted
	effective    Settings // with environment overrides

	logger    *slog.Logger
	printer   *ui.Printer
	display   *ui.DisplayContext
	notes     *noteservice.Service
	completer summarizer.Completer
	gitRunner gitsync.Runner
	launcher  editor.Launcher
	now       func() time.Time
	getenv    func(string) string
}

// New loads the settings file, creating it with defaults when missing, and
// prepares the note service.
func New(opts ...Option) (*App, error) {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}

	if app.settingsPath == "" {
		app.settingsPath = DefaultSettingsPath()
	}
	if app.logger == nil {
		app.logger = slog.Default()
	}
	if app.printer == nil {
		app.printer = &ui.Printer{Out: os.Stdout, Err: os.Stderr}
	}
	if app.display == nil {
		app.display = ui.NewDisplayContext(os.Stdout)
	}
	if app.now == nil {
		app.now = time.Now
	}
	if app.getenv == nil {
		app.getenv = os.Getenv
	}
	if app.launcher == nil {
		app.launcher = editor.NewExecLauncher()
	}

	settings := NewDefaultSettings()
	created, err := pkgconfig.LoadOrCreate(app.settingsPath, NewDefaultSettings(), settings)
	switch {
	case errors.Is(err, pkgconfig.ErrInvalid):
		// Keep going so 'settings' can repair the file.
		app.logger.Warn("settings file has invalid values",
			slog.String("path", app.settingsPath), slog.String("error", err.Error()))
		app.printer.Warnf("Settings file %s has invalid values (%v). Fix them with 'nerdnotes settings'.", app.settingsPath, err)
	case err != nil:
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if created {
		app.logger.Info("created settings file", slog.String("path", app.settingsPath))
	}
	app.settings = *settings
	app.effective = settings.WithEnv(app.getenv)
	if app.effective.NotesDir == "" {
		app.effective.NotesDir = DefaultNotesDir
	}

	store, err := storage.NewFS(ExpandHome(app.effective.NotesDir))
	if err != nil {
		return nil, err
	}
	app.notes = noteservice.NewService(store, app.logger, app.now)

	app.logger.Debug("settings loaded",
		slog.String("settings_path", app.settingsPath),
		slog.String("notes_dir", store.Root()))
	return app, nil
}

// NewNote creates a note and prints its path.
func (a *App) NewNote(ctx context.Context, title string, tags []string) error {
	path, err := a.notes.CreateNote(ctx, noteservice.CreateInput{Title: title, Tags: tags})
	if err != nil {
		return err
	}
	a.printer.Successf("Created note: %s", path)
	return nil
}

// List prints every note with its display index.
func (a *App) List(ctx context.Context) error {
	refs, err := a.notes.ListFiles(ctx)
	if errors.Is(err, apperr.ErrNotesDirMissing) {
		a.printer.Warnf("Notes directory %s does not exist yet. Create a note first.", a.notes.Root())
		return nil
	}
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		a.printer.Println("No notes found.")
		return nil
	}
	for _, r := range refs {
		a.printer.Println(ui.NoteLine(r.Index, r.Filename))
	}
	return nil
}

// Tags prints the sorted union of tags across all notes.
func (a *App) Tags(ctx context.Context) error {
	tags, err := a.notes.AggregateTags(ctx)
	if errors.Is(err, apperr.ErrNotesDirMissing) {
		a.printer.Warnf("Notes directory %s does not exist yet.", a.notes.Root())
		return nil
	}
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		a.printer.Println("No tags found.")
		return nil
	}
	for _, t := range tags {
		a.printer.Println(t)
	}
	return nil
}

// Filter prints the notes carrying all of tags.
func (a *App) Filter(ctx context.Context, tags []string) error {
	if len(tags) == 0 {
		return errors.New("at least one tag is required")
	}
	refs, err := a.notes.FilterByTags(ctx, tags)
	if errors.Is(err, apperr.ErrNotesDirMissing) {
		a.printer.Warnf("Notes directory %s does not exist yet.", a.notes.Root())
		return nil
	}
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		a.printer.Printf("No notes found with tags: %s\n", strings.Join(tags, ", "))
		return nil
	}
	for _, r := range refs {
		a.printer.Println(ui.NoteLine(r.Index, r.Filename))
	}
	return nil
}

// Open launches the configured editor on the referenced note.
func (a *App) Open(ctx context.Context, ref string) error {
	command, err := editor.Resolve(a.effective.Editor, a.getenv)
	if err != nil {
		return err
	}
	path, err := a.notes.ResolveExisting(ctx, ref)
	if err != nil {
		return err
	}

	out, err := a.launcher.Open(ctx, command, path)
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		a.logger.Warn("editor exited with non-zero status", slog.Int("exit_code", out.ExitCode))
		a.printer.Warnf("Editor exited with status %d", out.ExitCode)
	}
	if out.Changed {
		a.printer.Successf("Saved changes to %s", path)
	} else {
		a.printer.Infof("No changes to %s", path)
	}
	return nil
}

// View prints the referenced note, rendered on a terminal unless raw is set.
// With follow it keeps re-rendering on change until interrupted.
func (a *App) View(ctx context.Context, ref string, raw, follow bool) error {
	path, err := a.notes.ResolveExisting(ctx, ref)
	if err != nil {
		return err
	}
	data, err := a.notes.Read(path)
	if err != nil {
		return err
	}
	if err := a.show(data, raw, false); err != nil {
		return err
	}
	if !follow {
		return nil
	}

	return watch.RunForeground(ctx, a.logger, func(ctx context.Context) error {
		return watch.Follow(ctx, path, a.logger, func(data []byte) error {
			return a.show(data, raw, true)
		})
	})
}

func (a *App) show(data []byte, raw, refresh bool) error {
	out, err := a.display.Render(string(data), raw)
	if err != nil {
		return fmt.Errorf("render note: %w", err)
	}
	if refresh && a.display.IsTTY {
		a.printer.Printf("%s", clearScreen)
	}
	a.printer.Printf("%s", out)
	if !strings.HasSuffix(out, "\n") {
		a.printer.Println()
	}
	return nil
}

// Summarize generates and stores the Summary section of the referenced note.
func (a *App) Summarize(ctx context.Context, ref string) error {
	completer, err := a.summaryCompleter()
	if err != nil {
		return err
	}
	path, err := a.notes.ResolveExisting(ctx, ref)
	if err != nil {
		return err
	}

	summary, err := summarizer.New(a.notes, completer, a.logger).Summarize(ctx, path)
	if err != nil {
		if summary != "" {
			a.printer.Warnf("The summary could not be saved to %s. Generated text:", path)
			a.printer.Println(summary)
		}
		return err
	}
	a.printer.Successf("Summary updated successfully:")
	a.printer.Println(summary)
	return nil
}

func (a *App) summaryCompleter() (summarizer.Completer, error) {
	if a.completer != nil {
		return a.completer, nil
	}
	return summarizer.NewCompleter(summarizer.Config{
		Provider:       a.effective.LLMProvider,
		OpenAIToken:    a.effective.OpenAIToken,
		AnthropicToken: a.effective.AnthropicToken,
		Model:          a.effective.Model,
		BaseURL:        a.getenv(EnvLLMBaseURL),
	})
}

// Sync mirrors the notes directory to repo, or to the configured remote when
// repo is empty.
func (a *App) Sync(ctx context.Context, repo string) error {
	remote := repo
	if remote == "" {
		remote = a.effective.GitRemote
	}
	if remote == "" {
		return apperr.NotConfigured("git remote", "run 'nerdnotes settings --git <url>' or pass --repo")
	}
	if err := ValidateRemote(remote); err != nil {
		return err
	}

	runner := a.gitRunner
	if runner == nil {
		r, err := gitsync.NewExecRunner()
		if err != nil {
			return err
		}
		runner = r
	}

	agent := gitsync.NewAgent(runner, a.logger, func(msg string) { a.printer.Println(msg) })
	return agent.Sync(ctx, a.notes.Root(), remote)
}
