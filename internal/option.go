package internal

import (
	"io"
	"log/slog"
	"time"

	"github.com/starford/nerdnotes/internal/editor"
	"github.com/starford/nerdnotes/internal/gitsync"
	"github.com/starford/nerdnotes/internal/summarizer"
	"github.com/starford/nerdnotes/internal/ui"
)

// Option is a functional option for configuring the application.
type Option func(*App)

// WithSettingsPath sets the settings file location.
func WithSettingsPath(path string) Option {
	return func(a *App) {
		a.settingsPath = path
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithOutput redirects user-facing output.
func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) {
		a.printer = &ui.Printer{Out: out, Err: errOut}
	}
}

// WithDisplay overrides terminal detection.
func WithDisplay(d *ui.DisplayContext) Option {
	return func(a *App) {
		a.display = d
	}
}

// WithCompleter replaces the language model client chosen from settings.
func WithCompleter(c summarizer.Completer) Option {
	return func(a *App) {
		a.completer = c
	}
}

// WithGitRunner replaces the git executable.
func WithGitRunner(r gitsync.Runner) Option {
	return func(a *App) {
		a.gitRunner = r
	}
}

// WithEditorLauncher replaces the external editor launcher.
func WithEditorLauncher(l editor.Launcher) Option {
	return func(a *App) {
		a.launcher = l
	}
}

// WithClock sets the time source used for new notes.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithGetenv sets the environment lookup used for runtime overrides.
func WithGetenv(getenv func(string) string) Option {
	return func(a *App) {
		a.getenv = getenv
	}
}
