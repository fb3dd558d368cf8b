package internal

import (
	"context"
	"fmt"
	"os"

	pkgconfig "github.com/starford/nerdnotes/pkg/config"
)

// SettingsUpdate carries the settings to change. Nil fields are left alone.
type SettingsUpdate struct {
	NotesDir       *string
	Editor         *string
	OpenAIToken    *string
	GitRemote      *string
	LLMProvider    *string
	AnthropicToken *string
	Model          *string
}

// Empty reports whether the update changes nothing.
func (u SettingsUpdate) Empty() bool {
	return u.NotesDir == nil && u.Editor == nil && u.OpenAIToken == nil && u.GitRemote == nil &&
		u.LLMProvider == nil && u.AnthropicToken == nil && u.Model == nil
}

// Settings returns the settings as persisted.
func (a *App) Settings() Settings { return a.settings }

// ShowSettings prints the persisted settings with secrets masked.
func (a *App) ShowSettings(_ context.Context) error {
	a.printer.Printf("Settings file: %s\n", a.settingsPath)
	for _, e := range a.settings.Entries() {
		a.printer.Printf("  %-16s %s\n", e.Key+":", e.Value)
	}
	return nil
}

// UpdateSettings applies u and persists the result. Setting the notes
// directory also creates it. With an empty update the settings are printed.
func (a *App) UpdateSettings(ctx context.Context, u SettingsUpdate) error {
	if u.Empty() {
		return a.ShowSettings(ctx)
	}

	next := a.settings
	var changed []string
	set := func(field *string, value *string, label string) {
		if value == nil {
			return
		}
		*field = *value
		changed = append(changed, label)
	}
	set(&next.NotesDir, u.NotesDir, "Notes directory")
	set(&next.Editor, u.Editor, "Editor")
	set(&next.OpenAIToken, u.OpenAIToken, "OpenAI API token")
	set(&next.GitRemote, u.GitRemote, "Git remote")
	set(&next.LLMProvider, u.LLMProvider, "LLM provider")
	set(&next.AnthropicToken, u.AnthropicToken, "Anthropic API token")
	set(&next.Model, u.Model, "Model")

	if err := next.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if u.NotesDir != nil {
		dir := ExpandHome(next.NotesDir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create notes directory: %w", err)
		}
	}

	if err := pkgconfig.Save(a.settingsPath, &next); err != nil {
		return err
	}
	a.settings = next

	for _, label := range changed {
		a.printer.Successf("%s set.", label)
	}
	return nil
}
