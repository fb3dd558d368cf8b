package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/nerdnotes/internal/summarizer"
)

// Default locations, relative to the user's home directory.
const (
	DefaultSettingsDir  = ".nerd_notes"
	DefaultSettingsFile = "settings.yaml"
	DefaultNotesDir     = "~/.nerd_notes/notes"
)

// Environment variables that override settings at runtime without being
// persisted.
const (
	EnvSettings     = "NERDNOTES_SETTINGS"
	EnvNotesDir     = "NERDNOTES_NOTES_DIR"
	EnvEditor       = "NERDNOTES_EDITOR"
	EnvLogLevel     = "NERDNOTES_LOG_LEVEL"
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvLLMBaseURL   = "NERDNOTES_LLM_BASE_URL"
)

const notSetPlaceholder = "(not set)"

// gitRemotePattern accepts URLs with a scheme, scp-like [user@]host:path
// remotes, and local paths.
var gitRemotePattern = regexp.MustCompile(`^(\S+://\S+|([\w.-]+@)?[\w.-]+:\S+|[/.~]\S*)$`)

// Settings represents the persisted user configuration. Empty fields are
// "not set" and are omitted from the file.
type Settings struct {
	NotesDir       string `yaml:"notes_dir,omitempty" json:"notes_dir"`
	Editor         string `yaml:"editor,omitempty" json:"editor"`
	OpenAIToken    string `yaml:"openai_token,omitempty" json:"openai_token"`
	GitRemote      string `yaml:"git_remote,omitempty" json:"git_remote"`
	LLMProvider    string `yaml:"llm_provider,omitempty" json:"llm_provider"`
	AnthropicToken string `yaml:"anthropic_token,omitempty" json:"anthropic_token"`
	Model          string `yaml:"model,omitempty" json:"model"`
}

var gitRemoteRule = validation.Match(gitRemotePattern).Error("must be a git URL or path")

// Validate validates the settings. Errors are keyed by the YAML setting name.
func (s *Settings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.NotesDir, validation.Required),
		validation.Field(&s.GitRemote, gitRemoteRule),
		validation.Field(&s.LLMProvider, validation.In(summarizer.ProviderOpenAI, summarizer.ProviderAnthropic)),
	)
}

// ValidateRemote checks a remote given on the command line or in settings.
func ValidateRemote(remote string) error {
	if err := validation.Validate(remote, gitRemoteRule); err != nil {
		return fmt.Errorf("git remote %q: %w", remote, err)
	}
	return nil
}

// NewDefaultSettings returns the settings written to a fresh settings file.
func NewDefaultSettings() *Settings {
	return &Settings{NotesDir: DefaultNotesDir}
}

// DefaultSettingsPath returns ~/.nerd_notes/settings.yaml.
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(DefaultSettingsDir, DefaultSettingsFile)
	}
	return filepath.Join(home, DefaultSettingsDir, DefaultSettingsFile)
}

// WithEnv returns a copy of s with runtime overrides from getenv applied.
// API keys from the environment only fill tokens that are not set.
func (s Settings) WithEnv(getenv func(string) string) Settings {
	if v := getenv(EnvNotesDir); v != "" {
		s.NotesDir = v
	}
	if v := getenv(EnvEditor); v != "" {
		s.Editor = v
	}
	if s.OpenAIToken == "" {
		s.OpenAIToken = getenv(EnvOpenAIKey)
	}
	if s.AnthropicToken == "" {
		s.AnthropicToken = getenv(EnvAnthropicKey)
	}
	return s
}

// ExpandHome replaces a leading "~" in path with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// SettingEntry is one line of the settings display.
type SettingEntry struct {
	Key   string
	Value string
}

// Entries lists every setting for display. Secrets are masked and unset
// values are shown as "(not set)".
func (s Settings) Entries() []SettingEntry {
	plain := func(v string) string {
		if v == "" {
			return notSetPlaceholder
		}
		return v
	}
	return []SettingEntry{
		{"notes_dir", plain(s.NotesDir)},
		{"editor", plain(s.Editor)},
		{"openai_token", Mask(s.OpenAIToken)},
		{"git_remote", plain(s.GitRemote)},
		{"llm_provider", plain(s.LLMProvider)},
		{"anthropic_token", Mask(s.AnthropicToken)},
		{"model", plain(s.Model)},
	}
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	switch {
	case secret == "":
		return notSetPlaceholder
	case len(secret) <= 8:
		return "****"
	default:
		return "****" + secret[len(secret)-4:]
	}
}
