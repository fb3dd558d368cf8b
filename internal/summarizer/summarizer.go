// Package summarizer generates the Summary section of a note with a language
// model and writes it back into the note.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/nerdnotes/internal/apperr"
	"github.com/starford/nerdnotes/internal/models"
	"github.com/starford/nerdnotes/internal/parser"
)

// Providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// DefaultMaxTokens bounds the length of a generated summary.
const DefaultMaxTokens = 1024

// Completer produces a completion for a system instruction and user prompt.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Config selects and configures a Completer.
type Config struct {
	Provider       string
	OpenAIToken    string
	AnthropicToken string
	Model          string
	BaseURL        string
}

// NewCompleter builds the Completer for cfg.Provider. A missing credential is
// reported as apperr.ErrNotConfigured.
func NewCompleter(cfg Config) (Completer, error) {
	switch cfg.Provider {
	case "", ProviderOpenAI:
		if cfg.OpenAIToken == "" {
			return nil, apperr.NotConfigured("OpenAI API token",
				"run 'nerdnotes settings --token <key>' or set OPENAI_API_KEY")
		}
		return NewOpenAIClient(cfg.BaseURL, cfg.OpenAIToken, cfg.Model), nil
	case ProviderAnthropic:
		if cfg.AnthropicToken == "" {
			return nil, apperr.NotConfigured("Anthropic API token",
				"run 'nerdnotes settings --anthropic-token <key>' or set ANTHROPIC_API_KEY")
		}
		return NewAnthropicClient(cfg.BaseURL, cfg.AnthropicToken, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// NoteStore reads and writes raw note content.
type NoteStore interface {
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
}

// Summarizer fills in the Summary section of notes.
type Summarizer struct {
	store     NoteStore
	completer Completer
	logger    *slog.Logger
}

// New creates a Summarizer.
func New(store NoteStore, completer Completer, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{store: store, completer: completer, logger: logger}
}

// Summarize generates a summary from the Raw Notes, Processing and
// Connecting sections of the note at path and stores it in the Summary
// section. If generation fails the note is untouched. If the write fails the
// generated text is still returned alongside the error.
func (s *Summarizer) Summarize(ctx context.Context, path string) (string, error) {
	data, err := s.store.Read(path)
	if err != nil {
		return "", err
	}
	content := string(data)

	prompt := BuildPrompt(
		parser.ExtractSection(content, models.SectionRawNotes),
		parser.ExtractSection(content, models.SectionProcessing),
		parser.ExtractSection(content, models.SectionConnecting),
	)

	s.logger.Debug("requesting summary", slog.String("path", path), slog.Int("prompt_bytes", len(prompt)))
	summary, err := s.completer.Complete(ctx, SystemInstruction, prompt)
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}

	updated := parser.UpdateSection(content, models.SectionSummary, summary)
	if err := s.store.Write(path, []byte(updated)); err != nil {
		return summary, fmt.Errorf("save summary: %w", err)
	}
	return summary, nil
}
