package summarizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/nerdnotes/internal/apperr"
	"github.com/starford/nerdnotes/internal/models"
	"github.com/starford/nerdnotes/internal/parser"
	"github.com/starford/nerdnotes/internal/testutil"
)

// mockCompleter records the prompts it receives.
type mockCompleter struct {
	CompleteFunc func(system, prompt string) (string, error)
	Prompts      []string
}

func (m *mockCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(system, prompt)
	}
	return "summary text", nil
}

type failingWriteStore struct {
	data []byte
}

func (s *failingWriteStore) Read(string) ([]byte, error) { return s.data, nil }
func (s *failingWriteStore) Write(string, []byte) error  { return errors.New("disk full") }

func writeNote(t *testing.T, raw string) (string, NoteStore) {
	t.Helper()
	dir := t.TempDir()
	content := parser.UpdateSection(
		string(parser.RenderNew("Test", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil)),
		models.SectionRawNotes, raw)
	return testutil.WriteFile(t, dir, "note.md", content), noteFiles{}
}

// noteFiles is a NoteStore over the local file system.
type noteFiles struct{}

func (noteFiles) Read(path string) ([]byte, error) { return os.ReadFile(path) }
func (noteFiles) Write(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func TestSummarize_WritesSummarySection(t *testing.T) {
	path, store := writeNote(t, "talked about the roadmap")
	completer := &mockCompleter{}

	summary, err := New(store, completer, testutil.Logger()).Summarize(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "summary text", summary)

	content := testutil.ReadFile(t, path)
	assert.Equal(t, "summary text", parser.ExtractSection(content, models.SectionSummary))
	assert.Equal(t, "talked about the roadmap", parser.ExtractSection(content, models.SectionRawNotes))
	assert.Equal(t, models.CanonicalSections, parser.Sections(content))

	require.Len(t, completer.Prompts, 1)
	assert.Contains(t, completer.Prompts[0], "talked about the roadmap")
}

func TestSummarize_Twice(t *testing.T) {
	path, store := writeNote(t, "x")
	s := New(store, &mockCompleter{}, testutil.Logger())

	_, err := s.Summarize(context.Background(), path)
	require.NoError(t, err)
	first := testutil.ReadFile(t, path)
	_, err = s.Summarize(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, first, testutil.ReadFile(t, path))
}

func TestSummarize_GenerationFailureLeavesFile(t *testing.T) {
	path, store := writeNote(t, "x")
	before := testutil.ReadFile(t, path)
	completer := &mockCompleter{CompleteFunc: func(string, string) (string, error) {
		return "", errors.New("rate limited")
	}}

	_, err := New(store, completer, testutil.Logger()).Summarize(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.Equal(t, before, testutil.ReadFile(t, path))
}

func TestSummarize_WriteFailureReturnsText(t *testing.T) {
	store := &failingWriteStore{data: parser.RenderNew("T", time.Now(), nil)}

	summary, err := New(store, &mockCompleter{}, testutil.Logger()).Summarize(context.Background(), "note.md")
	require.Error(t, err)
	assert.Equal(t, "summary text", summary)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSummarize_MissingNote(t *testing.T) {
	completer := &mockCompleter{}
	_, err := New(noteFiles{}, completer, testutil.Logger()).Summarize(context.Background(), filepath.Join(t.TempDir(), "none.md"))
	require.Error(t, err)
	assert.Empty(t, completer.Prompts)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("raw", "", "links")
	assert.Contains(t, prompt, "## Raw Notes\nraw\n")
	assert.Contains(t, prompt, "## Processing\n(empty)\n")
	assert.Contains(t, prompt, "## Connecting\nlinks\n")
	assert.True(t, strings.HasPrefix(prompt, "Summarize"))
}

func TestNewCompleter(t *testing.T) {
	_, err := NewCompleter(Config{})
	assert.ErrorIs(t, err, apperr.ErrNotConfigured)

	_, err = NewCompleter(Config{Provider: ProviderAnthropic, OpenAIToken: "sk"})
	assert.ErrorIs(t, err, apperr.ErrNotConfigured)

	c, err := NewCompleter(Config{OpenAIToken: "sk"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	c, err = NewCompleter(Config{Provider: ProviderAnthropic, AnthropicToken: "sk"})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, c)

	_, err = NewCompleter(Config{Provider: "other", OpenAIToken: "sk"})
	assert.Error(t, err)
}
