package internal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/nerdnotes/internal/apperr"
	"github.com/starford/nerdnotes/internal/editor"
	"github.com/starford/nerdnotes/internal/gitsync"
	"github.com/starford/nerdnotes/internal/models"
	"github.com/starford/nerdnotes/internal/parser"
	"github.com/starford/nerdnotes/internal/testutil"
	"github.com/starford/nerdnotes/internal/ui"
)

type stubCompleter struct {
	calls int
}

func (s *stubCompleter) Complete(context.Context, string, string) (string, error) {
	s.calls++
	return "- ship it", nil
}

type stubLauncher struct {
	command, path string
	outcome       editor.Outcome
}

func (s *stubLauncher) Open(_ context.Context, command, path string) (editor.Outcome, error) {
	s.command, s.path = command, path
	return s.outcome, nil
}

type stubRunner struct {
	calls []string
}

func (s *stubRunner) Run(_ context.Context, _ string, args ...string) (gitsync.Result, error) {
	s.calls = append(s.calls, strings.Join(args, " "))
	return gitsync.Result{}, nil
}

type testApp struct {
	*App
	notesDir     string
	settingsPath string
	out, errOut  *bytes.Buffer
}

func newTestApp(t *testing.T, env map[string]string, opts ...Option) *testApp {
	t.Helper()
	base := t.TempDir()
	notesDir := filepath.Join(base, "notes")
	settingsPath := filepath.Join(base, "settings.yaml")
	testutil.WriteFile(t, base, "settings.yaml", "notes_dir: "+notesDir+"\n")

	var out, errOut bytes.Buffer
	all := append([]Option{
		WithSettingsPath(settingsPath),
		WithLogger(testutil.Logger()),
		WithOutput(&out, &errOut),
		WithDisplay(&ui.DisplayContext{TermWidth: 80}),
		WithClock(func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }),
		WithGetenv(func(k string) string { return env[k] }),
	}, opts...)

	app, err := New(all...)
	require.NoError(t, err)
	return &testApp{App: app, notesDir: notesDir, settingsPath: settingsPath, out: &out, errOut: &errOut}
}

func TestNew_CreatesSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "settings.yaml")
	app, err := New(WithSettingsPath(path), WithLogger(testutil.Logger()), WithGetenv(func(string) string { return "" }))
	require.NoError(t, err)

	assert.Equal(t, "notes_dir: "+DefaultNotesDir+"\n", testutil.ReadFile(t, path))
	assert.Equal(t, DefaultNotesDir, app.Settings().NotesDir)
}

func TestNewNoteThenList(t *testing.T) {
	app := newTestApp(t, nil)
	ctx := context.Background()

	require.NoError(t, app.NewNote(ctx, "Team Sync: Q1", []string{"work", "q1"}))
	assert.Contains(t, app.out.String(), "20240301093000-Team-Sync-Q1.md")

	app.out.Reset()
	require.NoError(t, app.List(ctx))
	assert.Contains(t, app.out.String(), "1.")
	assert.Contains(t, app.out.String(), "20240301093000-Team-Sync-Q1.md")

	content := testutil.ReadFile(t, filepath.Join(app.notesDir, "20240301093000-Team-Sync-Q1.md"))
	assert.Contains(t, content, `title: "Team Sync: Q1"`)
	assert.Contains(t, content, `tags: ["work", "q1"]`)
}

func TestList_MissingNotesDir(t *testing.T) {
	app := newTestApp(t, nil)
	require.NoError(t, app.List(context.Background()))
	assert.Contains(t, app.errOut.String(), "does not exist")
}

func TestTagsAndFilter(t *testing.T) {
	app := newTestApp(t, nil)
	require.NoError(t, os.MkdirAll(app.notesDir, 0o755))
	testutil.WriteFile(t, app.notesDir, "a.md", "---\ntags: [\"work\", \"q1\"]\n---\n")
	testutil.WriteFile(t, app.notesDir, "b.md", "---\ntags: \"work, home\"\n---\n")
	testutil.WriteFile(t, app.notesDir, "c.md", "---\ntags: [oops\n---\n")
	ctx := context.Background()

	require.NoError(t, app.Tags(ctx))
	assert.Equal(t, "home\nq1\nwork\n", app.out.String())

	app.out.Reset()
	require.NoError(t, app.Filter(ctx, []string{"work", "q1"}))
	assert.Contains(t, app.out.String(), "a.md")
	assert.NotContains(t, app.out.String(), "b.md")

	app.out.Reset()
	require.NoError(t, app.Filter(ctx, []string{"missing"}))
	assert.Contains(t, app.out.String(), "No notes found with tags: missing")

	assert.Error(t, app.Filter(ctx, nil))
}

func TestViewRaw(t *testing.T) {
	app := newTestApp(t, nil)
	ctx := context.Background()
	require.NoError(t, app.NewNote(ctx, "Viewed", nil))
	app.out.Reset()

	require.NoError(t, app.View(ctx, "1", true, false))
	assert.True(t, strings.HasPrefix(app.out.String(), "---\ntitle: \"Viewed\""))

	assert.ErrorIs(t, app.View(ctx, "2", true, false), apperr.ErrIndexOutOfRange)
	assert.ErrorIs(t, app.View(ctx, "nope.md", true, false), apperr.ErrNotFound)
}

func TestOpen(t *testing.T) {
	launcher := &stubLauncher{outcome: editor.Outcome{Changed: true}}
	app := newTestApp(t, map[string]string{"EDITOR": "vi"}, WithEditorLauncher(launcher))
	ctx := context.Background()
	require.NoError(t, app.NewNote(ctx, "Edit me", nil))

	require.NoError(t, app.Open(ctx, "1"))
	assert.Equal(t, "vi", launcher.command)
	assert.Equal(t, filepath.Join(app.notesDir, "20240301093000-Edit-me.md"), launcher.path)
	assert.Contains(t, app.out.String(), "Saved changes")
}

func TestOpen_NoEditor(t *testing.T) {
	launcher := &stubLauncher{}
	app := newTestApp(t, nil, WithEditorLauncher(launcher))
	err := app.Open(context.Background(), "1")
	assert.ErrorIs(t, err, apperr.ErrNotConfigured)
	assert.Empty(t, launcher.path)
}

func TestSummarize(t *testing.T) {
	completer := &stubCompleter{}
	app := newTestApp(t, nil, WithCompleter(completer))
	ctx := context.Background()
	require.NoError(t, app.NewNote(ctx, "Plan", nil))

	require.NoError(t, app.Summarize(ctx, "1"))
	assert.Equal(t, 1, completer.calls)
	assert.Contains(t, app.out.String(), "- ship it")

	content := testutil.ReadFile(t, filepath.Join(app.notesDir, "20240301093000-Plan.md"))
	assert.Equal(t, "- ship it", parser.ExtractSection(content, models.SectionSummary))
}

func TestSummarize_MissingToken(t *testing.T) {
	app := newTestApp(t, nil)
	err := app.Summarize(context.Background(), "does-not-exist.md")
	assert.ErrorIs(t, err, apperr.ErrNotConfigured)
}

func TestSummarize_TokenFromEnv(t *testing.T) {
	app := newTestApp(t, map[string]string{EnvOpenAIKey: "sk-env"})
	err := app.Summarize(context.Background(), "does-not-exist.md")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSync(t *testing.T) {
	runner := &stubRunner{}
	app := newTestApp(t, nil, WithGitRunner(runner))
	ctx := context.Background()
	require.NoError(t, app.NewNote(ctx, "Synced", nil))

	assert.ErrorIs(t, app.Sync(ctx, ""), apperr.ErrNotConfigured)

	require.NoError(t, app.Sync(ctx, "git@example.com:me/notes.git"))
	assert.Contains(t, runner.calls, "remote add origin git@example.com:me/notes.git")
	assert.Contains(t, runner.calls, "push -u origin main")
	assert.Contains(t, app.out.String(), "Sync complete.")
}

func TestUpdateSettings(t *testing.T) {
	app := newTestApp(t, nil)
	ctx := context.Background()

	newDir := filepath.Join(t.TempDir(), "elsewhere", "notes")
	token := "sk-1234567890abcdef"
	remote := "git@github.com:me/notes.git"
	require.NoError(t, app.UpdateSettings(ctx, SettingsUpdate{NotesDir: &newDir, OpenAIToken: &token, GitRemote: &remote}))

	info, err := os.Stat(newDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	saved := testutil.ReadFile(t, app.settingsPath)
	assert.Contains(t, saved, "notes_dir: "+newDir)
	assert.Contains(t, saved, "openai_token: "+token)
	assert.Contains(t, saved, "git_remote: "+remote)
	assert.NotContains(t, saved, "editor")

	app.out.Reset()
	require.NoError(t, app.UpdateSettings(ctx, SettingsUpdate{}))
	shown := app.out.String()
	assert.Contains(t, shown, "****cdef")
	assert.NotContains(t, shown, token)
	assert.Contains(t, shown, "(not set)")
}

func TestUpdateSettings_Invalid(t *testing.T) {
	app := newTestApp(t, nil)
	bad := "not a url"
	before := testutil.ReadFile(t, app.settingsPath)

	require.Error(t, app.UpdateSettings(context.Background(), SettingsUpdate{GitRemote: &bad}))
	assert.Equal(t, before, testutil.ReadFile(t, app.settingsPath))
}

func TestNew_InvalidSettingsStillRun(t *testing.T) {
	base := t.TempDir()
	notesDir := filepath.Join(base, "notes")
	path := testutil.WriteFile(t, base, "settings.yaml",
		"notes_dir: "+notesDir+"\ngit_remote: not a url\nllm_provider: magic\n")

	var out, errOut bytes.Buffer
	app, err := New(WithSettingsPath(path), WithLogger(testutil.Logger()), WithOutput(&out, &errOut),
		WithGetenv(func(string) string { return "" }))
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "git_remote")

	require.NoError(t, app.NewNote(context.Background(), "Still works", nil))
	out.Reset()
	require.NoError(t, app.List(context.Background()))
	assert.Contains(t, out.String(), "Still-works.md")

	remote, provider := "myhost:notes.git", "openai"
	require.NoError(t, app.UpdateSettings(context.Background(), SettingsUpdate{GitRemote: &remote, LLMProvider: &provider}))
	assert.Contains(t, testutil.ReadFile(t, path), "git_remote: myhost:notes.git")
}

func TestNew_ScpRemoteWithoutUser(t *testing.T) {
	base := t.TempDir()
	path := testutil.WriteFile(t, base, "settings.yaml",
		"notes_dir: "+filepath.Join(base, "notes")+"\ngit_remote: myhost:notes.git\n")

	var out, errOut bytes.Buffer
	runner := &stubRunner{}
	app, err := New(WithSettingsPath(path), WithLogger(testutil.Logger()), WithOutput(&out, &errOut),
		WithGetenv(func(string) string { return "" }), WithGitRunner(runner))
	require.NoError(t, err)
	assert.Empty(t, errOut.String())

	ctx := context.Background()
	require.NoError(t, app.NewNote(ctx, "Remote", nil))
	require.NoError(t, app.Sync(ctx, ""))
	assert.Contains(t, runner.calls, "remote add origin myhost:notes.git")
}

func TestSync_RejectsMalformedRepo(t *testing.T) {
	runner := &stubRunner{}
	app := newTestApp(t, nil, WithGitRunner(runner))
	require.Error(t, app.Sync(context.Background(), "two words"))
	assert.Empty(t, runner.calls)
}
