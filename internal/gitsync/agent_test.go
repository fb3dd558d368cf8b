package gitsync

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/nerdnotes/internal/apperr"
	"github.com/starford/nerdnotes/internal/testutil"
)

// fakeRunner returns scripted results keyed by the joined argument list and
// records every call.
type fakeRunner struct {
	results map[string]Result
	calls   []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: map[string]Result{
		"symbolic-ref --short HEAD": {Stdout: "main\n"},
		"diff --cached --quiet":     {ExitCode: 1},
	}}
}

func (f *fakeRunner) Run(_ context.Context, _ string, args ...string) (Result, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	return f.results[key], nil
}

func TestSync_FreshDirectory(t *testing.T) {
	dir := t.TempDir()
	runner := newFakeRunner()
	var progress []string

	err := NewAgent(runner, testutil.Logger(), func(s string) { progress = append(progress, s) }).
		Sync(context.Background(), dir, "git@example.com:me/notes.git")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"init",
		"remote",
		"remote add origin git@example.com:me/notes.git",
		"symbolic-ref --short HEAD",
		"pull --rebase origin main",
		"add .",
		"diff --cached --quiet",
		"commit -m Sync notes",
		"push -u origin main",
	}, runner.calls)
	assert.Equal(t, "Sync complete.", progress[len(progress)-1])
	assert.Equal(t, "settings.yaml\n", testutil.ReadFile(t, filepath.Join(dir, ".gitignore")))
}

func TestSync_ExistingRepoNoChanges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	runner := newFakeRunner()
	runner.results["remote"] = Result{Stdout: "upstream\norigin\n"}
	runner.results["symbolic-ref --short HEAD"] = Result{Stdout: "notes\n"}
	runner.results["diff --cached --quiet"] = Result{}

	err := NewAgent(runner, testutil.Logger(), nil).Sync(context.Background(), dir, "url")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"remote",
		"symbolic-ref --short HEAD",
		"pull --rebase origin notes",
		"add .",
		"diff --cached --quiet",
		"push -u origin notes",
	}, runner.calls)
}

func TestSync_EmptyBranchDefaultsToMain(t *testing.T) {
	runner := newFakeRunner()
	runner.results["symbolic-ref --short HEAD"] = Result{Stdout: "\n"}

	require.NoError(t, NewAgent(runner, testutil.Logger(), nil).Sync(context.Background(), t.TempDir(), "url"))
	assert.Contains(t, runner.calls, "push -u origin main")
}

func TestSync_PullFailureIsNotFatal(t *testing.T) {
	runner := newFakeRunner()
	runner.results["pull --rebase origin main"] = Result{ExitCode: 1, Stderr: "couldn't find remote ref main"}

	require.NoError(t, NewAgent(runner, testutil.Logger(), nil).Sync(context.Background(), t.TempDir(), "url"))
	assert.Contains(t, runner.calls, "push -u origin main")
}

func TestSync_PushFailureReported(t *testing.T) {
	runner := newFakeRunner()
	runner.results["push -u origin main"] = Result{ExitCode: 128, Stderr: "fatal: Authentication failed"}

	err := NewAgent(runner, testutil.Logger(), nil).Sync(context.Background(), t.TempDir(), "url")
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 128, cmdErr.ExitCode)
	assert.Contains(t, err.Error(), "Authentication failed")
}

func TestSync_DiffErrorAborts(t *testing.T) {
	runner := newFakeRunner()
	runner.results["diff --cached --quiet"] = Result{ExitCode: 129}

	err := NewAgent(runner, testutil.Logger(), nil).Sync(context.Background(), t.TempDir(), "url")
	require.Error(t, err)
	assert.NotContains(t, runner.calls, "commit -m Sync notes")
	assert.NotContains(t, runner.calls, "push -u origin main")
}

func TestSync_MissingRemote(t *testing.T) {
	runner := newFakeRunner()
	err := NewAgent(runner, testutil.Logger(), nil).Sync(context.Background(), t.TempDir(), "")
	assert.ErrorIs(t, err, apperr.ErrNotConfigured)
	assert.Empty(t, runner.calls)
}

func TestSync_MissingDirectory(t *testing.T) {
	err := NewAgent(newFakeRunner(), testutil.Logger(), nil).
		Sync(context.Background(), filepath.Join(t.TempDir(), "none"), "url")
	assert.ErrorIs(t, err, apperr.ErrNotesDirMissing)
}

func TestEnsureIgnored(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, ".gitignore", "*.swp\n.DS_Store")

	require.NoError(t, ensureIgnored(dir, "settings.yaml"))
	require.NoError(t, ensureIgnored(dir, "settings.yaml"))
	assert.Equal(t, "*.swp\n.DS_Store\nsettings.yaml\n", testutil.ReadFile(t, filepath.Join(dir, ".gitignore")))
}
