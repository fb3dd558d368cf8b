package gitsync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/nerdnotes/internal/apperr"
)

const (
	remoteName    = "origin"
	defaultBranch = "main"
	commitMessage = "Sync notes"
	ignoredFile   = "settings.yaml"
)

// Agent runs the sync sequence against a notes directory.
type Agent struct {
	runner   Runner
	logger   *slog.Logger
	progress func(string)
}

// NewAgent creates an Agent. progress receives one line per step and may be nil.
func NewAgent(runner Runner, logger *slog.Logger, progress func(string)) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	if progress == nil {
		progress = func(string) {}
	}
	return &Agent{runner: runner, logger: logger, progress: progress}
}

// Sync commits local changes in dir and exchanges them with remote. A failed
// pull is logged and the sync continues; any other failing step aborts.
func (a *Agent) Sync(ctx context.Context, dir, remote string) error {
	if remote == "" {
		return apperr.NotConfigured("git remote", "run 'nerdnotes settings --git <url>' or pass --repo")
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", apperr.ErrNotesDirMissing, dir)
	}

	if err := ensureIgnored(dir, ignoredFile); err != nil {
		return err
	}
	if err := a.ensureRepo(ctx, dir, remote); err != nil {
		return err
	}

	res, err := a.must(ctx, dir, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return err
	}
	branch := strings.TrimSpace(res.Stdout)
	if branch == "" {
		branch = defaultBranch
	}

	a.progress("Pulling changes from remote repository...")
	res, err = a.run(ctx, dir, "pull", "--rebase", remoteName, branch)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		a.logger.Warn("pull failed, continuing",
			slog.String("branch", branch),
			slog.Int("exit_code", res.ExitCode),
			slog.String("stderr", strings.TrimSpace(res.Stderr)))
		a.progress("No changes pulled.")
	}

	a.progress("Adding changes...")
	if _, err := a.must(ctx, dir, "add", "."); err != nil {
		return err
	}

	res, err = a.run(ctx, dir, "diff", "--cached", "--quiet")
	if err != nil {
		return err
	}
	switch res.ExitCode {
	case 0:
		a.progress("No changes to commit.")
	case 1:
		a.progress("Committing changes...")
		if _, err := a.must(ctx, dir, "commit", "-m", commitMessage); err != nil {
			return err
		}
	default:
		return &CommandError{Args: []string{"diff", "--cached", "--quiet"}, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}

	a.progress("Pushing changes to remote repository...")
	if _, err := a.must(ctx, dir, "push", "-u", remoteName, branch); err != nil {
		return err
	}
	a.progress("Sync complete.")
	return nil
}

func (a *Agent) ensureRepo(ctx context.Context, dir, remote string) error {
	if _, err := os.Stat(filepath.Join(dir, ".git")); errors.Is(err, fs.ErrNotExist) {
		a.progress("Initializing git repository...")
		if _, err := a.must(ctx, dir, "init"); err != nil {
			return err
		}
	}

	res, err := a.must(ctx, dir, "remote")
	if err != nil {
		return err
	}
	for _, name := range strings.Fields(res.Stdout) {
		if name == remoteName {
			return nil
		}
	}
	a.progress(fmt.Sprintf("Setting remote repository to %s...", remote))
	_, err = a.must(ctx, dir, "remote", "add", remoteName, remote)
	return err
}

func (a *Agent) run(ctx context.Context, dir string, args ...string) (Result, error) {
	a.logger.Debug("git", slog.String("args", strings.Join(args, " ")))
	return a.runner.Run(ctx, dir, args...)
}

// must runs git and turns a non-zero exit into a *CommandError.
func (a *Agent) must(ctx context.Context, dir string, args ...string) (Result, error) {
	res, err := a.run(ctx, dir, args...)
	if err != nil {
		return res, err
	}
	if res.ExitCode != 0 {
		return res, &CommandError{Args: args, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return res, nil
}

// ensureIgnored adds name to dir/.gitignore unless it is already listed.
func ensureIgnored(dir, name string) error {
	path := filepath.Join(dir, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read .gitignore: %w", err)
	}

	var lines []string
	if len(data) > 0 {
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	}
	for _, l := range lines {
		if strings.TrimSpace(l) == name {
			return nil
		}
	}
	lines = append(lines, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		return fmt.Errorf("write .gitignore: %w", err)
	}
	return nil
}
