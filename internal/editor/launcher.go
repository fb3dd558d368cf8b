// Package editor opens notes in the user's external editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/starford/nerdnotes/internal/apperr"
	"github.com/starford/nerdnotes/internal/checksum"
)

// Resolve picks the editor command: the configured one, then $VISUAL, then
// $EDITOR.
func Resolve(configured string, getenv func(string) string) (string, error) {
	for _, cmd := range []string{configured, getenv("VISUAL"), getenv("EDITOR")} {
		if strings.TrimSpace(cmd) != "" {
			return cmd, nil
		}
	}
	return "", apperr.NotConfigured("editor", "run 'nerdnotes settings --editor <command>' or set $EDITOR")
}

// Outcome describes a finished editing session.
type Outcome struct {
	ExitCode int
	Changed  bool
}

// Launcher runs an editor on a file and waits for it to exit.
type Launcher interface {
	Open(ctx context.Context, command, path string) (Outcome, error)
}

// ExecLauncher implements Launcher by executing the editor as a child
// process attached to the given streams.
type ExecLauncher struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecLauncher returns a launcher attached to the process's terminal.
func NewExecLauncher() *ExecLauncher {
	return &ExecLauncher{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Open implements Launcher. The command is split on whitespace and path is
// appended as the last argument. A non-zero exit is reported in the outcome,
// not as an error.
func (l *ExecLauncher) Open(ctx context.Context, command, path string) (Outcome, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Outcome{}, apperr.NotConfigured("editor", "the editor command is empty")
	}

	before, err := os.ReadFile(path)
	if err != nil {
		return Outcome{}, fmt.Errorf("read %s: %w", path, err)
	}

	cmd := exec.CommandContext(ctx, fields[0], append(fields[1:], path)...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	var out Outcome
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Outcome{}, fmt.Errorf("launch editor %q: %w", fields[0], err)
		}
		out.ExitCode = exitErr.ExitCode()
	}

	after, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("read %s after editing: %w", path, err)
	}
	out.Changed = checksum.Changed(before, after)
	return out, nil
}
