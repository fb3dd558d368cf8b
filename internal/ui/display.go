package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"

	"github.com/starford/nerdnotes/internal/parser"
)

// DefaultTermWidth is the fallback terminal width when detection fails.
const DefaultTermWidth = 100

// DisplayContext holds display parameters for stdout.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

// NewDisplayContext inspects f, usually os.Stdout.
func NewDisplayContext(f *os.File) *DisplayContext {
	fd := f.Fd()
	isTTY := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	width := DefaultTermWidth
	if isTTY {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}
	return &DisplayContext{TermWidth: width, IsTTY: isTTY}
}

// Render returns content as it should appear on this display: rendered
// Markdown on a terminal, the raw text otherwise or when raw is set. Front
// matter is rendered as a YAML code block.
func (d *DisplayContext) Render(content string, raw bool) (string, error) {
	if raw || !d.IsTTY {
		return content, nil
	}
	return RenderMarkdown(parser.FencedFrontmatter(content), d.TermWidth)
}
