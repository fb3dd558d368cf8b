// Package ui formats command output for the terminal.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// Success returns a success message with a checkmark.
func Success(msg string) string { return green(SymbolSuccess) + " " + msg }

// Error returns an error message with a cross.
func Error(msg string) string { return red(SymbolError) + " " + msg }

// Warning returns a warning message with a warning sign.
func Warning(msg string) string { return yellow(SymbolWarning) + " " + msg }

// Info returns an informational message.
func Info(msg string) string { return cyan(SymbolInfo) + " " + msg }

// Printer writes user-facing output. Results go to Out; status lines about
// problems go to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// Println writes a plain line to Out.
func (p *Printer) Println(a ...any) {
	_, _ = fmt.Fprintln(p.Out, a...)
}

// Printf writes formatted text to Out.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.Out, format, args...)
}

// Successf writes a success line to Out.
func (p *Printer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.Out, Success(fmt.Sprintf(format, args...)))
}

// Infof writes an informational line to Out.
func (p *Printer) Infof(format string, args ...any) {
	_, _ = fmt.Fprintln(p.Out, Info(fmt.Sprintf(format, args...)))
}

// Warnf writes a warning line to Err.
func (p *Printer) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.Err, Warning(fmt.Sprintf(format, args...)))
}

// Errorf writes an error line to Err.
func (p *Printer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.Err, Error(fmt.Sprintf(format, args...)))
}

// NoteLine formats one entry of a note listing.
func NoteLine(index int, name string) string {
	return Accent.Render(fmt.Sprintf("%3d.", index)) + " " + name
}
