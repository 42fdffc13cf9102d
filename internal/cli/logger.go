package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Logger prints messages tagged with a coloured module badge, so output from
// the replay reader, the API client and the renderer can be told apart.
type Logger struct {
	Module string
	Out    io.Writer
	Err    io.Writer
	Quiet  bool // suppresses everything except errors
}

var (
	badgeStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#000000"))

	infoBadge    = badgeStyle.Background(OsuBlue)
	successBadge = badgeStyle.Background(successColor)
	warningBadge = badgeStyle.Background(highlightColor)
	errorBadge   = badgeStyle.Background(errorColor)
)

// NewLogger creates a logger writing to stdout and stderr.
func NewLogger(module string) *Logger {
	return &Logger{Module: module, Out: os.Stdout, Err: os.Stderr}
}

// Info logs a neutral message.
func (l *Logger) Info(format string, args ...any) {
	l.print(l.Out, infoBadge, lipgloss.NewStyle(), format, args...)
}

// Success logs a completed step.
func (l *Logger) Success(format string, args ...any) {
	l.print(l.Out, successBadge, lipgloss.NewStyle().Foreground(successColor), format, args...)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(format string, args ...any) {
	l.print(l.Out, warningBadge, lipgloss.NewStyle().Foreground(highlightColor), format, args...)
}

// Error logs a failure. Errors are printed even when the logger is quiet.
func (l *Logger) Error(format string, args ...any) {
	fmt.Fprintf(l.Err, "%s %s\n", errorBadge.Render(l.Module), ErrorStyle.Render(fmt.Sprintf(format, args...)))
}

func (l *Logger) print(w io.Writer, badge, text lipgloss.Style, format string, args ...any) {
	if l.Quiet {
		return
	}
	fmt.Fprintf(w, "%s %s\n", badge.Render(l.Module), text.Render(fmt.Sprintf(format, args...)))
}
