package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor   = OsuPink
	accentColor    = OsuPurple
	successColor   = lipgloss.Color("#5CE38A") // Green
	mutedColor     = lipgloss.Color("#888888") // Gray
	highlightColor = OsuYellow
	errorColor     = lipgloss.Color("#FF4040") // Miss red
	textColor      = lipgloss.Color("#FFFFFF") // White
)

// Styles
var (
	// Title style - bold pink
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// Subtitle style - muted gray
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	// Section header style
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginTop(1).
			MarginBottom(1)

	// Success message style
	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	// Error message style
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	// Highlight style for important values
	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlightColor)

	// Key-value pair styles
	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	// Box style for framed content
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)
)

// Destinations for the Print helpers
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// AppName is shown in banners and help output.
const AppName = "osuthumb ●"

// AppDescription is the one-line summary used by help and the banner.
const AppDescription = "Render a 1280×720 thumbnail for your latest osu! replay."

// PrintBanner prints the application banner
func PrintBanner() {
	fmt.Fprintln(stdout, TitleStyle.Render(AppName))
	fmt.Fprintln(stdout, SubtitleStyle.Render(AppDescription))
	fmt.Fprintln(stdout)
}

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Fprintln(stdout, TitleStyle.Render(AppName))
	fmt.Fprintf(stdout, "%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Fprintln(stdout)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintf(stdout, "%s %s\n", HighlightStyle.Render("Warning:"), message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintf(stdout, "%s %s\n", SuccessStyle.Render("✓"), message)
}

// PrintInfo prints an informational message
func PrintInfo(key, value string) {
	fmt.Fprintf(stdout, "%s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(value))
}

// PrintSection prints a section header
func PrintSection(title string) {
	fmt.Fprintln(stdout, HeaderStyle.Render(title))
}

// FormatDuration formats a duration nicely
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// FormatBytes formats bytes into human-readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// PrintBox prints content in a styled box
func PrintBox(content string) {
	fmt.Fprintln(stdout, BoxStyle.Render(content))
}

// RenderSummary describes a finished thumbnail.
type RenderSummary struct {
	Output   string
	Beatmap  string
	Player   string
	Rank     string
	Accent   string // hex
	Duration time.Duration
	FileSize int64
}

// FormatRenderSummary lays the summary out as aligned key/value lines.
func FormatRenderSummary(s RenderSummary) string {
	var b strings.Builder

	b.WriteString(SuccessStyle.Render("✓ Thumbnail Complete!"))
	b.WriteString("\n\n")

	rows := []struct{ key, value string }{
		{"Output:    ", s.Output},
		{"Beatmap:   ", s.Beatmap},
		{"Player:    ", s.Player},
		{"Rank:      ", s.Rank},
		{"Accent:    ", s.Accent},
		{"Time:      ", FormatDuration(s.Duration)},
		{"File Size: ", FormatBytes(s.FileSize)},
	}
	for i, r := range rows {
		b.WriteString(KeyStyle.Render(r.key))
		if r.key == "Accent:    " && s.Accent != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(s.Accent)).Render("██ "))
		}
		b.WriteString(ValueStyle.Render(r.value))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// PrintRenderSummary prints the summary in a box
func PrintRenderSummary(s RenderSummary) {
	PrintBox(FormatRenderSummary(s))
}
