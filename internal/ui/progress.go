package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/osuthumb/internal/cli"
	"github.com/linuxmatters/osuthumb/internal/palette"
)

// StageStarted is sent before each pipeline stage runs
type StageStarted struct {
	Stage int // 1-based
	Total int
	Name  string
}

// RenderComplete signals that the thumbnail has been written
type RenderComplete struct {
	Output   string
	Accent   color.RGBA
	Frame    *image.RGBA
	Duration time.Duration
	FileSize int64
}

// RenderFailed signals that the render aborted
type RenderFailed struct {
	Err error
}

// progressQuitMsg is sent when it's time to quit after showing completion
type progressQuitMsg struct{}

// stageLabels maps pipeline stage names to what the user sees.
var stageLabels = map[string]string{
	"background": "Loading background",
	"theme":      "Extracting accent colour",
	"blur":       "Blurring background",
	"dim":        "Dimming background",
	"decoration": "Drawing decorations",
	"title":      "Drawing title",
	"difficulty": "Drawing difficulty",
	"rank":       "Drawing rank",
	"score":      "Looking up player and performance",
	"stats":      "Drawing beatmap stats",
	"comment":    "Drawing comment",
	"encode":     "Encoding PNG",
}

// StageLabel returns a readable label for a stage name.
func StageLabel(name string) string {
	if label, ok := stageLabels[name]; ok {
		return label
	}
	return name
}

// Model is the Bubbletea model for a single thumbnail render
type Model struct {
	progressBar progress.Model
	stage       StageStarted
	complete    *RenderComplete
	err         error

	startTime       time.Time
	width           int
	noPreview       bool
	preview         PreviewConfig
	cachedPreview   string
	completionDelay time.Duration
}

// NewModel creates the progress UI model
func NewModel(noPreview bool) *Model {
	p := progress.New(
		progress.WithGradient(string(cli.OsuPurple), string(cli.OsuPink)),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return &Model{
		progressBar:     p,
		startTime:       time.Now(),
		noPreview:       noPreview,
		preview:         DefaultPreviewConfig(),
		completionDelay: time.Second,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = max(10, min(msg.Width-30, 50))
		return m, nil

	case StageStarted:
		m.stage = msg
		return m, nil

	case RenderComplete:
		m.complete = &msg
		if !m.noPreview && msg.Frame != nil {
			m.cachedPreview = RenderPreview(DownsampleFrame(msg.Frame, m.preview))
		}
		return m, tea.Tick(m.completionDelay, func(time.Time) tea.Msg {
			return progressQuitMsg{}
		})

	case RenderFailed:
		m.err = msg.Err
		return m, tea.Quit

	case progressQuitMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.complete != nil || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// Err returns the render error, if the render failed
func (m *Model) Err() error {
	return m.err
}

// View renders the UI
func (m *Model) View() string {
	if m.complete != nil {
		return m.CompletionSummary()
	}
	return m.renderProgress()
}

// CompletionSummary returns the final view for printing after the program
// exits. Returns an empty string if the render did not complete.
func (m *Model) CompletionSummary() string {
	if m.complete == nil {
		return ""
	}

	var s strings.Builder
	m.renderHeader(&s, "Complete")
	s.WriteString("Progress: ")
	s.WriteString(m.progressBar.ViewAs(1.0))
	s.WriteString("  100%\n\n")

	s.WriteString(lipgloss.NewStyle().Faint(true).Render(
		fmt.Sprintf("Time: %s  │  Output: %s", cli.FormatDuration(m.complete.Duration), m.complete.Output)))
	s.WriteString("\n")
	s.WriteString(AccentSwatch(m.complete.Accent))

	if m.cachedPreview != "" {
		s.WriteString("\n\n")
		s.WriteString(m.cachedPreview)
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(cli.OsuPink).
		Padding(1, 2).
		Render(s.String())
}

func (m *Model) renderHeader(s *strings.Builder, phase string) {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.OsuPink).
		Render(cli.AppName)

	s.WriteString(title)
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Foreground(cli.OsuPurple).Render(phase))
	s.WriteString("\n\n")
}

func (m *Model) renderProgress() string {
	var s strings.Builder

	if m.stage.Total == 0 {
		m.renderHeader(&s, "Starting render...")
	} else {
		m.renderHeader(&s, fmt.Sprintf("Stage %d of %d: %s", m.stage.Stage, m.stage.Total, StageLabel(m.stage.Name)))

		// A stage is only counted once it has finished.
		percent := float64(m.stage.Stage-1) / float64(m.stage.Total)
		s.WriteString("Progress: ")
		s.WriteString(m.progressBar.ViewAs(percent))
		s.WriteString(fmt.Sprintf("  %d%%", int(percent*100)))
		s.WriteString("\n\n")
	}

	s.WriteString(lipgloss.NewStyle().Faint(true).Render(
		"Elapsed: " + cli.FormatDuration(time.Since(m.startTime))))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(cli.OsuPurple).
		Padding(1, 2).
		Render(s.String())
}

// AccentSwatch renders a colour block followed by its hex code.
func AccentSwatch(c color.RGBA) string {
	hex := palette.Hex(c)
	block := lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("████")
	return lipgloss.NewStyle().Faint(true).Render("Accent: ") + block + " " + hex
}
