package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/osuthumb/internal/cli"
	"github.com/linuxmatters/osuthumb/internal/config"
	"github.com/linuxmatters/osuthumb/internal/osuapi"
	"github.com/linuxmatters/osuthumb/internal/palette"
	"github.com/linuxmatters/osuthumb/internal/renderer"
	"github.com/linuxmatters/osuthumb/internal/score"
	"github.com/linuxmatters/osuthumb/internal/ui"
	"github.com/mattn/go-isatty"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

var CLI struct {
	ReplaysDir string `arg:"" name:"replays-dir" help:"Folder searched for the .osr replay; the first by name is used" default:"replays" optional:""`
	Config     string `help:"Settings file" default:"config.json"`
	Comment    string `help:"Comment along the bottom edge" group:"render"`
	Assets     string `help:"Directory with optional artwork overrides" default:"assets" group:"render"`
	APIKey     string `help:"osu! API v1 key" name:"api-key" env:"OSU_API_KEY" group:"api"`
	CacheDir   string `help:"Directory for downloaded images" name:"cache-dir" group:"api"`
	Output     string `help:"Output PNG file" group:"output"`
	NoProgress bool   `help:"Disable the progress display and preview" group:"output"`
	Version    bool   `help:"Show version information"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("osuthumb"),
		kong.Description("Turn an osu! replay into a 1280x720 video thumbnail."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if CLI.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if CLI.APIKey == "" {
		cli.PrintError("an osu! API key is required (--api-key or OSU_API_KEY)")
		os.Exit(1)
	}

	if err := generateThumbnail(); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

func generateThumbnail() error {
	renderLog := cli.NewLogger("render")

	cli.PrintBanner()

	settings, created, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	if created {
		cli.PrintWarning("created default settings at " + CLI.Config)
	}

	replayPath, err := score.FindReplay(CLI.ReplaysDir)
	if err != nil {
		return fmt.Errorf("%w: %w", renderer.ErrDataUnavailable, err)
	}
	summary, err := score.LoadReplay(replayPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", replayPath, err)
	}
	cli.PrintSection("Replay")
	cli.PrintInfo("File", filepath.Base(replayPath))
	cli.PrintInfo("Player", summary.Username)
	cli.PrintInfo("Mods", summary.Mods.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := osuapi.New(CLI.APIKey, osuapi.WithCacheDir(cacheDir()))
	beatmap, err := client.Beatmap(ctx, summary.BeatmapHash, summary.Mods)
	if err != nil {
		return fmt.Errorf("%w: beatmap lookup: %w", renderer.ErrDataUnavailable, err)
	}
	cli.PrintSection("Beatmap")
	cli.PrintInfo("Map", fmt.Sprintf("%s - %s [%s]", beatmap.Artist, beatmap.Title, beatmap.Version))
	cli.PrintInfo("Mapper", beatmap.Creator)
	cli.PrintInfo("Stars", fmt.Sprintf("%.2f", beatmap.StarRating))

	assets, err := renderer.LoadAssets(CLI.Assets)
	if err != nil {
		return err
	}
	fallback, err := fallbackBackground(settings, assets)
	if err != nil {
		return fmt.Errorf("loading fallback background: %w", err)
	}

	var performance renderer.PerformanceCalculator = client
	if pp, ok := settings.GetPerformance(); ok {
		performance = osuapi.FixedPerformance(pp)
	}

	var accent *color.RGBA
	if hex := settings.GetAccent(); hex != "" {
		c, ok := palette.HexToRGB(hex)
		if !ok {
			return fmt.Errorf("%w: accent %q is not a hex colour", config.ErrInvalid, hex)
		}
		accent = &c
	}

	output := settings.Filename
	if CLI.Output != "" {
		output = CLI.Output
	}
	comment := settings.Comment
	if CLI.Comment != "" {
		comment = CLI.Comment
	}

	useTUI := !CLI.NoProgress && isatty.IsTerminal(os.Stdout.Fd())

	pipeline := renderer.New(
		renderer.Config{
			Background: &osuapi.Background{
				Client:   client,
				SetID:    beatmap.SetID,
				Fallback: fallback,
				OnFallback: func(err error) {
					// Printing would tear the progress display.
					if !useTUI {
						cli.PrintWarning(fmt.Sprintf("using fallback background: %v", err))
					}
				},
			},
			Highlight: renderer.Highlight{
				Kind: renderer.HighlightKind(settings.DisplayPeak),
				Text: settings.PeakText,
			},
			Comment:        comment,
			Output:         output,
			AccentIndex:    palette.AccentIndex,
			AccentOverride: accent,
		},
		renderer.Data{Score: summary, Beatmap: beatmap},
		renderer.Collaborators{
			Players:     client,
			Performance: performance,
			Palette:     palette.Extractor{},
			Assets:      assets,
		},
	)

	start := time.Now()
	if useTUI {
		err = renderWithProgress(ctx, pipeline, output, start)
	} else {
		cli.PrintSection("Render")
		pipeline.OnStage = func(p renderer.Progress) {
			renderLog.Info("[%d/%d] %s", p.Stage, p.Total, ui.StageLabel(p.Name))
		}
		if err = pipeline.Write(ctx); err == nil {
			cli.PrintSuccess("thumbnail written to " + output)
		}
	}
	if err != nil {
		return err
	}

	var size int64
	if info, err := os.Stat(output); err == nil {
		size = info.Size()
	}

	fmt.Println()
	cli.PrintRenderSummary(cli.RenderSummary{
		Output:   output,
		Beatmap:  fmt.Sprintf("%s - %s [%s]", beatmap.Artist, beatmap.Title, beatmap.Version),
		Player:   summary.Username,
		Rank:     string(summary.Rank()),
		Accent:   palette.Hex(pipeline.Accent()),
		Duration: time.Since(start),
		FileSize: size,
	})
	return nil
}

// renderWithProgress runs the pipeline in a goroutine and drives the
// progress UI from its stage callbacks.
func renderWithProgress(ctx context.Context, pipeline *renderer.Pipeline, output string, start time.Time) error {
	model := ui.NewModel(false)
	p := tea.NewProgram(model)

	pipeline.OnStage = func(pr renderer.Progress) {
		p.Send(ui.StageStarted{Stage: pr.Stage, Total: pr.Total, Name: pr.Name})
	}

	go func() {
		if err := pipeline.Write(ctx); err != nil {
			p.Send(ui.RenderFailed{Err: err})
			return
		}

		var size int64
		if info, err := os.Stat(output); err == nil {
			size = info.Size()
		}
		p.Send(ui.RenderComplete{
			Output:   output,
			Accent:   pipeline.Accent(),
			Frame:    pipeline.Frame(),
			Duration: time.Since(start),
			FileSize: size,
		})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	if err := model.Err(); err != nil {
		return err
	}
	if summary := model.CompletionSummary(); summary != "" {
		fmt.Println(summary)
		return nil
	}
	return errors.New("render interrupted")
}

// fallbackBackground prefers the configured file, then the assets directory.
func fallbackBackground(settings *config.Settings, assets *renderer.Assets) ([]byte, error) {
	if path := settings.GetFallbackBackground(); path != "" {
		return os.ReadFile(path)
	}
	return assets.FallbackBackground()
}

func cacheDir() string {
	if CLI.CacheDir != "" {
		return CLI.CacheDir
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "osuthumb")
}
