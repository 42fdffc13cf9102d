package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/linuxmatters/osuthumb/internal/config"
	"github.com/linuxmatters/osuthumb/internal/osuapi"
	"github.com/linuxmatters/osuthumb/internal/palette"
	"github.com/linuxmatters/osuthumb/internal/score"
	"golang.org/x/image/draw"
)

// ErrDataUnavailable wraps collaborator failures that abort a render.
var ErrDataUnavailable = errors.New("data unavailable")

// EncodeStage is the name reported for the final encode and write.
const EncodeStage = "encode"

// HighlightKind categorises the highlight label shown next to the panel.
type HighlightKind int

const (
	FullCombo HighlightKind = iota
	Miss
	SliderBreak
	Other
)

func (k HighlightKind) String() string {
	switch k {
	case FullCombo:
		return "FC"
	case Miss:
		return "Miss"
	case SliderBreak:
		return "SB"
	default:
		return "Other"
	}
}

// Color returns the label colour for the category.
func (k HighlightKind) Color() color.RGBA {
	hex := config.HighlightOtherColor
	switch k {
	case FullCombo:
		hex = config.HighlightFullColor
	case Miss:
		hex = config.HighlightMissColor
	case SliderBreak:
		hex = config.HighlightSBreakColor
	}
	c, ok := palette.HexToRGB(hex)
	if !ok {
		return palette.White
	}
	return c
}

// Highlight is the category and text of the highlight label.
type Highlight struct {
	Kind HighlightKind
	Text string
}

// BackgroundSource supplies the encoded background image. It must not
// fail; sources fall back to a default image themselves.
type BackgroundSource interface {
	Load(ctx context.Context) []byte
}

// PlayerLookup resolves a username to an account and avatar.
type PlayerLookup interface {
	ResolvePlayer(ctx context.Context, username string) (*osuapi.Player, error)
}

// PerformanceCalculator computes the performance value of a score.
type PerformanceCalculator interface {
	Performance(ctx context.Context, s *score.Summary, beatmapID int) (float64, error)
}

// ColorExtractor returns the dominant colours of an image, most dominant first.
type ColorExtractor interface {
	Extract(img image.Image) []color.RGBA
}

// Config is fixed for the lifetime of a Pipeline.
type Config struct {
	Background BackgroundSource
	Highlight  Highlight
	Comment    string
	Output     string

	// AccentIndex picks the swatch used as accent colour.
	AccentIndex int
	// AccentOverride, when set, skips extraction.
	AccentOverride *color.RGBA
}

// Data is the score and beatmap being summarised.
type Data struct {
	Score   *score.Summary
	Beatmap *osuapi.Beatmap
}

// Collaborators are the services stages call into.
type Collaborators struct {
	Players     PlayerLookup
	Performance PerformanceCalculator
	Palette     ColorExtractor
	Assets      *Assets
}

// Progress is reported before each stage starts.
type Progress struct {
	Stage int // 1-based
	Total int
	Name  string
}

// Pipeline composes one thumbnail through a fixed sequence of stages.
type Pipeline struct {
	// OnStage, if set, is called before every stage.
	OnStage func(Progress)

	cfg    Config
	data   Data
	deps   Collaborators
	stages []stage
	accent color.RGBA
	frame  *image.RGBA
}

type stage struct {
	name string
	run  func(ctx context.Context, rc *renderContext) error
}

// renderContext is owned by a single Render call and passed to each stage.
type renderContext struct {
	canvas *image.RGBA
	accent color.RGBA
}

// New creates a pipeline. The stage order is fixed: later stages read the
// canvas and accent colour produced by earlier ones.
func New(cfg Config, data Data, deps Collaborators) *Pipeline {
	p := &Pipeline{cfg: cfg, data: data, deps: deps}
	p.stages = []stage{
		{"background", p.drawBackground},
		{"theme", p.extractTheme},
		{"blur", p.blurBackground},
		{"dim", p.dimBackground},
		{"decoration", p.drawDecoration},
		{"title", p.drawTitle},
		{"difficulty", p.drawDifficulty},
		{"rank", p.drawRank},
		{"score", p.drawScorePanel},
		{"stats", p.drawBeatmapStats},
		{"comment", p.drawComment},
	}
	return p
}

// Stages returns the stage names in order, including the final encode.
func (p *Pipeline) Stages() []string {
	names := make([]string, 0, len(p.stages)+1)
	for _, s := range p.stages {
		names = append(names, s.name)
	}
	return append(names, EncodeStage)
}

// Accent returns the accent colour chosen by the last Render.
func (p *Pipeline) Accent() color.RGBA {
	return p.accent
}

// Frame returns the canvas of the last successful Render.
func (p *Pipeline) Frame() *image.RGBA {
	return p.frame
}

// Render runs every drawing stage and returns the finished canvas.
func (p *Pipeline) Render(ctx context.Context) (*image.RGBA, error) {
	rc := &renderContext{
		canvas: image.NewRGBA(image.Rect(0, 0, config.Width, config.Height)),
	}

	total := len(p.stages) + 1
	for i, s := range p.stages {
		p.report(i+1, total, s.name)
		if err := s.run(ctx, rc); err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}

	p.accent = rc.accent
	p.frame = rc.canvas
	return rc.canvas, nil
}

// Write renders the thumbnail and stores it as PNG at the configured
// output path. Nothing is written unless the whole render succeeds.
func (p *Pipeline) Write(ctx context.Context) error {
	img, err := p.Render(ctx)
	if err != nil {
		return err
	}

	total := len(p.stages) + 1
	p.report(total, total, EncodeStage)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	if err := writeAtomic(p.cfg.Output, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return nil
}

func (p *Pipeline) report(n, total int, name string) {
	if p.OnStage != nil {
		p.OnStage(Progress{Stage: n, Total: total, Name: name})
	}
}

// drawBackground scales the art to cover the canvas height, centred horizontally.
func (p *Pipeline) drawBackground(ctx context.Context, rc *renderContext) error {
	img, err := imaging.Decode(bytes.NewReader(p.cfg.Background.Load(ctx)))
	if err != nil {
		img = gradientImage()
	}

	b := img.Bounds()
	scale := math.Max(
		float64(config.Width)/float64(b.Dx()),
		float64(config.Height)/float64(b.Dy()),
	)
	w := float64(b.Dx()) * scale
	x := float64(config.Width)/2 - w/2

	drawImage(rc.canvas, scaleImage(img, int(math.Round(w)), config.Height), int(math.Round(x)), 0)
	return nil
}

func (p *Pipeline) extractTheme(_ context.Context, rc *renderContext) error {
	if p.cfg.AccentOverride != nil {
		rc.accent = *p.cfg.AccentOverride
		return nil
	}
	swatches := p.deps.Palette.Extract(rc.canvas)
	rc.accent = palette.Accent(swatches, p.cfg.AccentIndex)
	return nil
}

func (p *Pipeline) blurBackground(_ context.Context, rc *renderContext) error {
	GaussianBlur{
		Rect:  image.Rect(0, config.BlurTop, config.Width, config.Height),
		Size:  config.BlurKernelSize,
		Sigma: config.BlurSigma,
	}.Apply(rc.canvas)
	return nil
}

func (p *Pipeline) dimBackground(_ context.Context, rc *renderContext) error {
	dim := func(r image.Rectangle, opacity float64) {
		c := color.NRGBA{A: uint8(math.Round(opacity * 255))}
		draw.Draw(rc.canvas, r, image.NewUniform(c), image.Point{}, draw.Over)
	}
	dim(image.Rect(0, config.HeaderBandHeight, config.Width, config.Height), config.BodyDim)
	dim(image.Rect(0, 0, config.Width, config.HeaderBandHeight), config.HeaderDim)
	return nil
}

// drawDecoration draws the glowing accent bars and the mirrored corner art.
func (p *Pipeline) drawDecoration(_ context.Context, rc *renderContext) error {
	g := glow(rc.accent)
	g.OffsetY = config.AccentBarLift
	g.Blur = config.AccentBarGlow

	bars := []image.Rectangle{
		image.Rect(0, config.HeaderBandHeight-config.AccentBarHeight, config.Width, config.HeaderBandHeight),
		image.Rect(0, config.Height-config.AccentBarHeight, config.Width, config.Height),
	}
	for _, r := range bars {
		fillMask(rc.canvas, rectMask(r), rc.accent, g)
	}

	corner, err := p.deps.Assets.Corner()
	if err != nil {
		return err
	}
	f := NewRecolorFilter(corner).SetColor(rc.accent)
	f.Render(rc.canvas, 0, 0)

	mirrored := imaging.FlipH(f.Image())
	drawImage(rc.canvas, mirrored, config.Width-mirrored.Bounds().Dx(), 0)
	return nil
}

func (p *Pipeline) drawTitle(_ context.Context, rc *renderContext) error {
	face := p.deps.Assets.BoldFace(config.TitleFontSize)
	defer face.Close()

	text := CropTextToFit(face, p.data.Beatmap.Title, config.Width-config.TitleMargin)
	m := measure(face, text)
	x := (config.Width - m.Width) / 2
	y := (config.TitleBandHeight - m.Height) / 2

	drawGlowText(rc.canvas, face, text, x, y, alphabetic, color.White, color.White)
	return nil
}

// drawDifficulty draws the difficulty name inside a two tone chip
// centred on the header band's lower edge.
func (p *Pipeline) drawDifficulty(_ context.Context, rc *renderContext) error {
	face := p.deps.Assets.RegularFace(config.DifficultyFontSize)
	defer face.Close()

	text := CropTextToFit(face, p.data.Beatmap.Version, config.Width-config.DifficultyMargin)
	m := measure(face, text)
	textX := (config.Width - m.Width) / 2
	textY := config.ChipCenterY - m.Height/2

	const (
		pad     = float64(config.ChipPadding)
		outline = float64(config.ChipOutline)
		line    = float64(config.ChipLine)
	)
	x := textX - pad
	y := textY - pad + line

	outer := roundRectMask(x-outline, y-outline, m.Width+pad+2*outline, m.Height+pad+2*outline, config.ChipRadius)
	fillMask(rc.canvas, outer, rc.accent, noShadow)

	inner := roundRectMask(x, y, m.Width+pad, m.Height+pad, config.ChipRadius)
	fillMask(rc.canvas, inner, palette.Mesh(rc.accent, config.ChipDarken).RGBA(), noShadow)

	drawText(rc.canvas, face, text, x+pad/2, y+line/2, top, color.White, dropShadow())
	return nil
}

func (p *Pipeline) drawRank(_ context.Context, rc *renderContext) error {
	badge, err := p.deps.Assets.Badge(p.data.Score.Rank())
	if err != nil {
		return err
	}

	b := badge.Bounds()
	w := float64(b.Dx()) * config.RankScale
	h := float64(b.Dy()) * config.RankScale
	y := (config.Height-h)/2 + config.RankOffsetY

	scaled := scaleImage(badge, int(math.Round(w)), int(math.Round(h)))
	drawImage(rc.canvas, scaled, 0, int(math.Round(y)))
	return nil
}

// drawScorePanel draws the avatar panel with the player name above it,
// accuracy and performance to its left, mods and highlight to its right.
func (p *Pipeline) drawScorePanel(ctx context.Context, rc *renderContext) error {
	s := p.data.Score

	nameFace := p.deps.Assets.RegularFace(config.PlayerFontSize)
	defer nameFace.Close()
	nm := measure(nameFace, s.Username)
	drawGlowText(rc.canvas, nameFace, s.Username,
		(config.Width-nm.Width)/2, config.PlayerNameY-nm.Height/2, top, color.White, color.White)

	px := (config.Width - config.PanelSize) / 2
	py := (config.Height-config.PanelSize)/2 + config.PanelOffsetY
	half := config.PanelOutline / 2

	outer := roundRectMask(float64(px-half), float64(py-half),
		config.PanelSize+config.PanelOutline, config.PanelSize+config.PanelOutline, config.PanelRadius)
	fillMask(rc.canvas, outer, rc.accent, noShadow)
	inner := roundRectMask(float64(px), float64(py), config.PanelSize, config.PanelSize, config.PanelRadius)
	fillMask(rc.canvas, inner, palette.Mesh(rc.accent, config.PanelDarken).RGBA(), noShadow)

	player, err := p.deps.Players.ResolvePlayer(ctx, s.Username)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	avatar, err := imaging.Decode(bytes.NewReader(player.Avatar))
	if err != nil {
		return fmt.Errorf("%w: avatar of %s: %w", ErrDataUnavailable, s.Username, err)
	}
	drawRounded(rc.canvas, avatar, px, py, config.PanelSize, config.PanelSize, config.PanelRadius)

	face := p.deps.Assets.RegularFace(config.StatFontSize)
	defer face.Close()

	accText := formatAccuracy(s.Accuracy())
	am := measure(face, accText)
	accX := float64(px) - am.Width - config.StatSpacing
	accY := float64(py+config.StatInsetY) + am.Height
	drawGlowText(rc.canvas, face, accText, accX, accY, top, color.White, color.White)

	pp, err := p.deps.Performance.Performance(ctx, s, p.data.Beatmap.ID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	ppText := strconv.FormatFloat(math.Round(pp), 'f', 0, 64) + "pp"
	pm := measure(face, ppText)
	ppX := float64(px) - pm.Width - config.StatSpacing
	ppY := accY + pm.Height + config.StatSpacing
	drawGlowText(rc.canvas, face, ppText, ppX, ppY, top, color.White, color.White)

	rightX := float64(px + config.PanelSize + config.StatSpacing)
	drawGlowText(rc.canvas, face, s.Mods.String(), rightX, accY, top, color.White, color.White)

	hl := p.cfg.Highlight.Kind.Color()
	drawGlowText(rc.canvas, face, p.cfg.Highlight.Text, rightX, ppY, top, hl, hl)
	return nil
}

// drawBeatmapStats draws the star rating and max combo panel at the right edge.
func (p *Pipeline) drawBeatmapStats(_ context.Context, rc *renderContext) error {
	panelX := config.Width - config.StatsPanelWidth + config.StatsPanelOverlap
	panel := roundRectMask(float64(panelX), config.StatsPanelY,
		config.StatsPanelWidth, config.StatsPanelHeight, config.StatsPanelRadius)
	hard := shadow{Color: rc.accent, OffsetX: config.StatsPanelShadowX}
	fillMask(rc.canvas, panel, palette.Mesh(rc.accent, config.StatsPanelDarken).RGBA(), hard)

	star, err := p.deps.Assets.Star()
	if err != nil {
		return err
	}
	starX := config.Width - config.StarIconSize - config.StarIconMargin
	starY := config.StatsPanelY + config.StarIconSize - config.StarIconMargin/2
	drawImage(rc.canvas, scaleImage(star, config.StarIconSize, config.StarIconSize), starX, starY)

	face := p.deps.Assets.MediumFace(config.StatsFontSize)
	defer face.Close()

	rating := strings.Replace(toFixed(p.data.Beatmap.StarRating, 2), ".00", "", 1)
	rm := measure(face, rating)
	drawGlowText(rc.canvas, face, rating,
		float64(starX)-rm.Width-config.StarIconMargin, float64(starY), top, color.White, color.White)

	combo := strconv.Itoa(p.data.Score.MaxCombo) + "x"
	cm := measure(face, combo)
	drawGlowText(rc.canvas, face, combo,
		config.Width-cm.Width-config.StarIconMargin, float64(starY)+cm.Height/2+config.ComboOffsetY,
		top, color.White, color.White)
	return nil
}

// drawComment is skipped entirely for a blank comment.
func (p *Pipeline) drawComment(_ context.Context, rc *renderContext) error {
	if strings.TrimSpace(p.cfg.Comment) == "" {
		return nil
	}

	face := p.deps.Assets.MediumFace(config.CommentFontSize)
	defer face.Close()

	text := CropTextToFit(face, p.cfg.Comment, config.Width-config.CommentMargin)
	m := measure(face, text)
	drawGlowText(rc.canvas, face, text,
		(config.Width-m.Width)/2, config.Height-config.CommentBottom, top, color.White, color.White)
	return nil
}

// formatAccuracy renders 0..1 as a percentage, dropping a ".00" fraction.
func formatAccuracy(acc float64) string {
	return strings.Replace(toFixed(acc*100, 2)+"%", ".00", "", 1)
}

// toFixed rounds half away from zero before formatting.
func toFixed(v float64, digits int) string {
	pow := math.Pow(10, float64(digits))
	return strconv.FormatFloat(math.Round(v*pow)/pow, 'f', digits, 64)
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
