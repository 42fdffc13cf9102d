package config

// Canvas settings
const (
	Width  = 1280
	Height = 720
)

// Background blur, applied to the band below BlurTop
const (
	BlurTop        = 100
	BlurKernelSize = 30
	BlurSigma      = 7.0
)

// Dim overlays (black, alpha as fraction)
const (
	HeaderBandHeight = 200
	HeaderDim        = 0.45
	BodyDim          = 0.75
)

// Appearance - layout of the stages
const (
	// Accent bars along the lower band's top edge and the canvas bottom
	AccentBarHeight = 10
	AccentBarGlow   = 20
	AccentBarLift   = -5

	// Title and difficulty chip
	TitleFontSize      = 80
	TitleMargin        = 100 // title crop budget is Width - TitleMargin
	TitleBandHeight    = 300
	DifficultyFontSize = 60
	DifficultyMargin   = 150
	ChipCenterY        = 200
	ChipPadding        = 20
	ChipOutline        = 5
	ChipLine           = 5
	ChipRadius         = 10
	ChipDarken         = 0.25

	// Rank badge
	RankScale   = 0.6
	RankOffsetY = 100

	// Score panel
	PanelSize           = 280
	PanelOffsetY        = 100
	PanelOutline        = 10
	PanelRadius         = 20
	PanelDarken         = 0.25
	PlayerFontSize      = 70
	PlayerNameY         = 272 // centre line of the player name
	StatFontSize        = 60
	StatSpacing         = 30
	StatInsetY          = 10
	GlowBlur            = 20
	DefaultShadowOffset = 3
	DefaultShadowBlur   = 4

	// Beatmap stats panel
	StatsPanelWidth   = 200
	StatsPanelHeight  = 120
	StatsPanelY       = 270
	StatsPanelOverlap = 20
	StatsPanelRadius  = 20
	StatsPanelDarken  = 0.45
	StatsPanelShadowX = -5
	StarIconSize      = 30
	StarIconMargin    = 10
	StatsFontSize     = 40
	ComboOffsetY      = 25

	// Comment
	CommentFontSize = 70
	CommentBottom   = 100 // comment top edge sits this far above the canvas bottom
	CommentMargin   = 100
)

// Highlight label colours by category
const (
	HighlightFullColor   = "#FFDF40"
	HighlightMissColor   = "#FF4040"
	HighlightSBreakColor = "#ACBFBF"
	HighlightOtherColor  = "#FFFFFF"
)

// Optional asset overrides looked up in the assets directory.
// Missing files fall back to the built-in procedural artwork.
const (
	CornerAsset     = "corner.png"
	StarAsset       = "star.png"
	FallbackBGAsset = "fallbackbg.jpg"
	RankAssetFormat = "%s.png" // grade name, F uses D
)

// Defaults for the command line
const (
	DefaultConfigFile = "config.json"
	DefaultReplaysDir = "replays"
	DefaultAssetsDir  = "assets"
	DefaultOutputFile = "output.png"
)
