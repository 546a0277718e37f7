package terminal

import (
	"github.com/charmbracelet/lipgloss"
)

// Color definitions
var (
	// Primary colors
	PrimaryColor   = lipgloss.Color("#7D56F4")
	SecondaryColor = lipgloss.Color("#04B575")
	AccentColor    = lipgloss.Color("#FFD700")
	DangerColor    = lipgloss.Color("#F25D94")

	// Grayscale
	LightGray = lipgloss.Color("#D9D9D9")
	Gray      = lipgloss.Color("#8B8B8B")
	DarkGray  = lipgloss.Color("#383838")

	// Height band colors
	WaterColor = lipgloss.Color("#1E90FF") // DodgerBlue
	SandColor  = lipgloss.Color("#F4A460") // SandyBrown
	GrassColor = lipgloss.Color("#7CFC00") // LawnGreen
	DirtColor  = lipgloss.Color("#8B4513") // SaddleBrown
	StoneColor = lipgloss.Color("#708090") // SlateGray
	SnowColor  = lipgloss.Color("#FFFAFA") // Snow
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true).
			Padding(0, 1)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Gray)

	InfoPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SecondaryColor).
			Padding(0, 1).
			Width(36)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(DarkGray).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(DangerColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Gray).
			Italic(true)

	ObserverStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(PrimaryColor).
			Bold(true)
)

// Band classifies a height relative to the terrain's maximum magnitude.
type Band int

const (
	BandWater Band = iota
	BandSand
	BandGrass
	BandDirt
	BandStone
	BandSnow
)

// Thresholds on height/bound, lowest band first.
var bandLimits = [...]float64{-0.3, -0.1, 0.2, 0.5, 0.75}

// BandFor returns the band of a height normalised to [-1, 1].
func BandFor(normalized float64) Band {
	for i, limit := range bandLimits {
		if normalized < limit {
			return Band(i)
		}
	}
	return BandSnow
}

// Height band symbols
const (
	WaterSymbol    = '~'
	SandSymbol     = '.'
	GrassSymbol    = '"'
	DirtSymbol     = ':'
	StoneSymbol    = '^'
	SnowSymbol     = '*'
	ObserverSymbol = '@'
)

var bandSymbols = [...]rune{WaterSymbol, SandSymbol, GrassSymbol, DirtSymbol, StoneSymbol, SnowSymbol}

var bandStyles = [...]lipgloss.Style{
	lipgloss.NewStyle().Foreground(WaterColor),
	lipgloss.NewStyle().Foreground(SandColor),
	lipgloss.NewStyle().Foreground(GrassColor),
	lipgloss.NewStyle().Foreground(DirtColor),
	lipgloss.NewStyle().Foreground(StoneColor),
	lipgloss.NewStyle().Foreground(SnowColor),
}

func (b Band) Symbol() rune {
	return bandSymbols[b]
}

func (b Band) Style() lipgloss.Style {
	return bandStyles[b]
}

func (b Band) String() string {
	switch b {
	case BandWater:
		return "water"
	case BandSand:
		return "sand"
	case BandGrass:
		return "grass"
	case BandDirt:
		return "dirt"
	case BandStone:
		return "stone"
	default:
		return "snow"
	}
}
