package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type RGB [3]uint8

// Palette is an ordered color ramp sampled by normalized position.
type Palette struct {
	Name   string
	Colors []RGB
}

// Lookup maps a normalized value 0-1 onto the ramp.
func (p *Palette) Lookup(norm float64) RGB {
	if len(p.Colors) == 0 {
		return RGB{255, 255, 255}
	}
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	idx := int(norm * float64(len(p.Colors)-1))
	return p.Colors[idx]
}

// DefaultPalette is the built-in plasma-like ramp, dark to bright.
func DefaultPalette() *Palette {
	return &Palette{
		Name: "plasma",
		Colors: []RGB{
			{13, 8, 135},
			{84, 2, 163},
			{139, 10, 165},
			{185, 50, 137},
			{219, 92, 104},
			{244, 136, 73},
			{254, 188, 43},
			{240, 249, 33},
		},
	}
}

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Beat bar cells
	BeatIdle     rune // · waiting beat position
	BeatLit      rune // ● currently blinking beat
	BeatEmphasis rune // ◉ blinking downbeat
	BeatGap      rune // ○ muted beat position
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			BeatIdle:     '·',
			BeatLit:      '●',
			BeatEmphasis: '◉',
			BeatGap:      '○',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleMuted   = 0.2
	RoleFG      = 0.4
	RoleAccent  = 0.5
	RoleActive  = 0.7
	RoleWarning = 0.8
	RoleBright  = 1.0
)

// Style helpers

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Bright() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBright))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
