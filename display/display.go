// Package display defines the character-grid surface that frames are drawn
// on, and the glyph metric presets that select an effective resolution.
//
// Implementations live in subpackages: [go.jacobcolvin.com/textreel/display/ansiterm]
// writes escape sequences to a terminal, [go.jacobcolvin.com/textreel/display/tcellscreen]
// drives a tcell screen, and [go.jacobcolvin.com/textreel/display/displaytest]
// records calls in memory for tests.
package display

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.jacobcolvin.com/textreel/surface"
)

// ErrUnknownPreset indicates an unrecognized resolution preset name.
var ErrUnknownPreset = errors.New("unknown resolution preset")

// Surface is a character-grid display.
//
// Size is polled every tick; there is no resize notification.
type Surface interface {
	// Size returns the visible viewport in columns and rows. A surface that
	// cannot be measured reports 0, 0.
	Size() (cols, rows int)
	// WriteGrid writes exactly grid.Width()×grid.Height() cells with the
	// grid's top-left cell at col, row.
	WriteGrid(grid *surface.Grid, col, row int) error
	// SetCursor moves the cursor to col, row (zero-based).
	SetCursor(col, row int) error
	// SetGlyphMetrics selects the pixel size of one cell.
	SetGlyphMetrics(m Metrics) error
	// Clear blanks the whole surface.
	Clear() error
}

// Metrics is the pixel size of one character cell. Smaller cells fit more
// columns and rows in the same window.
type Metrics struct {
	Width  int `json:"width"  yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

func (m Metrics) String() string {
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// Preset is a named [Metrics] value.
type Preset struct {
	Name        string
	Description string
	Metrics     Metrics
}

// Resolution presets, finest first.
var (
	PresetBest   = Preset{Name: "best", Description: "best resolution", Metrics: Metrics{Width: 2, Height: 5}}
	PresetHigh   = Preset{Name: "high", Description: "high resolution", Metrics: Metrics{Width: 4, Height: 6}}
	PresetMedium = Preset{Name: "medium", Description: "medium resolution", Metrics: Metrics{Width: 8, Height: 9}}
	PresetLow    = Preset{Name: "low", Description: "low resolution", Metrics: Metrics{Width: 8, Height: 16}}
)

// DefaultMetrics are restored when playback ends.
var DefaultMetrics = PresetLow.Metrics

// Presets returns every preset, finest first.
func Presets() []Preset {
	return []Preset{PresetBest, PresetHigh, PresetMedium, PresetLow}
}

// PresetNames returns the names of [Presets], for flag help and completion.
func PresetNames() []string {
	ps := Presets()

	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}

	return names
}

// LookupPreset finds a preset by case-insensitive name.
func LookupPreset(name string) (Preset, error) {
	ps := Presets()

	i := slices.IndexFunc(ps, func(p Preset) bool {
		return strings.EqualFold(p.Name, name)
	})
	if i < 0 {
		return Preset{}, fmt.Errorf("%w %q, one of: %s", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}

	return ps[i], nil
}
