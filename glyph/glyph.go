// Package glyph defines the character ramp and color tiers used to encode
// brightness as text.
package glyph

import (
	"errors"
	"fmt"
	"unicode"
)

// DefaultRamp lists ASCII characters from visually emptiest to densest.
const DefaultRamp = " `.-':_,^=;><+!rc*/z?sLTv)J7(|Fi{C}fI31tlu[neoZ5Yxjya]2ESwqkP6h9d4VpOGbUAKXHm8RD#$Bg0MNWQ%&@"

// Tier thresholds. Brightness at or below DimMax is [Dim], at or below MidMax
// is [Mid], anything above is [Bright].
const (
	DimMax = 0.33
	MidMax = 0.66
)

var (
	// ErrRampTooShort indicates a ramp with fewer than two glyphs.
	ErrRampTooShort = errors.New("ramp must contain at least two glyphs")
	// ErrUnprintableGlyph indicates a ramp containing a non-printable rune.
	ErrUnprintableGlyph = errors.New("unprintable glyph")
)

// Tier is a brightness band that selects display color.
type Tier uint8

const (
	// Dim is the darkest band.
	Dim Tier = iota
	// Mid is the middle band.
	Mid
	// Bright is the brightest band.
	Bright
)

// Tiers lists every [Tier] in ascending brightness.
var Tiers = []Tier{Dim, Mid, Bright}

func (t Tier) String() string {
	switch t {
	case Dim:
		return "dim"
	case Mid:
		return "mid"
	case Bright:
		return "bright"
	}

	return fmt.Sprintf("tier(%d)", uint8(t))
}

// TierOf returns the band for brightness b.
func TierOf(b float32) Tier {
	switch {
	case b <= DimMax:
		return Dim
	case b <= MidMax:
		return Mid
	}

	return Bright
}

// Cell is one position of a rendered grid.
type Cell struct {
	Glyph rune
	Tier  Tier
}

// Ramp is an ordered glyph alphabet, emptiest first.
//
// Create instances with [ParseRamp] or [Default].
type Ramp struct {
	glyphs []rune
}

// Default returns the ramp built from [DefaultRamp].
func Default() Ramp {
	return Ramp{glyphs: []rune(DefaultRamp)}
}

// ParseRamp builds a [Ramp] from s. Every rune must be printable and there
// must be at least two.
func ParseRamp(s string) (Ramp, error) {
	glyphs := []rune(s)
	if len(glyphs) < 2 {
		return Ramp{}, fmt.Errorf("%w: got %d", ErrRampTooShort, len(glyphs))
	}

	for i, r := range glyphs {
		if !unicode.IsPrint(r) {
			return Ramp{}, fmt.Errorf("%w %q at position %d", ErrUnprintableGlyph, r, i)
		}
	}

	return Ramp{glyphs: glyphs}, nil
}

// Len returns the number of glyphs.
func (r Ramp) Len() int {
	return len(r.glyphs)
}

// Index returns floor(b * (Len-1)), clamped to the ramp's bounds.
func (r Ramp) Index(b float32) int {
	last := len(r.glyphs) - 1
	if last <= 0 || b <= 0 {
		return 0
	}

	i := int(b * float32(last))

	return min(i, last)
}

// Glyph returns the glyph at index i.
func (r Ramp) Glyph(i int) rune {
	return r.glyphs[i]
}

// Cell maps brightness b to a glyph and tier.
func (r Ramp) Cell(b float32) Cell {
	return Cell{
		Glyph: r.glyphs[r.Index(b)],
		Tier:  TierOf(b),
	}
}

// Densest returns the last glyph.
func (r Ramp) Densest() rune {
	return r.glyphs[len(r.glyphs)-1]
}

// Emptiest returns the first glyph.
func (r Ramp) Emptiest() rune {
	return r.glyphs[0]
}

func (r Ramp) String() string {
	return string(r.glyphs)
}
