package glyph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/textreel/glyph"
)

func TestTierOf(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		b    float32
		want glyph.Tier
	}{
		"zero":           {b: 0, want: glyph.Dim},
		"dim boundary":   {b: 0.33, want: glyph.Dim},
		"just above dim": {b: 0.331, want: glyph.Mid},
		"mid boundary":   {b: 0.66, want: glyph.Mid},
		"just above mid": {b: 0.661, want: glyph.Bright},
		"one":            {b: 1, want: glyph.Bright},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, glyph.TierOf(tc.b))
		})
	}
}

func TestTierString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dim", glyph.Dim.String())
	assert.Equal(t, "mid", glyph.Mid.String())
	assert.Equal(t, "bright", glyph.Bright.String())
	assert.Equal(t, "tier(7)", glyph.Tier(7).String())
}

func TestParseRamp(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		wantErr error
		wantLen int
	}{
		"ascii": {
			input:   " .:#",
			wantLen: 4,
		},
		"unicode blocks": {
			input:   " ░▒▓█",
			wantLen: 5,
		},
		"empty": {
			input:   "",
			wantErr: glyph.ErrRampTooShort,
		},
		"single glyph": {
			input:   "#",
			wantErr: glyph.ErrRampTooShort,
		},
		"control character": {
			input:   " \t#",
			wantErr: glyph.ErrUnprintableGlyph,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ramp, err := glyph.ParseRamp(tc.input)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantLen, ramp.Len())
			assert.Equal(t, tc.input, ramp.String())
		})
	}
}

func TestRampIndex(t *testing.T) {
	t.Parallel()

	ramp, err := glyph.ParseRamp("0123456789")
	require.NoError(t, err)

	tcs := map[string]struct {
		b    float32
		want int
	}{
		"zero":                {b: 0, want: 0},
		"negative":            {b: -0.5, want: 0},
		"one tenth":           {b: 0.1, want: 0},
		"just past one ninth": {b: 0.12, want: 1},
		"half":                {b: 0.5, want: 4},
		"one":                 {b: 1, want: 9},
		"above one":           {b: 1.5, want: 9},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, ramp.Index(tc.b))
		})
	}
}

func TestDefaultRamp(t *testing.T) {
	t.Parallel()

	ramp := glyph.Default()

	assert.Equal(t, len(glyph.DefaultRamp), ramp.Len())
	assert.Equal(t, ' ', ramp.Emptiest())
	assert.Equal(t, '@', ramp.Densest())

	assert.Equal(t, glyph.Cell{Glyph: '@', Tier: glyph.Bright}, ramp.Cell(1))
	assert.Equal(t, glyph.Cell{Glyph: ' ', Tier: glyph.Dim}, ramp.Cell(0))
}
