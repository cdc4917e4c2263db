package ansiterm_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/textreel/display"
	"go.jacobcolvin.com/textreel/display/ansiterm"
	"go.jacobcolvin.com/textreel/glyph"
	"go.jacobcolvin.com/textreel/surface"
)

var errClosed = errors.New("closed")

// countingWriter records each Write call separately.
type countingWriter struct {
	err    error
	writes []string
}

func (w *countingWriter) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}

	w.writes = append(w.writes, string(p))

	return len(p), nil
}

func fixedSize(cols, rows int) ansiterm.Option {
	return ansiterm.WithSizeFunc(func() (int, int, error) {
		return cols, rows, nil
	})
}

func grid(rows ...string) *surface.Grid {
	g := surface.New(len([]rune(rows[0])), len(rows))

	for y, row := range rows {
		for x, r := range []rune(row) {
			tier := glyph.Bright
			if r == ' ' {
				tier = glyph.Dim
			}

			g.Set(x, y, glyph.Cell{Glyph: r, Tier: tier})
		}
	}

	return g
}

func TestWriteGrid(t *testing.T) {
	t.Parallel()

	w := &countingWriter{}
	term := ansiterm.New(w, -1, fixedSize(80, 24))

	err := term.WriteGrid(grid("@@ ", " @@"), 2, 1)
	require.NoError(t, err)

	require.Len(t, w.writes, 1, "a grid is written with a single call")

	out := w.writes[0]
	assert.Equal(t, "@@  @@", ansi.Strip(out))
	assert.True(t, strings.HasPrefix(out, ansi.CursorPosition(3, 2)))
	assert.Contains(t, out, ansi.CursorPosition(3, 3))
	assert.True(t, strings.HasSuffix(out, ansi.ResetStyle))

	bright := ansi.SGR(ansi.BrightWhiteForegroundColorAttr)
	dim := ansi.SGR(ansi.BrightBlackForegroundColorAttr)

	// One style change per run of equal tiers, restated at each row start.
	assert.Equal(t, 2, strings.Count(out, bright))
	assert.Equal(t, 2, strings.Count(out, dim))
}

func TestWriteGridTiers(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want string
		tier glyph.Tier
	}{
		"dim":    {tier: glyph.Dim, want: ansi.SGR(ansi.BrightBlackForegroundColorAttr)},
		"mid":    {tier: glyph.Mid, want: ansi.SGR(ansi.WhiteForegroundColorAttr)},
		"bright": {tier: glyph.Bright, want: ansi.SGR(ansi.BrightWhiteForegroundColorAttr)},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			g := surface.New(1, 1)
			g.Set(0, 0, glyph.Cell{Glyph: '+', Tier: tc.tier})

			err := ansiterm.New(&buf, -1).WriteGrid(g, 0, 0)
			require.NoError(t, err)

			assert.Contains(t, buf.String(), tc.want+"+")
		})
	}
}

func TestWriteGridError(t *testing.T) {
	t.Parallel()

	w := &countingWriter{err: errClosed}

	err := ansiterm.New(w, -1).WriteGrid(grid("x"), 0, 0)
	require.ErrorIs(t, err, errClosed)

	err = ansiterm.New(w, -1).Clear()
	require.ErrorIs(t, err, errClosed)
}

func TestSize(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		fn   ansiterm.SizeFunc
		cols int
		rows int
	}{
		"ok": {
			fn:   func() (int, int, error) { return 120, 40, nil },
			cols: 120,
			rows: 40,
		},
		"error": {
			fn:   func() (int, int, error) { return 120, 40, errClosed },
			cols: 0,
			rows: 0,
		},
		"negative": {
			fn:   func() (int, int, error) { return -1, 10, nil },
			cols: 0,
			rows: 10,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cols, rows := ansiterm.New(&bytes.Buffer{}, -1, ansiterm.WithSizeFunc(tc.fn)).Size()
			assert.Equal(t, tc.cols, cols)
			assert.Equal(t, tc.rows, rows)
		})
	}
}

func TestSizeNotATerminal(t *testing.T) {
	t.Parallel()

	// A descriptor that is not a terminal reports an empty viewport.
	cols, rows := ansiterm.New(&bytes.Buffer{}, -1).Size()
	assert.Zero(t, cols)
	assert.Zero(t, rows)
}

func TestCursorAndClear(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	term := ansiterm.New(&buf, -1)

	require.NoError(t, term.SetCursor(0, 0))
	assert.Equal(t, ansi.CursorPosition(1, 1), buf.String())

	buf.Reset()

	require.NoError(t, term.Clear())
	assert.Contains(t, buf.String(), ansi.EraseEntireScreen)
	assert.Empty(t, ansi.Strip(buf.String()))
}

func TestOpenClose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	term := ansiterm.New(&buf, -1)

	require.NoError(t, term.Open())
	assert.Contains(t, buf.String(), ansi.HideCursor)

	buf.Reset()

	require.NoError(t, term.Close())
	assert.Contains(t, buf.String(), ansi.ShowCursor)
}

func TestGlyphMetrics(t *testing.T) {
	t.Parallel()

	term := ansiterm.New(&bytes.Buffer{}, -1)
	assert.Equal(t, display.DefaultMetrics, term.Metrics())

	require.NoError(t, term.SetGlyphMetrics(display.PresetHigh.Metrics))
	assert.Equal(t, display.PresetHigh.Metrics, term.Metrics())
}
