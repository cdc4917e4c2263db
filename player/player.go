// Package player runs the playback loop: it polls the display size, paces
// frames against the source's native rate, samples each due frame into a
// glyph grid, and flushes the grid to the display.
//
// The loop is single-threaded and never sleeps. Each tick:
//
//  1. The pacing controller measures elapsed time and updates its deficit.
//  2. The display is queried and the grid reallocated if the size changed.
//  3. If a frame is due, frames are read (discarding any that were missed),
//     the last one is sampled into the grid, and the grid is flushed.
//
// Playback ends when the source's frame count is reached, the source reports
// [video.ErrEndOfStream], or the context is cancelled.
package player

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"time"

	"go.jacobcolvin.com/textreel/display"
	"go.jacobcolvin.com/textreel/glyph"
	"go.jacobcolvin.com/textreel/luma"
	"go.jacobcolvin.com/textreel/pacing"
	"go.jacobcolvin.com/textreel/render"
	"go.jacobcolvin.com/textreel/sampler"
	"go.jacobcolvin.com/textreel/surface"
	"go.jacobcolvin.com/textreel/video"
)

// ErrDegenerateSource indicates a source whose frame rate or frame count
// makes pacing impossible. Playback never starts for such a source.
var ErrDegenerateSource = errors.New("degenerate source")

// Stats summarizes a playback run.
type Stats struct {
	// Consumed is the number of frames read from the source.
	Consumed int
	// Rendered is the number of frames flushed to the display.
	Rendered int
	// Skipped is the number of frames read and discarded to catch up.
	Skipped int
	// Dropped is the number of due frames not drawn because the viewport had
	// no columns or rows.
	Dropped int
	// Resizes is the number of viewport size changes observed.
	Resizes int
	// Elapsed is the wall-clock playback time.
	Elapsed time.Duration
}

// Option configures a [Player].
type Option func(*Player)

// WithClock replaces the monotonic clock used for pacing and stats.
func WithClock(c pacing.Clock) Option {
	return func(p *Player) {
		p.clock = c
	}
}

// WithMaxElapsed sets the stall clamp passed to [pacing.WithMaxElapsed].
func WithMaxElapsed(d time.Duration) Option {
	return func(p *Player) {
		p.maxElapsed = d
	}
}

// WithMetrics sets the glyph metrics applied to the display for the run.
func WithMetrics(m display.Metrics) Option {
	return func(p *Player) {
		p.metrics = m
	}
}

// WithRamp sets the glyph ramp. The default is [glyph.Default].
func WithRamp(r glyph.Ramp) Option {
	return func(p *Player) {
		p.ramp = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// Player plays one source on one display.
//
// Create instances with [New].
type Player struct {
	source     video.Source
	display    display.Surface
	clock      pacing.Clock
	logger     *slog.Logger
	table      *luma.Table
	sampler    *sampler.Sampler
	renderer   *render.Renderer
	pacer      *pacing.Controller
	grid       *surface.Grid
	ramp       glyph.Ramp
	metrics    display.Metrics
	stats      Stats
	maxElapsed time.Duration
}

// New creates a [Player]. The brightness table is built by the caller once
// and may be shared between players. New returns an error wrapping
// [ErrDegenerateSource] when the source cannot be paced.
func New(src video.Source, d display.Surface, table *luma.Table, opts ...Option) (*Player, error) {
	p := &Player{
		source:     src,
		display:    d,
		clock:      pacing.SystemClock{},
		logger:     slog.New(slog.DiscardHandler),
		table:      table,
		ramp:       glyph.Default(),
		metrics:    display.DefaultMetrics,
		maxElapsed: pacing.DefaultMaxElapsed,
	}
	for _, opt := range opts {
		opt(p)
	}

	err := Validate(src.Info())
	if err != nil {
		return nil, err
	}

	p.sampler = sampler.New(table, p.ramp)
	p.renderer = render.New(d)
	p.grid = surface.New(0, 0)
	p.pacer = pacing.New(src.Info().FPS,
		pacing.WithClock(p.clock),
		pacing.WithMaxElapsed(p.maxElapsed),
	)

	return p, nil
}

// Validate returns an error wrapping [ErrDegenerateSource] when info
// describes a source that cannot be paced.
func Validate(info video.Info) error {
	if info.Degenerate() {
		return fmt.Errorf("%w: fps=%g frames=%d", ErrDegenerateSource, info.FPS, info.FrameCount)
	}

	return nil
}

// Run plays the source to the end. Reaching the end of the stream is not an
// error. On every return path the display is cleared and its default glyph
// metrics restored.
func (p *Player) Run(ctx context.Context) (stats Stats, err error) {
	start := p.clock.Now()

	defer func() {
		p.stats.Elapsed = p.clock.Now().Sub(start)
		stats = p.stats
		err = errors.Join(err, p.restore())
	}()

	err = p.display.SetGlyphMetrics(p.metrics)
	if err != nil {
		return p.stats, fmt.Errorf("setting glyph metrics: %w", err)
	}

	cols, rows := p.display.Size()
	p.grid.Resize(cols, rows)

	frame, err := p.read()
	if errors.Is(err, video.ErrEndOfStream) {
		return p.stats, nil
	}

	if err != nil {
		return p.stats, err
	}

	err = p.present(frame)
	if err != nil {
		return p.stats, err
	}

	total := p.source.Info().FrameCount

	p.pacer.Start()

	for p.stats.Consumed < total {
		err = ctx.Err()
		if err != nil {
			return p.stats, fmt.Errorf("playback interrupted: %w", err)
		}

		d := p.pacer.Tick()

		p.reconcile()

		if !d.Render {
			runtime.Gosched()

			continue
		}

		frame, err = p.advance(d.Skip)
		if errors.Is(err, video.ErrEndOfStream) {
			p.logger.Debug("stream ended before frame count", "consumed", p.stats.Consumed, "total", total)

			return p.stats, nil
		}

		if err != nil {
			return p.stats, err
		}

		err = p.present(frame)
		if err != nil {
			return p.stats, err
		}

		p.pacer.Rendered()
	}

	return p.stats, nil
}

// reconcile reallocates the grid when the viewport size changed.
func (p *Player) reconcile() {
	cols, rows := p.display.Size()

	if p.grid.Reconcile(cols, rows) {
		p.stats.Resizes++
		p.logger.Debug("viewport resized", "cols", cols, "rows", rows)
	}
}

// advance reads n frames and returns the last. The first n-1 are discarded.
func (p *Player) advance(n int) (image.Image, error) {
	var frame image.Image

	for i := range n {
		f, err := p.read()
		if err != nil {
			return nil, err
		}

		if i < n-1 {
			p.stats.Skipped++
		}

		frame = f
	}

	if n > 1 {
		p.logger.Debug("skipped frames", "count", n-1, "state", p.pacer.State())
	}

	return frame, nil
}

func (p *Player) read() (image.Image, error) {
	frame, err := p.source.Read()
	if errors.Is(err, video.ErrEndOfStream) {
		return nil, err
	}

	if err != nil {
		return nil, fmt.Errorf("reading frame %d: %w", p.stats.Consumed+1, err)
	}

	p.stats.Consumed++

	return frame, nil
}

// present samples frame into the grid and flushes it. Frames are dropped
// while the viewport is empty.
func (p *Player) present(frame image.Image) error {
	if !p.sampler.Sample(frame, p.grid) {
		p.stats.Dropped++

		return nil
	}

	err := p.renderer.Flush(p.grid)
	if err != nil {
		return fmt.Errorf("rendering frame %d: %w", p.stats.Consumed, err)
	}

	p.stats.Rendered++

	return nil
}

// restore clears the display and resets its glyph metrics.
func (p *Player) restore() error {
	var errs []error

	err := p.display.Clear()
	if err != nil {
		errs = append(errs, fmt.Errorf("clearing display: %w", err))
	}

	err = p.display.SetGlyphMetrics(display.DefaultMetrics)
	if err != nil {
		errs = append(errs, fmt.Errorf("restoring glyph metrics: %w", err))
	}

	return errors.Join(errs...)
}

// Summary describes a source before playback.
func Summary(info video.Info) string {
	return fmt.Sprintf("Source: %s\nFrame rate: %.3f fps\nFrames: %d\nLength: %s\nResolution: %dx%d",
		info.Path, info.FPS, info.FrameCount, info.Length(), info.Width, info.Height)
}

// Report describes a finished run.
func Report(s Stats) string {
	return fmt.Sprintf("Played %d frames in %s (%d rendered, %d skipped, %d dropped, %d resizes)",
		s.Consumed, s.Elapsed.Round(time.Millisecond), s.Rendered, s.Skipped, s.Dropped, s.Resizes)
}
