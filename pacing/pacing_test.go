package pacing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/textreel/pacing"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newController(fps float64, opts ...pacing.Option) (*pacing.Controller, *manualClock) {
	clock := &manualClock{now: time.Unix(1_700_000_000, 0)}
	pc := pacing.New(fps, append([]pacing.Option{pacing.WithClock(clock)}, opts...)...)
	pc.Start()

	return pc, clock
}

func TestSkipCount(t *testing.T) {
	t.Parallel()

	interval := time.Second / 30

	tcs := map[string]struct {
		deficit  time.Duration
		interval time.Duration
		want     int
	}{
		"barely late": {
			deficit:  -time.Nanosecond,
			interval: interval,
			want:     1,
		},
		"one interval late": {
			deficit:  -interval,
			interval: interval,
			want:     1,
		},
		"just under two intervals": {
			deficit:  -2*interval + time.Nanosecond,
			interval: interval,
			want:     1,
		},
		"two intervals late": {
			deficit:  -2 * interval,
			interval: interval,
			want:     2,
		},
		"positive deficit uses magnitude": {
			deficit:  3 * interval,
			interval: interval,
			want:     3,
		},
		"zero interval": {
			deficit:  -time.Second,
			interval: 0,
			want:     1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, pacing.SkipCount(tc.deficit, tc.interval))
		})
	}
}

func TestTick(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		fps       float64
		elapsed   time.Duration
		want      pacing.Decision
		wantState pacing.State
	}{
		"early": {
			fps:       30,
			elapsed:   10 * time.Millisecond,
			want:      pacing.Decision{},
			wantState: pacing.Idle,
		},
		"exactly on time is still idle": {
			fps:       30,
			elapsed:   time.Second / 30,
			want:      pacing.Decision{},
			wantState: pacing.Idle,
		},
		"one interval late": {
			fps:       30,
			elapsed:   66700 * time.Microsecond,
			want:      pacing.Decision{Render: true, Skip: 1},
			wantState: pacing.Rendering,
		},
		"three intervals late": {
			fps:       30,
			elapsed:   100 * time.Millisecond,
			want:      pacing.Decision{Render: true, Skip: 2},
			wantState: pacing.Skipping,
		},
		"stall is clamped": {
			fps:       30,
			elapsed:   10 * time.Second,
			want:      pacing.Decision{Render: true, Skip: 29},
			wantState: pacing.Skipping,
		},
		"two fps": {
			fps:       2,
			elapsed:   800 * time.Millisecond,
			want:      pacing.Decision{Render: true, Skip: 1},
			wantState: pacing.Rendering,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pc, clock := newController(tc.fps)

			clock.Advance(tc.elapsed)

			assert.Equal(t, tc.want, pc.Tick())
			assert.Equal(t, tc.wantState, pc.State())
		})
	}
}

func TestStartResetsDeficit(t *testing.T) {
	t.Parallel()

	pc, clock := newController(25)

	assert.Equal(t, 40*time.Millisecond, pc.Interval())
	assert.Equal(t, pc.Interval(), pc.Deficit())

	clock.Advance(30 * time.Millisecond)
	pc.Tick()
	assert.Equal(t, 10*time.Millisecond, pc.Deficit())

	pc.Start()
	assert.Equal(t, pc.Interval(), pc.Deficit())
	assert.Equal(t, pacing.Idle, pc.State())
}

func TestRenderedChargesRenderTime(t *testing.T) {
	t.Parallel()

	pc, clock := newController(25)

	clock.Advance(50 * time.Millisecond)

	d := pc.Tick()
	require.True(t, d.Render)

	// Rendering took 15ms.
	clock.Advance(15 * time.Millisecond)
	pc.Rendered()

	assert.Equal(t, 25*time.Millisecond, pc.Deficit())

	// The render time is not charged a second time by the next tick.
	d = pc.Tick()
	assert.False(t, d.Render)
	assert.Equal(t, 25*time.Millisecond, pc.Deficit())

	clock.Advance(25 * time.Millisecond)
	assert.False(t, pc.Tick().Render)

	clock.Advance(time.Millisecond)
	assert.Equal(t, pacing.Decision{Render: true, Skip: 1}, pc.Tick())
}

func TestRenderedClampsSlowRender(t *testing.T) {
	t.Parallel()

	pc, clock := newController(10, pacing.WithMaxElapsed(200*time.Millisecond))

	clock.Advance(150 * time.Millisecond)
	require.True(t, pc.Tick().Render)

	clock.Advance(5 * time.Second)
	pc.Rendered()

	assert.Equal(t, -100*time.Millisecond, pc.Deficit())
}

func TestWithMaxElapsed(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		max      time.Duration
		elapsed  time.Duration
		wantSkip int
	}{
		"custom clamp": {
			max:      100 * time.Millisecond,
			elapsed:  time.Minute,
			wantSkip: 0,
		},
		"non-positive keeps default": {
			max:      -1,
			elapsed:  time.Minute,
			wantSkip: 9,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pc, clock := newController(10, pacing.WithMaxElapsed(tc.max))

			clock.Advance(tc.elapsed)

			d := pc.Tick()
			assert.Equal(t, tc.wantSkip, d.Skip)
		})
	}
}

func TestSteadyPlayback(t *testing.T) {
	t.Parallel()

	// Ticking every millisecond at 20 fps with instant renders should present
	// about one frame per interval and never skip.
	pc, clock := newController(20)

	var renders, skipped int

	for range 10_000 {
		clock.Advance(time.Millisecond)

		d := pc.Tick()
		if !d.Render {
			continue
		}

		renders++
		skipped += d.Skip - 1

		pc.Rendered()
	}

	// 10 seconds of playback.
	assert.InDelta(t, 200, renders, 5)
	assert.Zero(t, skipped)
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", pacing.Idle.String())
	assert.Equal(t, "skipping", pacing.Skipping.String())
	assert.Equal(t, "rendering", pacing.Rendering.String())
	assert.Equal(t, "state(9)", pacing.State(9).String())
}
