package pacing

import (
	"fmt"
	"time"
)

// DefaultMaxElapsed bounds a single measurement so that an external stall
// (suspended process, dragged window) costs at most one second of catch-up.
const DefaultMaxElapsed = time.Second

// Clock supplies monotonic time readings.
type Clock interface {
	Now() time.Time
}

// SystemClock reads [time.Now], whose values carry the monotonic clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// State is the controller's decision for the current tick.
type State uint8

const (
	// Idle means the caller is ahead of schedule.
	Idle State = iota
	// Skipping means the caller is behind by at least two intervals and must
	// discard frames before rendering.
	Skipping
	// Rendering means exactly one frame is due.
	Rendering
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Skipping:
		return "skipping"
	case Rendering:
		return "rendering"
	}

	return fmt.Sprintf("state(%d)", uint8(s))
}

// Decision is the outcome of one [Controller.Tick].
type Decision struct {
	// Render is true when a frame is due.
	Render bool
	// Skip is the number of frames to read when Render is true. The first
	// Skip-1 are discarded and the last is presented. Always >= 1 when Render
	// is set.
	Skip int
}

// Option configures a [Controller].
type Option func(*Controller)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(pc *Controller) {
		pc.clock = c
	}
}

// WithMaxElapsed sets the per-tick elapsed clamp. Non-positive values keep
// [DefaultMaxElapsed].
func WithMaxElapsed(d time.Duration) Option {
	return func(pc *Controller) {
		if d > 0 {
			pc.maxElapsed = d
		}
	}
}

// Controller is a deficit-counter frame scheduler. It is not safe for
// concurrent use; the playback loop owns it.
//
// Create instances with [New].
type Controller struct {
	clock      Clock
	last       time.Time
	tickStart  time.Time
	interval   time.Duration
	maxElapsed time.Duration
	deficit    time.Duration
	state      State
}

// New creates a [Controller] targeting fps frames per second. The caller must
// reject non-positive fps before calling New.
func New(fps float64, opts ...Option) *Controller {
	pc := &Controller{
		clock:      SystemClock{},
		interval:   time.Duration(float64(time.Second) / fps),
		maxElapsed: DefaultMaxElapsed,
	}
	for _, opt := range opts {
		opt(pc)
	}

	pc.deficit = pc.interval

	return pc
}

// Start resets the deficit to one interval and takes the first clock mark.
func (pc *Controller) Start() {
	pc.last = pc.clock.Now()
	pc.tickStart = pc.last
	pc.deficit = pc.interval
	pc.state = Idle
}

// Tick measures the time since the previous mark, charges it to the deficit,
// and decides whether a frame is due.
func (pc *Controller) Tick() Decision {
	now := pc.clock.Now()
	elapsed := pc.clamp(now.Sub(pc.last))

	pc.last = now
	pc.tickStart = now
	pc.deficit -= elapsed

	if pc.deficit >= 0 {
		pc.state = Idle

		return Decision{}
	}

	skip := SkipCount(pc.deficit, pc.interval)

	pc.state = Rendering
	if skip > 1 {
		pc.state = Skipping
	}

	return Decision{Render: true, Skip: skip}
}

// Rendered resets the deficit after a frame was presented, charging the time
// spent since the start of the current tick against the new interval.
func (pc *Controller) Rendered() {
	now := pc.clock.Now()

	pc.deficit = pc.interval - pc.clamp(now.Sub(pc.tickStart))
	pc.last = now
}

// SkipCount returns max(1, floor(|deficit|/interval)): how many frames must be
// read to get back on schedule.
func SkipCount(deficit, interval time.Duration) int {
	if interval <= 0 {
		return 1
	}

	if deficit < 0 {
		deficit = -deficit
	}

	return max(1, int(deficit/interval))
}

// Interval returns the target frame interval.
func (pc *Controller) Interval() time.Duration { return pc.interval }

// Deficit returns the current deficit. Negative means behind schedule.
func (pc *Controller) Deficit() time.Duration { return pc.deficit }

// State returns the state chosen by the last [Controller.Tick].
func (pc *Controller) State() State { return pc.state }

func (pc *Controller) clamp(d time.Duration) time.Duration {
	return min(max(d, 0), pc.maxElapsed)
}
