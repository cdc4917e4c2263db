// Package video opens sources of decoded frames: video files decoded by an
// ffmpeg child process, or directories of still images.
package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"time"
)

// MinFPS is the smallest frame rate treated as valid.
const MinFPS = 1e-7

// DefaultFPS is used for frame directories when no rate is configured.
const DefaultFPS = 24

var (
	// ErrOpen indicates the source could not be opened or probed.
	ErrOpen = errors.New("cannot open source")
	// ErrEndOfStream is returned by [Source.Read] once every frame has been
	// read. It is the normal end of playback, not a failure.
	ErrEndOfStream = errors.New("end of stream")
)

// Info describes a source.
type Info struct {
	Path       string
	Width      int
	Height     int
	FPS        float64
	FrameCount int
}

// Degenerate reports whether the source cannot be paced: a frame rate at or
// below [MinFPS] or no frames.
func (i Info) Degenerate() bool {
	return i.FPS <= MinFPS || i.FrameCount <= 0
}

// Duration returns the playback length at the native frame rate.
func (i Info) Duration() time.Duration {
	if i.FPS <= MinFPS || i.FrameCount <= 0 {
		return 0
	}

	return time.Duration(float64(i.FrameCount) / i.FPS * float64(time.Second))
}

// Length formats [Info.Duration] as HH:MM:SS, truncating fractional seconds.
func (i Info) Length() string {
	total := int(i.Duration() / time.Second)

	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}

// Source yields decoded frames in order.
type Source interface {
	// Read returns the next frame, or [ErrEndOfStream] when none remain.
	// The returned image is only valid until the next Read.
	Read() (image.Image, error)
	// Info describes the source.
	Info() Info
	// Close releases the source.
	Close() error
}

type options struct {
	logger  *slog.Logger
	ffmpeg  string
	ffprobe string
	fps     float64
}

// Option configures [Open].
type Option func(*options)

// WithFFmpeg sets the ffmpeg binary name or path.
func WithFFmpeg(path string) Option {
	return func(o *options) {
		if path != "" {
			o.ffmpeg = path
		}
	}
}

// WithFFprobe sets the ffprobe binary name or path.
func WithFFprobe(path string) Option {
	return func(o *options) {
		if path != "" {
			o.ffprobe = path
		}
	}
}

// WithFPS sets the frame rate of frame directories. Video files always use
// their native rate.
func WithFPS(fps float64) Option {
	return func(o *options) {
		if fps > 0 {
			o.fps = fps
		}
	}
}

// WithLogger sets the logger for decoder diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Open opens path as a frame directory if it is a directory, or as a video
// file decoded by ffmpeg otherwise. Failures wrap [ErrOpen]. Cancelling ctx
// stops the decoder.
func Open(ctx context.Context, path string, opts ...Option) (Source, error) {
	o := options{
		logger:  slog.New(slog.DiscardHandler),
		ffmpeg:  "ffmpeg",
		ffprobe: "ffprobe",
		fps:     DefaultFPS,
	}
	for _, opt := range opts {
		opt(&o)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	if fi.IsDir() {
		return openFrameDir(path, o)
	}

	return openFFmpeg(ctx, path, o)
}
