// Package videotest provides synthetic frames and sources for tests.
package videotest

import (
	"image"
	"image/color"
	"image/draw"

	"go.jacobcolvin.com/textreel/video"
)

// Solid returns a w×h frame filled with c.
func Solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, image.NewUniform(c), image.Point{}, draw.Src)

	return img
}

// Source is an in-memory [video.Source] that replays a fixed list of frames.
type Source struct {
	// Err, when set, is returned by the Read call at index ErrAt.
	Err    error
	frames []image.Image
	info   video.Info
	ErrAt  int
	Reads  int
	Closed bool
}

// NewSource creates a [Source] with the given frame rate and frames. The
// reported frame count is len(frames); override it with [Source.SetFrameCount].
func NewSource(fps float64, frames ...image.Image) *Source {
	info := video.Info{
		Path:       "synthetic",
		FPS:        fps,
		FrameCount: len(frames),
	}

	if len(frames) > 0 {
		b := frames[0].Bounds()
		info.Width = b.Dx()
		info.Height = b.Dy()
	}

	return &Source{
		frames: frames,
		info:   info,
		ErrAt:  -1,
	}
}

// SolidSource creates a [Source] of n identical w×h frames filled with c.
func SolidSource(fps float64, n, w, h int, c color.RGBA) *Source {
	frames := make([]image.Image, n)

	frame := Solid(w, h, c)
	for i := range frames {
		frames[i] = frame
	}

	return NewSource(fps, frames...)
}

// SetFrameCount overrides the frame count reported by Info, so tests can
// model containers whose metadata disagrees with the stream.
func (s *Source) SetFrameCount(n int) {
	s.info.FrameCount = n
}

// Read returns the next frame or [video.ErrEndOfStream].
func (s *Source) Read() (image.Image, error) {
	i := s.Reads
	s.Reads++

	if s.Err != nil && i == s.ErrAt {
		return nil, s.Err
	}

	if i >= len(s.frames) {
		return nil, video.ErrEndOfStream
	}

	return s.frames[i], nil
}

// Info returns the source description.
func (s *Source) Info() video.Info {
	return s.info
}

// Close marks the source closed.
func (s *Source) Close() error {
	s.Closed = true

	return nil
}
