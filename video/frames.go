package video

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// frameDir reads PNG frames from a directory in filename order, decoding one
// file per [frameDir.Read].
type frameDir struct {
	logger *slog.Logger
	dir    string
	names  []string
	next   int
	info   Info
}

func openFrameDir(dir string, o options) (*frameDir, error) {
	names, err := listFrames(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	first, err := decodePNG(filepath.Join(dir, names[0]), o.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrOpen, names[0], err)
	}

	b := first.Bounds()

	return &frameDir{
		logger: o.logger,
		dir:    dir,
		names:  names,
		info: Info{
			Path:       dir,
			Width:      b.Dx(),
			Height:     b.Dy(),
			FPS:        o.fps,
			FrameCount: len(names),
		},
	}, nil
}

func (d *frameDir) Read() (image.Image, error) {
	if d.next >= len(d.names) {
		return nil, ErrEndOfStream
	}

	name := d.names[d.next]
	d.next++

	img, err := decodePNG(filepath.Join(d.dir, name), d.logger)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	return img, nil
}

func (d *frameDir) Info() Info {
	return d.info
}

func (d *frameDir) Close() error {
	d.next = len(d.names)

	return nil
}

// listFrames returns the PNG file names in dir, sorted by name.
func listFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var names []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		if strings.HasSuffix(strings.ToLower(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}

	slices.Sort(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("no PNG files found in %s", dir)
	}

	return names, nil
}

func decodePNG(path string, logger *slog.Logger) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // Frame paths come from a user-selected directory.
	if err != nil {
		return nil, err
	}

	defer func() {
		closeErr := f.Close()
		if closeErr != nil {
			logger.Warn("closing frame", "path", path, "err", closeErr)
		}
	}()

	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}

	return img, nil
}
