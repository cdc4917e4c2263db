// Command textreel plays a video in the terminal as colored text.
//
// Every terminal cell shows one glyph chosen by the brightness of the pixel
// under it, in one of three shades. Playback keeps the source's native frame
// rate, skipping frames when drawing falls behind, and follows terminal
// resizes as they happen.
//
// # Usage
//
//	textreel [flags] <video_file|frame_directory>
//	textreel probe <video_file|frame_directory>
//	textreel schema
//
// Video files are decoded with ffmpeg and described with ffprobe; both must
// be on PATH (or set with --ffmpeg and --ffprobe). A directory is played as
// its PNG files in name order at --fps.
//
// Settings may also be given in a YAML file passed with --config; flags win
// over the file. Run textreel schema for the file's JSON Schema.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"

	"go.jacobcolvin.com/textreel/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdin, os.Stdout, os.Stderr)

	err := fang.Execute(ctx, a.rootCmd(),
		fang.WithVersion(version.String()),
		fang.WithCommit(version.Revision),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			_, _ = fmt.Fprintf(w, "Error: %v\n", err)
		}),
	)

	stopErr := a.profiler.Stop()
	if stopErr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", stopErr)
	}

	if errors.Join(err, stopErr) != nil {
		return 1
	}

	return 0
}
