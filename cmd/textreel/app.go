package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"go.jacobcolvin.com/textreel/config"
	"go.jacobcolvin.com/textreel/display"
	"go.jacobcolvin.com/textreel/display/ansiterm"
	"go.jacobcolvin.com/textreel/display/tcellscreen"
	"go.jacobcolvin.com/textreel/glyph"
	"go.jacobcolvin.com/textreel/log"
	"go.jacobcolvin.com/textreel/luma"
	"go.jacobcolvin.com/textreel/player"
	"go.jacobcolvin.com/textreel/profile"
	"go.jacobcolvin.com/textreel/setup"
	"go.jacobcolvin.com/textreel/video"
)

// fder is satisfied by *os.File.
type fder interface {
	Fd() uintptr
}

type app struct {
	stdin    io.Reader
	stdout   io.Writer
	cfg      *config.Config
	logCfg   *log.Config
	profCfg  *profile.Config
	profiler *profile.Profiler
	spool    *log.Spool
	logger   *slog.Logger
	stats    *player.Stats
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	profCfg := profile.NewConfig()

	return &app{
		stdin:    stdin,
		stdout:   stdout,
		cfg:      config.NewConfig(),
		logCfg:   log.NewConfig(),
		profCfg:  profCfg,
		profiler: profCfg.NewProfiler(),
		spool:    log.NewSpool(stderr),
		logger:   slog.New(slog.DiscardHandler),
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "textreel [flags] <video_file|frame_directory>",
		Short: "Play a video in the terminal as colored text",
		Example: `  # Play a video file
  textreel clip.mp4

  # Play a directory of PNG frames at 12 fps on the tcell backend
  textreel --fps 12 --backend tcell ./frames

  # Skip the resolution picker
  textreel --resolution high clip.mp4`,
		Args:              cobra.ExactArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: a.prepare,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd.Context(), args[0])
		},
	}

	flags := root.PersistentFlags()
	a.cfg.RegisterFlags(flags)
	a.logCfg.RegisterFlags(flags)
	a.profCfg.RegisterFlags(flags)

	for _, register := range []func(*cobra.Command) error{
		a.cfg.RegisterCompletions,
		a.logCfg.RegisterCompletions,
		a.profCfg.RegisterCompletions,
	} {
		// Completion registration only fails for unknown flag names.
		err := register(root)
		if err != nil {
			panic(err)
		}
	}

	root.AddCommand(a.probeCmd(), a.schemaCmd())

	return root
}

func (a *app) probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <video_file|frame_directory>",
		Short: "Describe a source without playing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(a.stdout, player.Summary(src.Info()))

			return errors.Join(err, src.Close())
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			b, err := config.Schema()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(a.stdout, string(b))

			return err //nolint:wrapcheck // Terminal write.
		},
	}
}

// prepare builds the logger, loads the configuration, and starts profiling.
func (a *app) prepare(cmd *cobra.Command, _ []string) error {
	logger, err := a.logCfg.NewLogger(a.spool)
	if err != nil {
		return err
	}

	a.logger = logger

	err = a.cfg.Load(cmd.Flags())
	if err != nil {
		return err
	}

	return a.profiler.Start()
}

func (a *app) open(ctx context.Context, path string) (video.Source, error) {
	src, err := video.Open(ctx, path,
		video.WithFFmpeg(a.cfg.FFmpeg),
		video.WithFFprobe(a.cfg.FFprobe),
		video.WithFPS(a.cfg.FPS),
		video.WithLogger(a.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	return src, nil
}

func (a *app) play(ctx context.Context, path string) (err error) {
	src, err := a.open(ctx, path)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, src.Close())
	}()

	info := src.Info()

	_, err = fmt.Fprintln(a.stdout, player.Summary(info))
	if err != nil {
		return err //nolint:wrapcheck // Terminal write.
	}

	err = player.Validate(info)
	if err != nil {
		return err //nolint:wrapcheck // Already describes the source.
	}

	metrics, err := a.metrics(ctx)
	if err != nil {
		return err
	}

	ramp, err := a.cfg.GlyphRamp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d, closeDisplay, err := a.openDisplay(cancel)
	if err != nil {
		return err
	}

	a.spool.Hold()

	runErr := a.run(ctx, src, d, metrics, ramp)

	err = errors.Join(closeDisplay(), a.spool.Release())

	if a.stats != nil {
		a.report(*a.stats)
	}

	if err != nil {
		return errors.Join(runErr, err)
	}

	if errors.Is(runErr, context.Canceled) {
		a.logger.Info("playback interrupted")

		return nil
	}

	return runErr
}

// run plays src on d, recording the run's statistics.
func (a *app) run(ctx context.Context, src video.Source, d display.Surface, m display.Metrics, r glyph.Ramp) error {
	p, err := player.New(src, d, luma.Build(),
		player.WithRamp(r),
		player.WithMetrics(m),
		player.WithMaxElapsed(a.cfg.MaxElapsed),
		player.WithLogger(a.logger),
	)
	if err != nil {
		return err //nolint:wrapcheck // Already describes the source.
	}

	stats, err := p.Run(ctx)

	a.stats = &stats

	return err //nolint:wrapcheck // Already describes the failure.
}

func (a *app) report(stats player.Stats) {
	_, _ = fmt.Fprintln(a.stdout, player.Report(stats))
}

// metrics returns the configured preset, asks for one when stdin is a
// terminal, and otherwise falls back to the default.
func (a *app) metrics(ctx context.Context) (display.Metrics, error) {
	p, ok := a.cfg.Preset()
	if ok {
		return p.Metrics, nil
	}

	if !a.interactive() {
		return display.DefaultMetrics, nil
	}

	p, err := setup.Pick(ctx, a.stdin, a.stdout, display.PresetLow.Name)
	if err != nil {
		return display.Metrics{}, err //nolint:wrapcheck // Already describes the picker.
	}

	a.logger.Debug("resolution selected", slog.String("preset", p.Name), slog.Any("metrics", p.Metrics))

	return p.Metrics, nil
}

func (a *app) interactive() bool {
	f, ok := a.stdin.(fder)

	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // File descriptors fit in int.
}

// openDisplay opens the configured backend. interrupt is called when the
// backend sees the user ask to stop.
func (a *app) openDisplay(interrupt func()) (display.Surface, func() error, error) {
	switch a.cfg.Backend {
	case config.BackendTCell:
		s, err := tcellscreen.Open()
		if err != nil {
			return nil, nil, err //nolint:wrapcheck // Already describes the screen.
		}

		s.Listen(interrupt)

		return s, func() error {
			s.Close()

			return nil
		}, nil

	default:
		fd := -1
		if f, ok := a.stdout.(fder); ok {
			fd = int(f.Fd()) //nolint:gosec // File descriptors fit in int.
		}

		t := ansiterm.New(a.stdout, fd, ansiterm.WithLogger(a.logger))

		err := t.Open()
		if err != nil {
			return nil, nil, err //nolint:wrapcheck // Already describes the terminal.
		}

		return t, t.Close, nil
	}
}
