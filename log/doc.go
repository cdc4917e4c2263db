// Package log provides structured logging handler construction for use with
// [log/slog].
//
// It supports multiple output formats ([FormatJSON], [FormatLogfmt], and
// [FormatText]) and severity levels ([LevelError], [LevelWarn], [LevelInfo],
// and [LevelDebug]). Use [NewHandler] to create a handler directly, or use
// [Config] with CLI flag integration via [github.com/spf13/pflag] and shell
// completion support via [github.com/spf13/cobra].
//
// Typical usage creates a [Config], registers flags, then builds a logger
// at startup:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	logger, err := cfg.NewLogger(os.Stderr)
//
// A [Spool] keeps log output off the terminal while a full-screen display is
// drawing, then replays it once the display is gone:
//
//	spool := log.NewSpool(os.Stderr)
//	logger := slog.New(log.NewHandler(spool, log.LevelInfo, log.FormatText))
//
//	spool.Hold()
//	// Draw frames; log entries are held.
//	spool.Release()
package log
