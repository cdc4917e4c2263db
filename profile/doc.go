// Package profile records CPU and heap profiles of a playback run.
//
// Register the flags on the root command, start the [Profiler] before the
// command runs, and stop it afterwards:
//
//	cfg := profile.NewConfig()
//	p := cfg.NewProfiler()
//
//	rootCmd := &cobra.Command{
//	    PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
//	        return p.Start()
//	    },
//	}
//
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	err := fang.Execute(ctx, rootCmd, ...)
//	stopErr := p.Stop()
//
// The CPU profile covers the whole command; the heap profile is a snapshot
// taken after a garbage collection when [Profiler.Stop] runs.
package profile
