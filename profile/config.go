package profile

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for profiling configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	CPUProfile     string
	HeapProfile    string
	MemProfileRate string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags:          f,
		MemProfileRate: runtime.MemProfileRate,
	}
}

// Config holds profile output paths. Empty paths disable the profile.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewProfiler] to create a [Profiler].
type Config struct {
	Flags       Flags
	CPUProfile  string
	HeapProfile string
	// MemProfileRate is applied to [runtime.MemProfileRate] when a heap
	// profile is requested.
	MemProfileRate int
}

// NewConfig creates a new [Config] with default flag names and profiling
// disabled.
func NewConfig() *Config {
	f := Flags{
		CPUProfile:     "cpu-profile",
		HeapProfile:    "heap-profile",
		MemProfileRate: "mem-profile-rate",
	}

	return f.NewConfig()
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.CPUProfile, c.Flags.CPUProfile, "", "write a CPU profile of the run to file")
	flags.StringVar(&c.HeapProfile, c.Flags.HeapProfile, "", "write a heap profile at exit to file")
	flags.IntVar(&c.MemProfileRate, c.Flags.MemProfileRate, c.MemProfileRate, "heap profile rate (bytes per sample)")
}

// RegisterCompletions registers shell completions for profile flags on cmd.
// Path flags keep default file completion.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.MemProfileRate, cobra.NoFileCompletions)
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.MemProfileRate, err)
	}

	return nil
}

// Enabled reports whether any profile is requested.
func (c *Config) Enabled() bool {
	return c.CPUProfile != "" || c.HeapProfile != ""
}

// NewProfiler creates a new [Profiler] using this [Config]. The profiler
// reads the config when started, so flags parsed later are honored.
func (c *Config) NewProfiler() *Profiler {
	return &Profiler{config: c}
}
