// Package config holds textreel's playback settings.
//
// Settings come from three layers, later layers winning: built-in defaults,
// an optional YAML file, and explicitly set command-line flags. The file
// format is described by the JSON Schema returned from [Schema].
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/textreel/display"
	"go.jacobcolvin.com/textreel/glyph"
	"go.jacobcolvin.com/textreel/pacing"
	"go.jacobcolvin.com/textreel/video"
)

// Display backends.
const (
	BackendANSI  = "ansi"
	BackendTCell = "tcell"
)

var (
	// ErrInvalid indicates a setting outside its accepted range.
	ErrInvalid = errors.New("invalid configuration")
	// ErrFile indicates the configuration file could not be read or parsed.
	ErrFile = errors.New("reading configuration file")
)

// Backends returns the accepted backend names.
func Backends() []string {
	return []string{BackendANSI, BackendTCell}
}

// File is the YAML configuration file. Zero fields leave the default (or a
// flag value) in place.
type File struct {
	Ramp       string        `json:"ramp,omitempty"       jsonschema:"glyph ramp ordered from emptiest to densest" yaml:"ramp,omitempty"`
	Resolution string        `json:"resolution,omitempty" jsonschema:"resolution preset: best, high, medium or low" yaml:"resolution,omitempty"`
	Backend    string        `json:"backend,omitempty"    jsonschema:"display backend: ansi or tcell"               yaml:"backend,omitempty"`
	FFmpeg     string        `json:"ffmpeg,omitempty"     jsonschema:"ffmpeg binary name or path"                   yaml:"ffmpeg,omitempty"`
	FFprobe    string        `json:"ffprobe,omitempty"    jsonschema:"ffprobe binary name or path"                  yaml:"ffprobe,omitempty"`
	FPS        float64       `json:"fps,omitempty"        jsonschema:"frame rate for directories of PNG frames"     yaml:"fps,omitempty"`
	MaxElapsed time.Duration `json:"maxElapsed,omitempty" jsonschema:"longest stall charged to the frame clock"     yaml:"maxElapsed,omitempty"`
}

// Flags holds CLI flag names for playback configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Config     string
	Ramp       string
	Resolution string
	Backend    string
	FPS        string
	MaxElapsed string
	FFmpeg     string
	FFprobe    string
}

// NewConfig creates a new [Config] with defaults, embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		File: File{
			Ramp:       glyph.DefaultRamp,
			Backend:    BackendANSI,
			FFmpeg:     "ffmpeg",
			FFprobe:    "ffprobe",
			FPS:        video.DefaultFPS,
			MaxElapsed: pacing.DefaultMaxElapsed,
		},
		Flags: f,
	}
}

// Config holds playback configuration.
//
// Create instances with [NewConfig], register CLI flags with
// [Config.RegisterFlags], and call [Config.Load] after flags are parsed.
type Config struct {
	// Path is the YAML file to load. Empty means no file.
	Path  string
	Flags Flags
	File
}

// NewConfig returns a new [Config] with default values and flag names.
func NewConfig() *Config {
	f := Flags{
		Config:     "config",
		Ramp:       "ramp",
		Resolution: "resolution",
		Backend:    "backend",
		FPS:        "fps",
		MaxElapsed: "max-elapsed",
		FFmpeg:     "ffmpeg",
		FFprobe:    "ffprobe",
	}

	return f.NewConfig()
}

// RegisterFlags adds playback flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Path, c.Flags.Config, c.Path, "YAML configuration file")
	flags.StringVar(&c.Ramp, c.Flags.Ramp, c.Ramp, "glyphs ordered from emptiest to densest")
	flags.StringVar(&c.Resolution, c.Flags.Resolution, c.Resolution,
		fmt.Sprintf("resolution preset, one of: %s (empty asks when interactive)",
			strings.Join(display.PresetNames(), ", ")))
	flags.StringVar(&c.Backend, c.Flags.Backend, c.Backend,
		fmt.Sprintf("display backend, one of: %s", strings.Join(Backends(), ", ")))
	flags.Float64Var(&c.FPS, c.Flags.FPS, c.FPS, "frame rate for directories of PNG frames")
	flags.DurationVar(&c.MaxElapsed, c.Flags.MaxElapsed, c.MaxElapsed, "longest stall charged to the frame clock")
	flags.StringVar(&c.FFmpeg, c.Flags.FFmpeg, c.FFmpeg, "ffmpeg binary")
	flags.StringVar(&c.FFprobe, c.Flags.FFprobe, c.FFprobe, "ffprobe binary")
}

// RegisterCompletions registers shell completions for playback flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	fixed := map[string][]string{
		c.Flags.Resolution: display.PresetNames(),
		c.Flags.Backend:    Backends(),
	}

	for name, values := range fixed {
		err := cmd.RegisterFlagCompletionFunc(name,
			cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", name, err)
		}
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.Config,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Config, err)
	}

	return nil
}

// Load merges the file at [Config.Path] under any flags explicitly set in
// flags, then validates the result. Unknown keys in the file are errors.
func (c *Config) Load(flags *pflag.FlagSet) error {
	if c.Path != "" {
		data, err := os.ReadFile(c.Path)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFile, err)
		}

		var f File

		err = yaml.UnmarshalWithOptions(data, &f, yaml.DisallowUnknownField())
		if err != nil {
			return fmt.Errorf("%w %s: %w", ErrFile, c.Path, err)
		}

		c.merge(f, flags)
	}

	return c.Validate()
}

// merge copies non-zero fields of f into c unless the matching flag was set.
func (c *Config) merge(f File, flags *pflag.FlagSet) {
	changed := func(name string) bool {
		return flags != nil && flags.Changed(name)
	}

	setString := func(dst *string, v, flag string) {
		if v != "" && !changed(flag) {
			*dst = v
		}
	}

	setString(&c.Ramp, f.Ramp, c.Flags.Ramp)
	setString(&c.Resolution, f.Resolution, c.Flags.Resolution)
	setString(&c.Backend, f.Backend, c.Flags.Backend)
	setString(&c.FFmpeg, f.FFmpeg, c.Flags.FFmpeg)
	setString(&c.FFprobe, f.FFprobe, c.Flags.FFprobe)

	if f.FPS != 0 && !changed(c.Flags.FPS) {
		c.FPS = f.FPS
	}

	if f.MaxElapsed != 0 && !changed(c.Flags.MaxElapsed) {
		c.MaxElapsed = f.MaxElapsed
	}
}

// Validate checks every setting. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	_, err := glyph.ParseRamp(c.Ramp)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", c.Flags.Ramp, err))
	}

	if c.Resolution != "" {
		_, err = display.LookupPreset(c.Resolution)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Flags.Resolution, err))
		}
	}

	switch c.Backend {
	case BackendANSI, BackendTCell:
	default:
		errs = append(errs, fmt.Errorf("%w: %s: unknown backend %q", ErrInvalid, c.Flags.Backend, c.Backend))
	}

	if c.FPS <= video.MinFPS {
		errs = append(errs, fmt.Errorf("%w: %s: must be positive, got %g", ErrInvalid, c.Flags.FPS, c.FPS))
	}

	if c.MaxElapsed <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s: must be positive, got %s", ErrInvalid, c.Flags.MaxElapsed, c.MaxElapsed))
	}

	return errors.Join(errs...)
}

// GlyphRamp parses [File.Ramp].
func (c *Config) GlyphRamp() (glyph.Ramp, error) {
	r, err := glyph.ParseRamp(c.Ramp)
	if err != nil {
		return glyph.Ramp{}, fmt.Errorf("%s: %w", c.Flags.Ramp, err)
	}

	return r, nil
}

// Preset returns the configured resolution preset, or false when none is set.
func (c *Config) Preset() (display.Preset, bool) {
	if c.Resolution == "" {
		return display.Preset{}, false
	}

	p, err := display.LookupPreset(c.Resolution)
	if err != nil {
		return display.Preset{}, false
	}

	return p, true
}

// Schema returns the JSON Schema for [File], indented.
func Schema() ([]byte, error) {
	s, err := jsonschema.For[File](nil)
	if err != nil {
		return nil, fmt.Errorf("generating schema: %w", err)
	}

	s.Title = "textreel configuration"

	// Durations are written as Go duration strings in YAML.
	if p, ok := s.Properties["maxElapsed"]; ok {
		s.Properties["maxElapsed"] = &jsonschema.Schema{
			Type:        "string",
			Description: p.Description,
			Pattern:     `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
		}
	}

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding schema: %w", err)
	}

	return b, nil
}
