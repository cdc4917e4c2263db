package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/textreel/config"
	"go.jacobcolvin.com/textreel/display"
	"go.jacobcolvin.com/textreel/glyph"
	"go.jacobcolvin.com/textreel/pacing"
	"go.jacobcolvin.com/textreel/video"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "textreel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	c := config.NewConfig()

	assert.Empty(t, c.Path)
	assert.Equal(t, glyph.DefaultRamp, c.Ramp)
	assert.Empty(t, c.Resolution)
	assert.Equal(t, config.BackendANSI, c.Backend)
	assert.InDelta(t, video.DefaultFPS, c.FPS, 0)
	assert.Equal(t, pacing.DefaultMaxElapsed, c.MaxElapsed)
	assert.Equal(t, "ffmpeg", c.FFmpeg)
	assert.Equal(t, "ffprobe", c.FFprobe)

	require.NoError(t, c.Validate())

	_, ok := c.Preset()
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		check func(*testing.T, *config.Config)
		file  string
		args  []string
	}{
		"flags only": {
			args: []string{"--resolution=high", "--fps=12.5", "--backend=tcell"},
			check: func(t *testing.T, c *config.Config) {
				t.Helper()

				p, ok := c.Preset()
				require.True(t, ok)
				assert.Equal(t, display.PresetHigh, p)
				assert.InDelta(t, 12.5, c.FPS, 0)
				assert.Equal(t, config.BackendTCell, c.Backend)
			},
		},
		"file only": {
			file: "ramp: \" .:#\"\nresolution: medium\nfps: 30\nmaxElapsed: 250ms\nffmpeg: /opt/ffmpeg\n",
			check: func(t *testing.T, c *config.Config) {
				t.Helper()

				assert.Equal(t, " .:#", c.Ramp)
				assert.Equal(t, "medium", c.Resolution)
				assert.InDelta(t, 30.0, c.FPS, 0)
				assert.Equal(t, 250*time.Millisecond, c.MaxElapsed)
				assert.Equal(t, "/opt/ffmpeg", c.FFmpeg)
				assert.Equal(t, "ffprobe", c.FFprobe, "unset keys keep defaults")

				r, err := c.GlyphRamp()
				require.NoError(t, err)
				assert.Equal(t, 4, r.Len())
			},
		},
		"flags override file": {
			file: "resolution: medium\nfps: 30\nbackend: tcell\n",
			args: []string{"--resolution=best", "--fps=10"},
			check: func(t *testing.T, c *config.Config) {
				t.Helper()

				assert.Equal(t, "best", c.Resolution)
				assert.InDelta(t, 10.0, c.FPS, 0)
				assert.Equal(t, config.BackendTCell, c.Backend, "file value applies where no flag was given")
			},
		},
		"flag equal to default still overrides file": {
			file: "backend: tcell\n",
			args: []string{"--backend=ansi"},
			check: func(t *testing.T, c *config.Config) {
				t.Helper()

				assert.Equal(t, config.BackendANSI, c.Backend)
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := config.NewConfig()
			cmd := &cobra.Command{Use: "test"}
			c.RegisterFlags(cmd.Flags())

			args := tc.args
			if tc.file != "" {
				args = append(args, "--config="+writeFile(t, tc.file))
			}

			require.NoError(t, cmd.ParseFlags(args))
			require.NoError(t, c.Load(cmd.Flags()))

			tc.check(t, c)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want error
		file string
		args []string
	}{
		"unknown key": {
			file: "resolution: low\nvolume: 11\n",
			want: config.ErrFile,
		},
		"malformed yaml": {
			file: "resolution: [low\n",
			want: config.ErrFile,
		},
		"missing file": {
			args: []string{"--config=/does/not/exist.yaml"},
			want: config.ErrFile,
		},
		"unknown backend": {
			args: []string{"--backend=sixel"},
			want: config.ErrInvalid,
		},
		"unknown resolution": {
			args: []string{"--resolution=ultra"},
			want: display.ErrUnknownPreset,
		},
		"short ramp": {
			args: []string{"--ramp=#"},
			want: glyph.ErrRampTooShort,
		},
		"zero fps": {
			args: []string{"--fps=0"},
			want: config.ErrInvalid,
		},
		"negative stall clamp": {
			file: "maxElapsed: -1s\n",
			want: config.ErrInvalid,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := config.NewConfig()
			cmd := &cobra.Command{Use: "test"}
			c.RegisterFlags(cmd.Flags())

			args := tc.args
			if tc.file != "" {
				args = append(args, "--config="+writeFile(t, tc.file))
			}

			require.NoError(t, cmd.ParseFlags(args))

			err := c.Load(cmd.Flags())
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegisterCompletions(t *testing.T) {
	t.Parallel()

	c := config.NewConfig()
	cmd := &cobra.Command{Use: "test"}
	c.RegisterFlags(cmd.Flags())
	require.NoError(t, c.RegisterCompletions(cmd))

	tcs := map[string]struct {
		flag string
		want []string
	}{
		"resolution": {flag: "resolution", want: display.PresetNames()},
		"backend":    {flag: "backend", want: config.Backends()},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fn, ok := cmd.GetFlagCompletionFunc(tc.flag)
			require.True(t, ok)

			values, directive := fn(cmd, nil, "")
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
			assert.Equal(t, tc.want, values)
		})
	}
}

func TestSchema(t *testing.T) {
	t.Parallel()

	b, err := config.Schema()
	require.NoError(t, err)

	var s struct {
		Properties map[string]struct {
			Type string `json:"type"`
		} `json:"properties"`
		Title string `json:"title"`
	}

	require.NoError(t, json.Unmarshal(b, &s))

	assert.Equal(t, "textreel configuration", s.Title)

	want := map[string]string{
		"ramp":       "string",
		"resolution": "string",
		"backend":    "string",
		"ffmpeg":     "string",
		"ffprobe":    "string",
		"fps":        "number",
		"maxElapsed": "string",
	}

	for key, typ := range want {
		p, ok := s.Properties[key]
		require.True(t, ok, "schema has %s", key)
		assert.Equal(t, typ, p.Type, key)
	}
}
