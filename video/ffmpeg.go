package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// probeResult is the subset of ffprobe's JSON output that describes the first
// video stream.
type probeResult struct {
	Streams []struct {
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		NbFrames     string `json:"nb_frames"`
		Duration     string `json:"duration"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
	} `json:"streams"`
}

// ffmpegSource manages an ffmpeg rawvideo pipe and delivers frames one at a
// time at the source's native resolution.
type ffmpegSource struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	cancel context.CancelFunc
	stderr *bytes.Buffer
	frame  *image.RGBA
	logger *slog.Logger
	info   Info
}

func openFFmpeg(ctx context.Context, path string, o options) (*ffmpegSource, error) {
	for _, bin := range []string{o.ffprobe, o.ffmpeg} {
		_, err := exec.LookPath(bin)
		if err != nil {
			return nil, fmt.Errorf("%w: %s not found in PATH: install ffmpeg or use a directory of PNG frames instead",
				ErrOpen, bin)
		}
	}

	info, err := probe(ctx, o.ffprobe, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	o.logger.Debug("probed source",
		"path", path,
		"width", info.Width,
		"height", info.Height,
		"fps", info.FPS,
		"frames", info.FrameCount,
	)

	ctx, cancel := context.WithCancel(ctx)

	//nolint:gosec // path and binary names are user-provided CLI arguments, not untrusted input.
	cmd := exec.CommandContext(
		ctx,
		o.ffmpeg,
		"-v", "error",
		"-i", path,
		"-an",
		"-pix_fmt", "rgba",
		"-f", "rawvideo",
		"pipe:1",
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()

		return nil, fmt.Errorf("%w: creating stdout pipe: %w", ErrOpen, err)
	}

	err = cmd.Start()
	if err != nil {
		cancel()

		return nil, fmt.Errorf("%w: starting ffmpeg: %w", ErrOpen, err)
	}

	return &ffmpegSource{
		cmd:    cmd,
		stdout: stdout,
		cancel: cancel,
		stderr: &stderr,
		frame:  image.NewRGBA(image.Rect(0, 0, info.Width, info.Height)),
		logger: o.logger,
		info:   info,
	}, nil
}

// Read decodes the next frame into a buffer that is reused across calls.
func (s *ffmpegSource) Read() (image.Image, error) {
	_, err := io.ReadFull(s.stdout, s.frame.Pix)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, ErrEndOfStream
	}

	if err != nil {
		return nil, fmt.Errorf("reading frame: %w", err)
	}

	return s.frame, nil
}

func (s *ffmpegSource) Info() Info {
	return s.info
}

// Close cancels the ffmpeg process and waits for it to exit. Anything ffmpeg
// wrote to stderr is logged once the process is gone.
func (s *ffmpegSource) Close() error {
	s.cancel()
	//nolint:errcheck // Error is expected after context cancellation.
	s.cmd.Wait()

	msg := strings.TrimSpace(s.stderr.String())
	if msg != "" {
		s.logger.Warn("decoder reported errors", "path", s.info.Path, "stderr", msg)
	}

	return nil
}

func probe(ctx context.Context, ffprobe, path string) (Info, error) {
	//nolint:gosec // path and binary names are user-provided CLI arguments, not untrusted input.
	cmd := exec.CommandContext(
		ctx,
		ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,avg_frame_rate,nb_frames,duration",
		"-of", "json",
		path,
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return Info{}, fmt.Errorf("running ffprobe: %w: %s", err, msg)
		}

		return Info{}, fmt.Errorf("running ffprobe: %w", err)
	}

	info, err := parseProbe(out)
	if err != nil {
		return Info{}, err
	}

	info.Path = path

	return info, nil
}

// parseProbe extracts stream info from ffprobe JSON. When the container does
// not record a frame count it is estimated from the stream duration.
func parseProbe(data []byte) (Info, error) {
	var res probeResult

	err := json.Unmarshal(data, &res)
	if err != nil {
		return Info{}, fmt.Errorf("decoding ffprobe output: %w", err)
	}

	if len(res.Streams) == 0 {
		return Info{}, errors.New("no video stream")
	}

	st := res.Streams[0]
	if st.Width < 1 || st.Height < 1 {
		return Info{}, fmt.Errorf("invalid frame size %dx%d", st.Width, st.Height)
	}

	fps := parseRate(st.RFrameRate)
	if fps <= MinFPS {
		fps = parseRate(st.AvgFrameRate)
	}

	frames, err := strconv.Atoi(st.NbFrames)
	if err != nil {
		dur, durErr := strconv.ParseFloat(st.Duration, 64)
		if durErr == nil && fps > MinFPS {
			frames = int(math.Round(dur * fps))
		} else {
			frames = 0
		}
	}

	return Info{
		Width:      st.Width,
		Height:     st.Height,
		FPS:        fps,
		FrameCount: frames,
	}, nil
}

// parseRate parses ffprobe rationals like "30000/1001" as well as plain
// numbers. Malformed or zero-denominator values yield 0.
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}

		return v
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}

	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}

	return n / d
}
