package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrFFmpegNotFound indicates that the ffmpeg or ffprobe binary is missing.
	ErrFFmpegNotFound = errors.New("ffmpeg not found")
	// ErrNoVideoStream indicates a source without a decodable video stream.
	ErrNoVideoStream = errors.New("no video stream")
)

// Probe holds the video stream properties reported by ffprobe.
type Probe struct {
	Width  int
	Height int
	// Frames is the declared frame count, 0 when unknown.
	Frames int
	// FPS is the declared frame rate, 0 when unknown.
	FPS float64
}

type probeOutput struct {
	Streams []struct {
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		NbFrames     string `json:"nb_frames"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
	} `json:"streams"`
}

// ParseProbe parses ffprobe JSON output (-of json -show_streams) and returns
// the properties of the first video stream.
func ParseProbe(data []byte) (Probe, error) {
	var out probeOutput

	err := json.Unmarshal(data, &out)
	if err != nil {
		return Probe{}, fmt.Errorf("parsing ffprobe output: %w", err)
	}

	if len(out.Streams) == 0 {
		return Probe{}, ErrNoVideoStream
	}

	s := out.Streams[0]
	if s.Width < 1 || s.Height < 1 {
		return Probe{}, fmt.Errorf("%w: %dx%d", ErrNoVideoStream, s.Width, s.Height)
	}

	p := Probe{
		Width:  s.Width,
		Height: s.Height,
		FPS:    ParseFrameRate(s.AvgFrameRate),
	}

	if p.FPS <= 0 {
		p.FPS = ParseFrameRate(s.RFrameRate)
	}

	n, err := strconv.Atoi(s.NbFrames)
	if err == nil && n > 0 {
		p.Frames = n
	}

	return p, nil
}

// ParseFrameRate parses an ffprobe rational ("30000/1001") or decimal frame
// rate. Malformed or undefined rates ("0/0", "N/A") yield 0.
func ParseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < 0 {
			return 0
		}

		return f
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}

	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d <= 0 || n < 0 {
		return 0
	}

	return n / d
}

// FFmpeg decodes videos using the ffmpeg and ffprobe command line tools.
//
// Create instances with [NewFFmpeg].
type FFmpeg struct {
	logger      *slog.Logger
	ffmpegPath  string
	ffprobePath string
	tempDir     string
}

// FFmpegOption configures an [FFmpeg].
type FFmpegOption func(*FFmpeg)

// WithFFmpegPath sets the ffmpeg binary. The default is "ffmpeg" from PATH.
func WithFFmpegPath(path string) FFmpegOption {
	return func(f *FFmpeg) {
		if path != "" {
			f.ffmpegPath = path
		}
	}
}

// WithFFprobePath sets the ffprobe binary. The default is "ffprobe" from PATH.
func WithFFprobePath(path string) FFmpegOption {
	return func(f *FFmpeg) {
		if path != "" {
			f.ffprobePath = path
		}
	}
}

// WithTempDir sets the parent directory for staged input files. The default is
// [os.TempDir].
func WithTempDir(dir string) FFmpegOption {
	return func(f *FFmpeg) {
		f.tempDir = dir
	}
}

// WithLogger sets the logger used for subprocess diagnostics.
func WithLogger(logger *slog.Logger) FFmpegOption {
	return func(f *FFmpeg) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFFmpeg creates an [FFmpeg] with the given options.
func NewFFmpeg(opts ...FFmpegOption) *FFmpeg {
	f := &FFmpeg{
		logger:      slog.Default(),
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// OpenVideo stages data in a temporary file named after name, probes it, and
// starts an ffmpeg process that writes raw RGBA frames at the source
// resolution. The staging directory is removed by [Video.Close].
func (f *FFmpeg) OpenVideo(ctx context.Context, name string, data []byte) (Video, error) {
	ffmpeg, err := exec.LookPath(f.ffmpegPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFFmpegNotFound, err)
	}

	ffprobe, err := exec.LookPath(f.ffprobePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFFmpegNotFound, err)
	}

	dir, err := os.MkdirTemp(f.tempDir, "glyphreel_*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}

	cleanup := func() {
		rmErr := os.RemoveAll(dir)
		if rmErr != nil {
			f.logger.Warn("removing staging dir", slog.String("dir", dir), slog.Any("error", rmErr))
		}
	}

	input := filepath.Join(dir, "input"+strings.ToLower(filepath.Ext(name)))

	err = os.WriteFile(input, data, 0o600)
	if err != nil {
		cleanup()

		return nil, fmt.Errorf("staging input: %w", err)
	}

	probe, err := f.probe(ctx, ffprobe, input)
	if err != nil {
		cleanup()

		return nil, err
	}

	v, err := f.start(ctx, ffmpeg, input, probe)
	if err != nil {
		cleanup()

		return nil, err
	}

	v.cleanup = cleanup

	return v, nil
}

func (f *FFmpeg) probe(ctx context.Context, ffprobe, input string) (Probe, error) {
	//nolint:gosec // input is a staging file created by OpenVideo.
	cmd := exec.CommandContext(
		ctx,
		ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,avg_frame_rate,nb_frames",
		"-of", "json",
		input,
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return Probe{}, fmt.Errorf("running ffprobe: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	probe, err := ParseProbe(out)
	if err != nil {
		return Probe{}, err
	}

	f.logger.Debug("probed video",
		slog.Int("width", probe.Width),
		slog.Int("height", probe.Height),
		slog.Int("frames", probe.Frames),
		slog.Float64("fps", probe.FPS),
	)

	return probe, nil
}

func (f *FFmpeg) start(ctx context.Context, ffmpeg, input string, probe Probe) (*ffmpegVideo, error) {
	ctx, cancel := context.WithCancel(ctx)

	// Autorotation would swap the probed dimensions.
	//nolint:gosec // input is a staging file created by OpenVideo.
	cmd := exec.CommandContext(
		ctx,
		ffmpeg,
		"-v", "error",
		"-noautorotate",
		"-i", input,
		"-map", "0:v:0",
		"-an", "-sn",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"pipe:1",
	)

	v := &ffmpegVideo{
		cmd:    cmd,
		cancel: cancel,
		probe:  probe,
	}

	cmd.Stderr = &v.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()

		return nil, fmt.Errorf("creating stdout pipe: %w", err)
	}

	err = cmd.Start()
	if err != nil {
		cancel()

		return nil, fmt.Errorf("starting ffmpeg: %w", err)
	}

	f.logger.Debug("started ffmpeg", slog.Any("args", cmd.Args))

	v.stdout = stdout

	return v, nil
}

// ffmpegVideo reads raw RGBA frames from an ffmpeg pipe.
type ffmpegVideo struct {
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	cancel  context.CancelFunc
	cleanup func()
	waitErr error
	stderr  bytes.Buffer
	probe   Probe
	waited  bool
	once    sync.Once
}

func (v *ffmpegVideo) DeclaredFrames() int { return v.probe.Frames }

func (v *ffmpegVideo) FPS() float64 { return v.probe.FPS }

func (v *ffmpegVideo) Next() (image.Image, error) {
	if v.waited {
		return nil, io.EOF
	}

	w, h := v.probe.Width, v.probe.Height
	buf := make([]byte, w*h*4)

	_, err := io.ReadFull(v.stdout, buf)
	switch {
	case err == nil:
		return &image.RGBA{
			Pix:    buf,
			Stride: w * 4,
			Rect:   image.Rect(0, 0, w, h),
		}, nil

	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		waitErr := v.wait()
		if waitErr != nil {
			return nil, fmt.Errorf("ffmpeg: %w: %s", waitErr, strings.TrimSpace(v.stderr.String()))
		}

		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("reading frame: %w", err)
		}

		return nil, io.EOF
	}

	return nil, fmt.Errorf("reading frame: %w", err)
}

func (v *ffmpegVideo) wait() error {
	if !v.waited {
		v.waited = true
		v.waitErr = v.cmd.Wait()
	}

	return v.waitErr
}

// Close stops ffmpeg and removes the staging directory. Idempotent.
func (v *ffmpegVideo) Close() error {
	v.once.Do(func() {
		v.cancel()
		//nolint:errcheck // Error is expected after context cancellation.
		v.wait()

		if v.cleanup != nil {
			v.cleanup()
		}
	})

	return nil
}
