package convert

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	"go.jacobcolvin.com/glyphreel/frame"
	"go.jacobcolvin.com/glyphreel/glyph"
	"go.jacobcolvin.com/glyphreel/media"
)

const (
	// DefaultWidth is the grid width used when none or an invalid one is given.
	DefaultWidth = 80
	// AnimationFPS is the nominal playback rate of animated images.
	AnimationFPS = 20.0
	// FallbackVideoFPS is the playback rate of videos with no declared rate.
	FallbackVideoFPS = 60.0
	// VideoProgressInterval is the number of video frames between progress
	// reports.
	VideoProgressInterval = 10
)

var (
	// ErrUnsupportedFormat indicates a source whose kind cannot be determined.
	ErrUnsupportedFormat = media.ErrUnsupportedFormat
	// ErrDecoderOpen indicates that the decoder could not open the source.
	ErrDecoderOpen = errors.New("cannot open source")
	// ErrEmptySource indicates a source that opened but yielded no frames.
	ErrEmptySource = errors.New("no frames found")
	// ErrFrameProcessing indicates a failure while decoding or rendering a
	// single frame.
	ErrFrameProcessing = errors.New("frame processing failed")
)

// Buffer is an ordered sequence of rendered frames. A Buffer returned by
// [Pipeline.Convert] is never modified afterwards.
type Buffer []string

// Source is a media payload to convert.
type Source struct {
	// Name is used to derive Kind when it is [media.KindUnknown], and to name
	// staged files.
	Name string
	Data []byte
	Kind media.Kind
}

// Progress reports conversion progress.
type Progress struct {
	// Done is the number of frames converted so far.
	Done int
	// Total is the expected number of frames, or <= 0 when unknown.
	Total int
}

// String returns a human readable progress line.
func (p Progress) String() string {
	if p.Total > 0 {
		return fmt.Sprintf("Converting... %d/%d frames", p.Done, p.Total)
	}

	return fmt.Sprintf("Converting... %d frames", p.Done)
}

// Result is a completed conversion.
type Result struct {
	Frames Buffer
	FPS    float64
	Kind   media.Kind
}

// VideoFPS returns the nominal playback rate for a video declaring fps frames
// per second: twice the declared rate, or [FallbackVideoFPS] when fps <= 0.
func VideoFPS(fps float64) float64 {
	if fps <= 0 {
		return FallbackVideoFPS
	}

	return fps * 2
}

// Pipeline converts media sources into frame buffers.
//
// Create instances with [New].
type Pipeline struct {
	decoder  media.Decoder
	reducer  *frame.Reducer
	logger   *slog.Logger
	progress func(Progress)
}

// Option configures a [Pipeline].
type Option func(*Pipeline)

// WithReducer sets the frame reducer. The default is [frame.NewReducer].
func WithReducer(r *frame.Reducer) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.reducer = r
		}
	}
}

// WithLogger sets the logger. The default is [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithProgress sets a callback invoked on the converting goroutine after every
// animation frame, and every [VideoProgressInterval] video frames.
func WithProgress(fn func(Progress)) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// New creates a [Pipeline] reading sources through decoder.
func New(decoder media.Decoder, opts ...Option) *Pipeline {
	p := &Pipeline{
		decoder: decoder,
		reducer: frame.NewReducer(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Convert decodes src and renders every frame width columns wide. A width
// below 1 is replaced by [DefaultWidth].
func (p *Pipeline) Convert(ctx context.Context, src Source, width int) (Result, error) {
	if width < 1 {
		width = DefaultWidth
	}

	kind := src.Kind
	if kind == media.KindUnknown {
		var err error

		kind, err = media.KindFromName(src.Name)
		if err != nil {
			return Result{}, err
		}
	}

	logger := p.logger.With(
		slog.String("source", src.Name),
		slog.String("kind", kind.String()),
		slog.Int("width", width),
	)

	start := time.Now()
	res := Result{Kind: kind}

	var err error

	switch kind {
	case media.KindAnimation:
		res.Frames, err = p.convertAnimation(ctx, src, width)
		res.FPS = AnimationFPS

	case media.KindVideo:
		res.Frames, res.FPS, err = p.convertVideo(ctx, src, width)

	default:
		return Result{}, fmt.Errorf("%w: kind %s", ErrUnsupportedFormat, kind)
	}

	if err != nil {
		logger.Debug("conversion failed", slog.Any("error", err))

		return Result{}, err
	}

	logger.Info("conversion complete",
		slog.Int("frames", len(res.Frames)),
		slog.Float64("fps", res.FPS),
		slog.Duration("elapsed", time.Since(start)),
	)

	return res, nil
}

func (p *Pipeline) convertAnimation(ctx context.Context, src Source, width int) (Buffer, error) {
	anim, err := p.decoder.OpenAnimation(ctx, src.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecoderOpen, err)
	}

	n := anim.FrameCount()
	if n < 1 {
		return nil, ErrEmptySource
	}

	buf := make(Buffer, 0, n)

	for i := range n {
		text, err := p.process(func() (image.Image, error) { return anim.Frame(i) }, width)
		if err != nil {
			return nil, fmt.Errorf("%w: frame %d: %w", ErrFrameProcessing, i, err)
		}

		buf = append(buf, text)

		p.report(Progress{Done: i + 1, Total: n})

		err = ctx.Err()
		if err != nil {
			return nil, fmt.Errorf("converting %s: %w", src.Name, err)
		}
	}

	return buf, nil
}

func (p *Pipeline) convertVideo(ctx context.Context, src Source, width int) (Buffer, float64, error) {
	v, err := p.decoder.OpenVideo(ctx, src.Name, src.Data)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDecoderOpen, err)
	}

	defer func() {
		closeErr := v.Close()
		if closeErr != nil {
			p.logger.Warn("closing video", slog.String("source", src.Name), slog.Any("error", closeErr))
		}
	}()

	total := v.DeclaredFrames()
	fps := VideoFPS(v.FPS())

	var buf Buffer
	if total > 0 {
		buf = make(Buffer, 0, total)
	}

	for {
		err := ctx.Err()
		if err != nil {
			return nil, 0, fmt.Errorf("converting %s: %w", src.Name, err)
		}

		text, err := p.process(v.Next, width)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, 0, fmt.Errorf("%w: frame %d: %w", ErrFrameProcessing, len(buf), err)
		}

		buf = append(buf, text)

		if len(buf)%VideoProgressInterval == 0 {
			p.report(Progress{Done: len(buf), Total: total})
		}
	}

	if len(buf) == 0 {
		return nil, 0, ErrEmptySource
	}

	return buf, fps, nil
}

// process decodes one frame with next, then reduces, quantizes and assembles
// it. A panic in any of these steps is returned as an error so that one bad
// frame fails only its own conversion. Errors from next are returned
// unwrapped.
func (p *Pipeline) process(next func() (image.Image, error), width int) (text string, err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	img, err := next()
	if err != nil {
		return "", err
	}

	if img == nil {
		return "", errors.New("nil frame")
	}

	g, err := p.reducer.Reduce(img, width)
	if err != nil {
		return "", err
	}

	return glyph.Render(g), nil
}

func (p *Pipeline) report(pr Progress) {
	if p.progress != nil {
		p.progress(pr)
	}
}
