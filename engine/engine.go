// Package engine ties conversion and playback to a single display surface.
//
// An [Engine] owns exactly one frame buffer and at most one playback session.
// [Engine.Load] stops the running session, converts the new source, and only
// on success swaps in the new buffer and starts playing it. A failed load
// leaves the previous buffer untouched and its error on the surface.
//
//	e := engine.New(surface, media.NewDecoder())
//
//	err := e.Load(ctx, "cat.gif", data, 80)
//	if err != nil {
//	    // The surface already shows the failure.
//	}
//
//	defer e.Stop()
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.jacobcolvin.com/glyphreel/convert"
	"go.jacobcolvin.com/glyphreel/media"
	"go.jacobcolvin.com/glyphreel/playback"
)

// DefaultSettle is how long the completion message stays on the surface
// before playback starts.
const DefaultSettle = 500 * time.Millisecond

// Engine converts media and plays the result on a [playback.Surface].
//
// Create instances with [New]. Safe for concurrent use; concurrent loads are
// serialized.
type Engine struct {
	surface     playback.Surface
	decoder     media.Decoder
	logger      *slog.Logger
	player      *playback.Player
	current     atomic.Pointer[convert.Result]
	convertOpts []convert.Option
	fps         float64
	settle      time.Duration
	mu          sync.Mutex
}

// Option configures an [Engine].
type Option func(*Engine)

// WithLogger sets the logger passed to the pipeline and playback sessions.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithConvertOptions adds options for every conversion [convert.Pipeline].
func WithConvertOptions(opts ...convert.Option) Option {
	return func(e *Engine) {
		e.convertOpts = append(e.convertOpts, opts...)
	}
}

// WithFPS overrides the playback rate suggested by the conversion. Values
// <= 0 keep the suggested rate.
func WithFPS(fps float64) Option {
	return func(e *Engine) {
		e.fps = fps
	}
}

// WithSettle sets how long the completion message is shown before playback
// starts. The default is [DefaultSettle].
func WithSettle(d time.Duration) Option {
	return func(e *Engine) {
		e.settle = max(d, 0)
	}
}

// New creates an [Engine] that decodes with decoder and renders to surface.
func New(surface playback.Surface, decoder media.Decoder, opts ...Option) *Engine {
	e := &Engine{
		surface: surface,
		decoder: decoder,
		logger:  slog.Default(),
		settle:  DefaultSettle,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.player = playback.NewPlayer(surface, playback.WithLogger(e.logger))

	return e
}

// Load converts data, named name, at width columns and starts playing it.
// Playback continues until ctx is cancelled, [Engine.Stop] is called, or the
// next Load.
//
// The active session is stopped first, so any failure stays on the surface.
// A failed or cancelled load leaves the previous buffer in place; only a load
// that reaches playback replaces it.
func (e *Engine) Load(ctx context.Context, name string, data []byte, width int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.player.Stop()

	kind, err := media.KindFromName(name)
	if err != nil {
		e.surface.Show(fmt.Sprintf("Error: %v", err))
		e.logger.Warn("load rejected", slog.String("source", name), slog.Any("error", err))

		return err
	}

	e.surface.Show(fmt.Sprintf("Loading %s...", name))

	opts := append([]convert.Option{
		convert.WithLogger(e.logger),
		convert.WithProgress(func(p convert.Progress) {
			e.surface.Show(p.String())
		}),
	}, e.convertOpts...)

	res, err := convert.New(e.decoder, opts...).Convert(ctx, convert.Source{
		Name: name,
		Data: data,
		Kind: kind,
	}, width)
	if err != nil {
		e.surface.Show(fmt.Sprintf("Error converting %s: %v", kind, err))
		e.logger.Error("load failed", slog.String("source", name), slog.Any("error", err))

		return fmt.Errorf("loading %s: %w", name, err)
	}

	e.surface.Show(fmt.Sprintf("Conversion complete! %d frames ready. Starting playback...", len(res.Frames)))

	if e.settle > 0 {
		timer := time.NewTimer(e.settle)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return fmt.Errorf("loading %s: %w", name, ctx.Err())
		case <-timer.C:
		}
	}

	e.current.Store(&res)

	fps := res.FPS
	if e.fps > 0 {
		fps = e.fps
	}

	e.player.Play(ctx, res.Frames, fps)

	return nil
}

// Result returns the most recent successful conversion.
func (e *Engine) Result() (convert.Result, bool) {
	res := e.current.Load()
	if res == nil {
		return convert.Result{}, false
	}

	return *res, true
}

// Buffer returns the frames of the most recent successful conversion.
func (e *Engine) Buffer() convert.Buffer {
	res, _ := e.Result()

	return res.Frames
}

// Session returns the most recently started playback session, or nil.
func (e *Engine) Session() *playback.Session {
	return e.player.Current()
}

// Stop stops playback and waits for the session to finish.
func (e *Engine) Stop() {
	e.player.Stop()
}
