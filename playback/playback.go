// Package playback cycles rendered frames onto a display surface at a fixed
// rate.
//
// [Play] starts a [Session] that shows each frame in order, waits one frame
// delay, and wraps around to the first frame after the last. A session never
// ends on its own; it runs until its context is cancelled or
// [Session.Cancel] / [Session.Stop] is called. Cancellation is observed while
// waiting between frames, so a frame is never interrupted mid-render.
//
// A [Player] owns one [Surface] and keeps at most one session running on it:
//
//	p := playback.NewPlayer(surface)
//	p.Play(ctx, frames, 20) // stops any earlier session first
package playback

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultFPS is used when a non-positive rate is requested.
	DefaultFPS = 20.0
	// NothingToPlay is shown on the surface when playback starts with no
	// frames.
	NothingToPlay = "No frames to play"
)

// Surface displays one text block at a time. Each call replaces the previous
// content.
type Surface interface {
	Show(text string)
}

// SurfaceFunc adapts a function to a [Surface].
type SurfaceFunc func(text string)

// Show calls f(text).
func (f SurfaceFunc) Show(text string) {
	f(text)
}

// State is the lifecycle state of a [Session].
type State int32

const (
	// StateIdle is the state of a session that had nothing to play.
	StateIdle State = iota
	// StateRunning is the state of a session cycling through frames.
	StateRunning
	// StateCancelled is the terminal state after cancellation.
	StateCancelled
)

// String returns the lowercase name of s.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCancelled:
		return "cancelled"
	}

	return "unknown"
}

// Delay returns the time between frames at fps frames per second. Non-positive
// rates use [DefaultFPS].
func Delay(fps float64) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}

	return time.Duration(float64(time.Second) / fps)
}

// Option configures a [Session].
type Option func(*Session)

// WithLogger sets the logger. The default is [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session is a single playback run.
type Session struct {
	surface Surface
	logger  *slog.Logger
	cancel  context.CancelFunc
	done    chan struct{}
	frames  []string
	delay   time.Duration
	index   atomic.Int64
	renders atomic.Int64
	state   atomic.Int32
	id      uuid.UUID
}

// Play starts showing frames on surface at fps frames per second and returns
// immediately. The session keeps a reference to frames, which must not be
// modified while it runs.
//
// With no frames, [NothingToPlay] is shown and the returned session is already
// done in [StateIdle].
func Play(ctx context.Context, frames []string, fps float64, surface Surface, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(ctx)

	s := &Session{
		surface: surface,
		logger:  slog.Default(),
		cancel:  cancel,
		done:    make(chan struct{}),
		frames:  frames,
		delay:   Delay(fps),
		id:      uuid.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With(slog.String("session", s.id.String()))

	if len(frames) == 0 {
		cancel()
		surface.Show(NothingToPlay)
		close(s.done)
		s.logger.Debug("nothing to play")

		return s
	}

	s.state.Store(int32(StateRunning))
	s.logger.Debug("playback started",
		slog.Int("frames", len(frames)),
		slog.Duration("delay", s.delay),
	)

	go s.run(ctx)

	return s
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	n := int64(len(s.frames))

	for {
		if ctx.Err() != nil {
			s.finish()

			return
		}

		i := s.index.Load()
		s.surface.Show(s.frames[i])
		s.renders.Add(1)
		s.index.Store((i + 1) % n)

		timer.Reset(s.delay)

		select {
		case <-ctx.Done():
			s.finish()

			return
		case <-timer.C:
		}
	}
}

func (s *Session) finish() {
	s.state.Store(int32(StateCancelled))
	s.logger.Debug("playback cancelled", slog.Int64("renders", s.renders.Load()))
}

// ID returns the unique session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Index returns the index of the next frame to show.
func (s *Session) Index() int {
	return int(s.index.Load())
}

// Renders returns the number of frames shown so far.
func (s *Session) Renders() int {
	return int(s.renders.Load())
}

// Delay returns the time between frames.
func (s *Session) Delay() time.Duration {
	return s.delay
}

// Len returns the number of frames in the cycle.
func (s *Session) Len() int {
	return len(s.frames)
}

// Done returns a channel that is closed once the session has stopped
// rendering.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Cancel requests cancellation without waiting. The session stops before its
// next frame.
func (s *Session) Cancel() {
	s.cancel()
}

// Stop cancels the session and waits until it has stopped rendering.
func (s *Session) Stop() {
	s.cancel()
	<-s.done
}

// Player runs at most one [Session] at a time on a [Surface].
//
// Create instances with [NewPlayer].
type Player struct {
	surface Surface
	current *Session
	opts    []Option
	mu      sync.Mutex
}

// NewPlayer creates a [Player] for surface. The options are applied to every
// session it starts.
func NewPlayer(surface Surface, opts ...Option) *Player {
	return &Player{
		surface: surface,
		opts:    opts,
	}
}

// Play stops the current session, waits for it to finish, then starts a new
// one. See [Play].
func (p *Player) Play(ctx context.Context, frames []string, fps float64) *Session {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		p.current.Stop()
	}

	p.current = Play(ctx, frames, fps, p.surface, p.opts...)

	return p.current
}

// Stop stops the current session, if any, and waits for it to finish.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		p.current.Stop()
	}
}

// Current returns the most recently started session, or nil.
func (p *Player) Current() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.current
}
