package media

import (
	"context"
	"errors"
	"image"
)

// ErrFrameIndex indicates an [Animation] frame index out of range.
var ErrFrameIndex = errors.New("frame index out of range")

// Animation is a decoded animated image with random frame access.
type Animation interface {
	// FrameCount returns the total number of frames.
	FrameCount() int
	// Frame returns a copy of the fully composited frame i.
	Frame(i int) (image.Image, error)
}

// Video is a sequential frame stream.
//
// Callers must call Close when done, including after an error.
type Video interface {
	// Next returns the next frame, or [io.EOF] once the stream is exhausted.
	Next() (image.Image, error)
	// DeclaredFrames returns the frame count advertised by the container, or
	// 0 when unknown.
	DeclaredFrames() int
	// FPS returns the declared frame rate, or a value <= 0 when unknown.
	FPS() float64
	Close() error
}

// AnimationDecoder opens animated images.
type AnimationDecoder interface {
	OpenAnimation(ctx context.Context, data []byte) (Animation, error)
}

// VideoDecoder opens video streams. The name is used to derive a staging file
// name so that container detection by extension keeps working.
type VideoDecoder interface {
	OpenVideo(ctx context.Context, name string, data []byte) (Video, error)
}

// Decoder opens both animations and videos.
type Decoder interface {
	AnimationDecoder
	VideoDecoder
}

// Mux is a [Decoder] that routes each kind to a dedicated decoder.
type Mux struct {
	Animations AnimationDecoder
	Videos     VideoDecoder
}

// OpenAnimation implements [AnimationDecoder].
func (m Mux) OpenAnimation(ctx context.Context, data []byte) (Animation, error) {
	return m.Animations.OpenAnimation(ctx, data)
}

// OpenVideo implements [VideoDecoder].
func (m Mux) OpenVideo(ctx context.Context, name string, data []byte) (Video, error) {
	return m.Videos.OpenVideo(ctx, name, data)
}

// NewDecoder returns a [Mux] backed by [GIF] and an [FFmpeg] built with opts.
func NewDecoder(opts ...FFmpegOption) Mux {
	return Mux{
		Animations: GIF{},
		Videos:     NewFFmpeg(opts...),
	}
}
