// Package mediatest provides in-memory [media.Decoder] implementations for
// tests.
package mediatest

import (
	"context"
	"image"
	"image/color"
	"io"
	"sync/atomic"

	"go.jacobcolvin.com/glyphreel/media"
)

// Uniform returns a w x h RGBA image filled with the gray level y.
func Uniform(w, h int, y uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	c := color.RGBA{R: y, G: y, B: y, A: 255}

	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}

	return img
}

// Frames returns one [Uniform] image per gray level.
func Frames(w, h int, levels ...uint8) []image.Image {
	frames := make([]image.Image, len(levels))
	for i, y := range levels {
		frames[i] = Uniform(w, h, y)
	}

	return frames
}

// Animation is a slice-backed [media.Animation].
type Animation struct {
	// Err, when set, is returned by Frame for index FailAt.
	Err error
	// Panic, when set, is raised by Frame for index FailAt.
	Panic  any
	Images []image.Image
	FailAt int
}

// FrameCount implements [media.Animation].
func (a *Animation) FrameCount() int {
	return len(a.Images)
}

// Frame implements [media.Animation].
func (a *Animation) Frame(i int) (image.Image, error) {
	if a.Panic != nil && i == a.FailAt {
		panic(a.Panic)
	}

	if a.Err != nil && i == a.FailAt {
		return nil, a.Err
	}

	if i < 0 || i >= len(a.Images) {
		return nil, media.ErrFrameIndex
	}

	return a.Images[i], nil
}

// Video is a slice-backed [media.Video].
type Video struct {
	// Err, when set, is returned by Next in place of frame FailAt.
	Err error
	// Panic, when set, is raised by Next in place of frame FailAt.
	Panic    any
	Images   []image.Image
	Declared int
	Rate     float64
	FailAt   int
	next     int
	closed   atomic.Bool
}

// Next implements [media.Video].
func (v *Video) Next() (image.Image, error) {
	if v.Panic != nil && v.next == v.FailAt {
		panic(v.Panic)
	}

	if v.Err != nil && v.next == v.FailAt {
		return nil, v.Err
	}

	if v.next >= len(v.Images) {
		return nil, io.EOF
	}

	img := v.Images[v.next]
	v.next++

	return img, nil
}

// DeclaredFrames implements [media.Video].
func (v *Video) DeclaredFrames() int {
	return v.Declared
}

// FPS implements [media.Video].
func (v *Video) FPS() float64 {
	return v.Rate
}

// Close implements [media.Video].
func (v *Video) Close() error {
	v.closed.Store(true)

	return nil
}

// Closed reports whether Close was called.
func (v *Video) Closed() bool {
	return v.closed.Load()
}

// Decoder is a [media.Decoder] returning fixed sources.
type Decoder struct {
	// OpenErr, when set, is returned by both Open methods.
	OpenErr   error
	Animation *Animation
	Video     *Video
}

// OpenAnimation implements [media.AnimationDecoder].
func (d *Decoder) OpenAnimation(_ context.Context, _ []byte) (media.Animation, error) {
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}

	return d.Animation, nil
}

// OpenVideo implements [media.VideoDecoder].
func (d *Decoder) OpenVideo(_ context.Context, _ string, _ []byte) (media.Video, error) {
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}

	return d.Video, nil
}
