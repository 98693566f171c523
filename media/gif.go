package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"

	"golang.org/x/image/draw"
)

// ErrNoFrames indicates a source that decoded successfully but holds no
// frames.
var ErrNoFrames = errors.New("no frames")

// GIF decodes animated GIF images.
type GIF struct{}

// OpenAnimation decodes data as a GIF. Frames are composited lazily, honoring
// each frame's disposal method, so that [Animation.Frame] returns what a
// viewer would show at that index. The canvas starts filled with the opaque
// background color from the global palette, or black without one, so
// transparent areas are never left with undefined color.
func (GIF) OpenAnimation(_ context.Context, data []byte) (Animation, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding gif: %w", err)
	}

	return newGIFAnimation(g), nil
}

type gifAnimation struct {
	g          *gif.GIF
	background *image.Uniform
	canvas     *image.RGBA
	// saved holds the canvas before a DisposalPrevious frame was drawn.
	saved *image.RGBA
	next  int
}

func newGIFAnimation(g *gif.GIF) *gifAnimation {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		for _, p := range g.Image {
			bounds = bounds.Union(p.Bounds())
		}
	}

	a := &gifAnimation{
		g:          g,
		background: image.NewUniform(backgroundColor(g)),
		canvas:     image.NewRGBA(bounds),
	}
	a.reset()

	return a
}

// backgroundColor returns the global palette entry at the background index
// made opaque, or opaque black if the GIF has no usable global palette.
func backgroundColor(g *gif.GIF) color.RGBA {
	bg := color.RGBA{A: 0xff}

	p, ok := g.Config.ColorModel.(color.Palette)
	if !ok || int(g.BackgroundIndex) >= len(p) {
		return bg
	}

	r, gr, b, a := p[g.BackgroundIndex].RGBA()
	if a == 0 {
		return bg
	}

	// Undo premultiplication before forcing full opacity.
	return color.RGBA{
		R: uint8(r * 0xff / a),
		G: uint8(gr * 0xff / a),
		B: uint8(b * 0xff / a),
		A: 0xff,
	}
}

func (a *gifAnimation) FrameCount() int {
	return len(a.g.Image)
}

func (a *gifAnimation) Frame(i int) (image.Image, error) {
	if i < 0 || i >= len(a.g.Image) {
		return nil, fmt.Errorf("%w: %d of %d", ErrFrameIndex, i, len(a.g.Image))
	}

	if a.canvas.Rect.Empty() {
		return nil, fmt.Errorf("%w: empty canvas", ErrNoFrames)
	}

	if i < a.next {
		a.reset()
	}

	for a.next <= i {
		a.step()
	}

	out := image.NewRGBA(a.canvas.Rect)
	copy(out.Pix, a.canvas.Pix)

	return out, nil
}

func (a *gifAnimation) disposal(i int) byte {
	if i < len(a.g.Disposal) {
		return a.g.Disposal[i]
	}

	return gif.DisposalNone
}

func (a *gifAnimation) reset() {
	draw.Draw(a.canvas, a.canvas.Rect, a.background, image.Point{}, draw.Src)

	a.saved = nil
	a.next = 0
}

// step disposes of the previous frame and draws the next one.
func (a *gifAnimation) step() {
	if prev := a.next - 1; prev >= 0 {
		switch a.disposal(prev) {
		case gif.DisposalBackground:
			draw.Draw(a.canvas, a.g.Image[prev].Bounds(), a.background, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			if a.saved != nil {
				copy(a.canvas.Pix, a.saved.Pix)
			}
		}
	}

	p := a.g.Image[a.next]

	if a.disposal(a.next) == gif.DisposalPrevious {
		if a.saved == nil {
			a.saved = image.NewRGBA(a.canvas.Rect)
		}

		copy(a.saved.Pix, a.canvas.Pix)
	}

	draw.Draw(a.canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)

	a.next++
}
