// Package frame reduces decoded media frames to small luminance grids.
//
// A [Reducer] resamples a source [image.Image] to a caller-chosen width,
// deriving the height from the source aspect ratio, and converts the result to
// a single-channel [*image.Gray] using ITU-R BT.601 luma weights.
package frame

import (
	"errors"
	"fmt"
	"image"
	"math"
	"slices"
	"strings"

	"golang.org/x/image/draw"
)

// Scaler names accepted by [ParseScaler].
const (
	ScalerNearest        = "nearest"
	ScalerApproxBiLinear = "approx-bilinear"
	ScalerBiLinear       = "bilinear"
	ScalerCatmullRom     = "catmull-rom"
)

var (
	// ErrInvalidSize indicates a zero-area source or a target width below 1.
	ErrInvalidSize = errors.New("invalid size")
	// ErrUnknownScaler indicates an unrecognized scaler name.
	ErrUnknownScaler = errors.New("unknown scaler")
)

var scalers = map[string]draw.Interpolator{
	ScalerNearest:        draw.NearestNeighbor,
	ScalerApproxBiLinear: draw.ApproxBiLinear,
	ScalerBiLinear:       draw.BiLinear,
	ScalerCatmullRom:     draw.CatmullRom,
}

// ParseScaler returns the [draw.Interpolator] registered under name.
func ParseScaler(name string) (draw.Interpolator, error) {
	s, ok := scalers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScaler, name)
	}

	return s, nil
}

// ScalerNames returns all names accepted by [ParseScaler], sorted.
func ScalerNames() []string {
	names := make([]string, 0, len(scalers))
	for name := range scalers {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Reducer resamples frames to a target grid width.
//
// Create instances with [NewReducer]. The zero value is not usable.
type Reducer struct {
	scaler draw.Interpolator
}

// Option configures a [Reducer].
type Option func(*Reducer)

// WithScaler sets the resampling interpolator. The default is
// [draw.ApproxBiLinear].
func WithScaler(s draw.Interpolator) Option {
	return func(r *Reducer) {
		if s != nil {
			r.scaler = s
		}
	}
}

// NewReducer creates a [Reducer] with the given options.
func NewReducer(opts ...Option) *Reducer {
	r := &Reducer{
		scaler: draw.ApproxBiLinear,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Reduce resamples img to width columns and returns its luminance.
// The height is round(width * h / w), never less than 1.
func (r *Reducer) Reduce(img image.Image, width int) (*image.Gray, error) {
	sb := img.Bounds()
	if width < 1 {
		return nil, fmt.Errorf("%w: target width %d", ErrInvalidSize, width)
	}

	if sb.Dx() < 1 || sb.Dy() < 1 {
		return nil, fmt.Errorf("%w: source %dx%d", ErrInvalidSize, sb.Dx(), sb.Dy())
	}

	dr := image.Rect(0, 0, width, TargetHeight(width, sb.Dx(), sb.Dy()))

	// Single-channel sources skip the luma conversion.
	if g, ok := img.(*image.Gray); ok {
		dst := image.NewGray(dr)
		r.scaler.Scale(dst, dr, g, sb, draw.Src, nil)

		return dst, nil
	}

	rgba := image.NewRGBA(dr)
	r.scaler.Scale(rgba, dr, img, sb, draw.Src, nil)

	dst := image.NewGray(dr)
	for i, j := 0, 0; i < len(dst.Pix); i, j = i+1, j+4 {
		dst.Pix[i] = Luma(rgba.Pix[j], rgba.Pix[j+1], rgba.Pix[j+2])
	}

	return dst, nil
}

// Reduce resamples img with a default [Reducer].
func Reduce(img image.Image, width int) (*image.Gray, error) {
	return NewReducer().Reduce(img, width)
}

// TargetHeight returns the grid height for a source of w x h pixels reduced to
// width columns.
func TargetHeight(width, w, h int) int {
	height := int(math.Round(float64(width) * float64(h) / float64(w)))

	return max(height, 1)
}

// Luma returns the BT.601 luminance of an 8-bit RGB sample, rounded.
func Luma(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}
