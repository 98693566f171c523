package frame_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/glyphreel/frame"
)

func uniformRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}

	return img
}

func TestReduceDimensions(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		srcW, srcH int
		width      int
		wantH      int
	}{
		"square":              {srcW: 10, srcH: 10, width: 4, wantH: 4},
		"landscape 16:9":      {srcW: 160, srcH: 90, width: 80, wantH: 45},
		"portrait":            {srcW: 9, srcH: 16, width: 9, wantH: 16},
		"rounds half up":      {srcW: 4, srcH: 3, width: 2, wantH: 2},
		"rounds down":         {srcW: 3, srcH: 1, width: 4, wantH: 1},
		"height clamps to 1":  {srcW: 1000, srcH: 1, width: 10, wantH: 1},
		"upscale single px":   {srcW: 1, srcH: 1, width: 80, wantH: 80},
		"width of one column": {srcW: 50, srcH: 100, width: 1, wantH: 2},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src := uniformRGBA(tc.srcW, tc.srcH, color.RGBA{R: 10, G: 20, B: 30, A: 255})

			got, err := frame.Reduce(src, tc.width)
			require.NoError(t, err)
			assert.Equal(t, tc.width, got.Bounds().Dx())
			assert.Equal(t, tc.wantH, got.Bounds().Dy())
			assert.Equal(t, tc.wantH, frame.TargetHeight(tc.width, tc.srcW, tc.srcH))
		})
	}
}

func TestReduceLuminance(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input color.RGBA
		want  uint8
	}{
		"black": {input: color.RGBA{A: 255}, want: 0},
		"white": {input: color.RGBA{R: 255, G: 255, B: 255, A: 255}, want: 255},
		"gray":  {input: color.RGBA{R: 128, G: 128, B: 128, A: 255}, want: 128},
		"red":   {input: color.RGBA{R: 255, A: 255}, want: 76},
		"green": {input: color.RGBA{G: 255, A: 255}, want: 150},
		"blue":  {input: color.RGBA{B: 255, A: 255}, want: 29},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := frame.Reduce(uniformRGBA(8, 8, tc.input), 4)
			require.NoError(t, err)

			for _, p := range got.Pix {
				assert.Equal(t, tc.want, p)
			}
		})
	}
}

func TestReduceGrayPassThrough(t *testing.T) {
	t.Parallel()

	src := image.NewGray(image.Rect(0, 0, 6, 3))
	for i := range src.Pix {
		src.Pix[i] = 200
	}

	got, err := frame.NewReducer(frame.WithScaler(nil)).Reduce(src, 2)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 1), got.Bounds())
	require.Len(t, got.Pix, 2)

	for _, p := range got.Pix {
		assert.InDelta(t, 200, p, 1)
	}
}

func TestReduceInvalid(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		src   image.Image
		width int
	}{
		"zero width":   {src: image.NewRGBA(image.Rect(0, 0, 4, 4)), width: 0},
		"negative":     {src: image.NewRGBA(image.Rect(0, 0, 4, 4)), width: -3},
		"empty source": {src: image.NewRGBA(image.Rect(0, 0, 0, 4)), width: 4},
		"empty rows":   {src: image.NewGray(image.Rect(0, 0, 4, 0)), width: 4},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := frame.Reduce(tc.src, tc.width)
			require.ErrorIs(t, err, frame.ErrInvalidSize)
		})
	}
}

func TestParseScaler(t *testing.T) {
	t.Parallel()

	for _, name := range frame.ScalerNames() {
		s, err := frame.ParseScaler(name)
		require.NoError(t, err, name)
		assert.NotNil(t, s)

		got, err := frame.NewReducer(frame.WithScaler(s)).Reduce(uniformRGBA(9, 3, color.RGBA{A: 255}), 3)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 3, 1), got.Bounds())
	}

	_, err := frame.ParseScaler("lanczos")
	require.ErrorIs(t, err, frame.ErrUnknownScaler)

	assert.Equal(t, []string{"approx-bilinear", "bilinear", "catmull-rom", "nearest"}, frame.ScalerNames())
}

func TestLuma(t *testing.T) {
	t.Parallel()

	for v := range 256 {
		assert.Equal(t, uint8(v), frame.Luma(uint8(v), uint8(v), uint8(v)))
	}
}
