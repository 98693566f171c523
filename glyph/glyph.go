package glyph

import (
	"image"
	"strings"
)

// BucketWidth is the number of luminance levels covered by each alphabet
// entry.
//
// With 256 levels the largest reachable index is 255/BucketWidth = 17, which
// leaves the last two entries of [Alphabet] unused.
const BucketWidth = 15

// Alphabet is the glyph palette, ordered from most ink to least ink.
var Alphabet = [20]rune{
	'█', '▓', '▒', '░',
	'⣿', '⣾', '⣽', '⣻', '⣺', '⣶', '⣴', '⣤', '⣀',
	'⠿', '⠾', '⠼', '⠸', '⠰', '⠠', '⠀',
}

// Frame is a flat, row-major sequence of glyphs.
type Frame []rune

// String returns the glyphs as a single line.
func (f Frame) String() string {
	return string(f)
}

// Index returns the [Alphabet] index for the luminance sample p.
func Index(p uint8) int {
	return min(int(p)/BucketWidth, len(Alphabet)-1)
}

// Glyph returns the [Alphabet] entry for the luminance sample p.
func Glyph(p uint8) rune {
	return Alphabet[Index(p)]
}

// Quantize maps every sample of g to a glyph. The returned [Frame] has one
// entry per pixel of g, in row-major order.
func Quantize(g *image.Gray) Frame {
	b := g.Bounds()
	f := make(Frame, 0, b.Dx()*b.Dy())

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[g.PixOffset(b.Min.X, y):g.PixOffset(b.Max.X, y)]
		for _, p := range row {
			f = append(f, Glyph(p))
		}
	}

	return f
}

// Assemble splits f into consecutive rows of width glyphs joined by "\n".
// A trailing partial row is emitted as-is. A width below 1 yields f as a single
// line.
func Assemble(f Frame, width int) string {
	if width < 1 || width >= len(f) {
		return string(f)
	}

	var sb strings.Builder

	// Most glyphs are 3 bytes in UTF-8.
	sb.Grow(len(f)*3 + len(f)/width)

	for i := 0; i < len(f); i += width {
		if i > 0 {
			sb.WriteByte('\n')
		}

		for _, r := range f[i:min(i+width, len(f))] {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// Render quantizes g and assembles it into rows of the grid's width.
func Render(g *image.Gray) string {
	return Assemble(Quantize(g), g.Bounds().Dx())
}
