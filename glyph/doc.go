// Package glyph maps luminance samples onto a fixed text-art alphabet and lays
// the result out as display-ready rows.
//
// The [Alphabet] is ordered from the densest glyph (a full block) to the
// sparsest (a blank braille cell). [Index] buckets an 8-bit luminance sample
// into that alphabet using a bucket width of [BucketWidth], so brighter samples
// select sparser glyphs:
//
//	idx := glyph.Index(128) // 8
//
// [Quantize] applies [Index] to every sample of an [*image.Gray] in row-major
// order, and [Assemble] splits the resulting [Frame] into rows:
//
//	text := glyph.Assemble(glyph.Quantize(gray), gray.Bounds().Dx())
//
// [Render] combines both steps.
package glyph
