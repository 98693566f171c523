// Package convert turns media sources into buffers of rendered text-art
// frames.
//
// A [Pipeline] decodes a [Source] with a [media.Decoder], then reduces,
// quantizes and assembles every frame in source order:
//
//	p := convert.New(media.NewDecoder(), convert.WithProgress(func(pr convert.Progress) {
//	    fmt.Println(pr)
//	}))
//
//	res, err := p.Convert(ctx, convert.Source{Name: "cat.gif", Data: data}, 80)
//
// The returned [Result] carries the complete [Buffer] and a nominal playback
// rate. Animations play at [AnimationFPS]. Videos play at twice their declared
// rate, or [FallbackVideoFPS] when the rate is unknown (see [VideoFPS]).
//
// Conversion is all-or-nothing: on any failure the partial buffer is dropped
// and an error wrapping one of [ErrUnsupportedFormat], [ErrDecoderOpen],
// [ErrEmptySource] or [ErrFrameProcessing] is returned. Cancelling ctx stops
// the conversion at the next frame boundary.
//
// [Config] exposes the pipeline settings as CLI flags.
package convert
