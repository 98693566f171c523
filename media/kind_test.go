package media_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/glyphreel/media"
)

func TestKindFromName(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		want        media.Kind
		expectError bool
	}{
		"gif":              {input: "cat.gif", want: media.KindAnimation},
		"upper case gif":   {input: "CAT.GIF", want: media.KindAnimation},
		"mp4":              {input: "clip.mp4", want: media.KindVideo},
		"mov":              {input: "clip.mov", want: media.KindVideo},
		"avi":              {input: "clip.avi", want: media.KindVideo},
		"mkv":              {input: "dir.d/clip.mkv", want: media.KindVideo},
		"webm":             {input: "clip.WebM", want: media.KindVideo},
		"png":              {input: "still.png", want: media.KindUnknown, expectError: true},
		"no extension":     {input: "README", want: media.KindUnknown, expectError: true},
		"double extension": {input: "clip.mp4.txt", want: media.KindUnknown, expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			kind, err := media.KindFromName(tc.input)
			if tc.expectError {
				require.ErrorIs(t, err, media.ErrUnsupportedFormat)
				assert.Contains(t, err.Error(), ".gif, .mp4, .mov, .avi, .mkv, .webm")
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.want, kind)
		})
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "animation", media.KindAnimation.String())
	assert.Equal(t, "video", media.KindVideo.String())
	assert.Equal(t, "unknown", media.KindUnknown.String())
}
