package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Kind identifies how a media source is decoded.
type Kind int

const (
	// KindUnknown is the zero Kind.
	KindUnknown Kind = iota
	// KindAnimation is an animated image with a known frame count.
	KindAnimation
	// KindVideo is a video stream read frame by frame.
	KindVideo
)

// ErrUnsupportedFormat indicates a file extension with no matching [Kind].
var ErrUnsupportedFormat = errors.New("unsupported file format")

var (
	animationExtensions = []string{".gif"}
	videoExtensions     = []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}
)

// String returns the lowercase name of k.
func (k Kind) String() string {
	switch k {
	case KindAnimation:
		return "animation"
	case KindVideo:
		return "video"
	}

	return "unknown"
}

// KindFromName returns the [Kind] for the extension of name. The match is
// case-insensitive. Unrecognized extensions return [ErrUnsupportedFormat].
func KindFromName(name string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case slices.Contains(animationExtensions, ext):
		return KindAnimation, nil
	case slices.Contains(videoExtensions, ext):
		return KindVideo, nil
	}

	if ext == "" {
		ext = "(none)"
	}

	return KindUnknown, fmt.Errorf("%w: %s (supported: %s)",
		ErrUnsupportedFormat, ext, strings.Join(SupportedExtensions(), ", "))
}

// SupportedExtensions returns every recognized extension, animations first.
func SupportedExtensions() []string {
	return slices.Concat(animationExtensions, videoExtensions)
}
