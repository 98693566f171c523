// Package media adapts encoded media bytes into ordered sequences of decoded
// frames.
//
// Two source kinds are supported. Animated images ([KindAnimation]) expose a
// known frame count and random access through [Animation]. Videos
// ([KindVideo]) are read sequentially through [Video] until [io.EOF], with an
// optional declared frame count and frame rate.
//
// [KindFromName] derives the kind from a file name:
//
//	kind, err := media.KindFromName("clip.webm") // media.KindVideo
//
// [GIF] decodes animations in-process with [image/gif]. [FFmpeg] stages video
// bytes in a temporary file, probes them with ffprobe and streams raw RGBA
// frames out of an ffmpeg subprocess. [NewDecoder] combines both.
package media
