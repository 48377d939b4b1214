// Package media holds the backend-neutral stream descriptors and time-base
// arithmetic shared by the planner, the transcode pipeline, and the probes.
package media

import "fmt"

// Kind is the media type of a stream.
type Kind int

const (
	KindOther Kind = iota // Subtitles, data, attachments, unknown.
	KindAudio
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	default:
		return "other"
	}
}

// ParseKind maps probe codec_type strings ("video", "audio", ...) to a Kind.
func ParseKind(s string) Kind {
	switch s {
	case "video":
		return KindVideo
	case "audio":
		return KindAudio
	default:
		return KindOther
	}
}

// PixelFormat identifies a raw picture layout. ID is the backend's numeric
// value and is only meaningful to the backend that produced it; Name is the
// human-readable label (e.g. "yuv420p").
type PixelFormat struct {
	ID   int
	Name string
}

func (p PixelFormat) String() string {
	if p.Name == "" {
		return fmt.Sprintf("pixfmt(%d)", p.ID)
	}
	return p.Name
}

// StreamInfo describes one input stream as reported by a demuxer or probe.
// It is immutable once probed.
type StreamInfo struct {
	Index             int
	Kind              Kind
	CodecName         string
	Width             int
	Height            int
	PixelFormat       PixelFormat
	SampleFormat      string
	SampleRate        int
	Channels          int
	BitRate           int64
	SampleAspectRatio Rational
	TimeBase          Rational
	FrameRate         Rational
	Language          string
}

// VideoParams are the picture parameters an encoder is opened with. They are
// derived from an opened decoder rather than from the original bitstream.
type VideoParams struct {
	Width             int
	Height            int
	SampleAspectRatio Rational
	PixelFormat       PixelFormat
	BitRate           int64
	TimeBase          Rational
	GlobalHeader      bool
}

// Resolution returns "WxH", or "unknown" when either dimension is missing.
func (v VideoParams) Resolution() string {
	if v.Width <= 0 || v.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}
