package probe

import (
	"fmt"

	"github.com/backmassage/hevcmux/internal/media"
)

// Prober names, as accepted by the plan command and reported in its output.
const (
	SourceFFprobe = "ffprobe"
	SourceTS      = "ts"
	SourceLibav   = "libav"
)

// FormatInfo holds container-level metadata.
type FormatInfo struct {
	Filename       string
	NbStreams      int
	FormatName     string
	FormatLongName string
	Duration       float64
	Size           int64
	BitRate        int64
	Tags           map[string]string
}

// VideoStream holds the color and field properties of a video stream that
// only ffprobe reports.
type VideoStream struct {
	Index          int
	Codec          string
	Profile        string
	PixFmt         string
	Width          int
	Height         int
	BitRate        int64
	FieldOrder     string
	ColorTransfer  string
	ColorPrimaries string
	ColorSpace     string
	IsAttachedPic  bool
}

// ProbeResult is what one prober learned about an input.
// Streams is in input index order. PrimaryVideo is the first
// non-attached-pic video stream, and is nil when the prober cannot tell.
type ProbeResult struct {
	Source       string
	Format       FormatInfo
	Streams      []media.StreamInfo
	PrimaryVideo *VideoStream
}

// Count returns the number of streams of kind k.
func (p *ProbeResult) Count(k media.Kind) int {
	n := 0
	for _, s := range p.Streams {
		if s.Kind == k {
			n++
		}
	}
	return n
}

// VideoBitRate returns the primary video stream bitrate in bits/sec,
// falling back to the format-level bitrate.
func (p *ProbeResult) VideoBitRate() int64 {
	if p.PrimaryVideo != nil && p.PrimaryVideo.BitRate > 0 {
		return p.PrimaryVideo.BitRate
	}
	return p.Format.BitRate
}

// Resolution returns "WxH" for the primary video stream, or "unknown".
func (p *ProbeResult) Resolution() string {
	if p.PrimaryVideo == nil || p.PrimaryVideo.Width <= 0 || p.PrimaryVideo.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", p.PrimaryVideo.Width, p.PrimaryVideo.Height)
}
