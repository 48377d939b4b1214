package probe

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bluenviron/mediacommon/v2/pkg/formats/mpegts"

	"github.com/backmassage/hevcmux/internal/media"
)

// tsTimeBase is the 90 kHz clock all MPEG-TS timestamps are expressed in.
var tsTimeBase = media.NewRational(1, 90000)

// ProbeTSFile inspects the MPEG-TS file at path without libav.
func ProbeTSFile(path string) (*ProbeResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pr, err := ProbeTS(f)
	if err != nil {
		return nil, fmt.Errorf("probing %q: %w", path, err)
	}
	pr.Format.Filename = path
	if fi, err := f.Stat(); err == nil {
		pr.Format.Size = fi.Size()
	}
	return pr, nil
}

// ProbeTS reads r until the program tables are found and describes every
// elementary stream in PMT order.
func ProbeTS(r io.Reader) (*ProbeResult, error) {
	reader := &mpegts.Reader{R: r}
	if err := reader.Initialize(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("initializing mpegts reader: no program tables found: %w", err)
		}
		return nil, fmt.Errorf("initializing mpegts reader: %w", err)
	}

	tracks := reader.Tracks()
	pr := &ProbeResult{
		Source: SourceTS,
		Format: FormatInfo{
			NbStreams:      len(tracks),
			FormatName:     "mpegts",
			FormatLongName: "MPEG-TS (MPEG-2 Transport Stream)",
		},
	}
	for i, track := range tracks {
		s := describeTrack(track)
		s.Index = i
		pr.Streams = append(pr.Streams, s)
	}
	return pr, nil
}

func describeTrack(track *mpegts.Track) media.StreamInfo {
	s := media.StreamInfo{TimeBase: tsTimeBase}

	switch codec := track.Codec.(type) {
	case *mpegts.CodecH264:
		s.Kind, s.CodecName = media.KindVideo, "h264"
	case *mpegts.CodecH265:
		s.Kind, s.CodecName = media.KindVideo, "hevc"
	case *mpegts.CodecMPEG1Video:
		s.Kind, s.CodecName = media.KindVideo, "mpeg2video"
	case *mpegts.CodecMPEG4Video:
		s.Kind, s.CodecName = media.KindVideo, "mpeg4"
	case *mpegts.CodecMPEG4Audio:
		s.Kind, s.CodecName = media.KindAudio, "aac"
		s.SampleRate = codec.Config.SampleRate
		s.Channels = codec.Config.ChannelCount
	case *mpegts.CodecAC3:
		s.Kind, s.CodecName = media.KindAudio, "ac3"
		s.SampleRate = codec.SampleRate
		s.Channels = codec.ChannelCount
	case *mpegts.CodecMPEG1Audio:
		s.Kind, s.CodecName = media.KindAudio, "mp2"
	case *mpegts.CodecOpus:
		s.Kind, s.CodecName = media.KindAudio, "opus"
		s.SampleRate = 48000
		s.Channels = codec.ChannelCount
	default:
		s.Kind, s.CodecName = media.KindOther, fmt.Sprintf("pid-%d", track.PID)
	}
	return s
}
