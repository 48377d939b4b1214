package libav

import (
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"

	"github.com/backmassage/hevcmux/internal/averr"
	"github.com/backmassage/hevcmux/internal/media"
	"github.com/backmassage/hevcmux/internal/transcode"
)

// Input is an opened and probed input container.
type Input struct {
	fc      *astiav.FormatContext
	c       *astikit.Closer
	raw     []*astiav.Stream
	streams []media.StreamInfo
}

// OpenInput opens path and reads stream information.
func OpenInput(path string) (*Input, error) {
	c := astikit.NewCloser()
	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, averr.Wrap("Failed to allocate input context", failure(averr.ErrNoMem))
	}
	c.Add(fc.Free)

	if err := fc.OpenInput(path, nil, nil); err != nil {
		_ = c.Close()
		return nil, averr.Wrap("Failed to open input file", status(err))
	}
	c.Add(fc.CloseInput)

	if err := fc.FindStreamInfo(nil); err != nil {
		_ = c.Close()
		return nil, averr.Wrap("Failed to find stream information", status(err))
	}

	in := &Input{fc: fc, c: c}
	for _, s := range fc.Streams() {
		in.raw = append(in.raw, s)
		in.streams = append(in.streams, describe(s))
	}
	return in, nil
}

// describe converts an astiav stream into a backend-neutral descriptor.
func describe(s *astiav.Stream) media.StreamInfo {
	cp := s.CodecParameters()
	info := media.StreamInfo{
		Index:     s.Index(),
		CodecName: cp.CodecID().String(),
		BitRate:   cp.BitRate(),
		TimeBase:  fromRational(s.TimeBase()),
	}
	switch cp.MediaType() {
	case astiav.MediaTypeVideo:
		info.Kind = media.KindVideo
		info.Width = cp.Width()
		info.Height = cp.Height()
		info.PixelFormat = media.PixelFormat{ID: int(cp.PixelFormat()), Name: cp.PixelFormat().String()}
		info.SampleAspectRatio = fromRational(cp.SampleAspectRatio())
		info.FrameRate = fromRational(s.AvgFrameRate())
	case astiav.MediaTypeAudio:
		info.Kind = media.KindAudio
		info.SampleRate = cp.SampleRate()
		info.SampleFormat = cp.SampleFormat().String()
		info.Channels = cp.ChannelLayout().Channels()
	default:
		info.Kind = media.KindOther
	}
	if md := s.Metadata(); md != nil {
		if e := md.Get("language", nil, astiav.NewDictionaryFlags()); e != nil {
			info.Language = e.Value()
		}
	}
	return info
}

func (in *Input) Streams() []media.StreamInfo { return in.streams }

// ReadPacket allocates a packet and fills it with the next coded unit.
func (in *Input) ReadPacket() (transcode.Packet, error) {
	p, err := allocPacket()
	if err != nil {
		return nil, err
	}
	if err := in.fc.ReadFrame(p.pkt); err != nil {
		p.Release()
		return nil, status(err)
	}
	return p, nil
}

func (in *Input) GuessFrameRate(streamIndex int) media.Rational {
	s, err := in.stream(streamIndex)
	if err != nil {
		return media.Rational{}
	}
	return fromRational(in.fc.GuessFrameRate(s, nil))
}

func (in *Input) stream(idx int) (*astiav.Stream, error) {
	if idx < 0 || idx >= len(in.raw) {
		return nil, averr.Wrap(fmt.Sprintf("Stream %d", idx), failure(averr.ErrStreamNotFound))
	}
	return in.raw[idx], nil
}

// Close closes the input and frees its context.
func (in *Input) Close() error {
	return in.c.Close()
}

// Probe opens path, returns its stream descriptors and closes it again.
func Probe(path string) ([]media.StreamInfo, error) {
	in, err := OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return in.Streams(), nil
}
