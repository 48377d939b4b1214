package libav

import (
	"github.com/asticode/go-astiav"

	"github.com/backmassage/hevcmux/internal/averr"
	"github.com/backmassage/hevcmux/internal/media"
	"github.com/backmassage/hevcmux/internal/transcode"
)

// Codecs opens astiav decoders and encoders.
type Codecs struct{}

// OpenDecoder opens a decoder for an input stream's codec, importing the
// stream's parameters and time base.
func (Codecs) OpenDecoder(in transcode.Input, s media.StreamInfo) (transcode.Decoder, error) {
	li, ok := in.(*Input)
	if !ok {
		return nil, errNotLibavInput
	}
	st, err := li.stream(s.Index)
	if err != nil {
		return nil, err
	}

	codec := astiav.FindDecoder(st.CodecParameters().CodecID())
	if codec == nil {
		return nil, averr.Wrap("Failed to find decoder", failure(averr.ErrDecoderNotFound))
	}
	cc := astiav.AllocCodecContext(codec)
	if cc == nil {
		return nil, averr.Wrap("Failed to allocate decode context", failure(averr.ErrNoMem))
	}
	if err := st.CodecParameters().ToCodecContext(cc); err != nil {
		cc.Free()
		return nil, averr.Wrap("Failed to copy decode parameters", status(err))
	}
	cc.SetFramerate(li.fc.GuessFrameRate(st, nil))
	if err := cc.Open(codec, nil); err != nil {
		cc.Free()
		return nil, averr.Wrap("Failed to open decode codec", status(err))
	}
	cc.SetTimeBase(st.TimeBase())
	return &Decoder{cc: cc}, nil
}

// OpenEncoder opens the named encoder with the given picture parameters.
func (Codecs) OpenEncoder(name string, p media.VideoParams) (transcode.Encoder, error) {
	codec := astiav.FindEncoderByName(name)
	if codec == nil {
		return nil, averr.Wrap("Failed to find encoder", failure(averr.ErrEncoderNotFound))
	}
	cc := astiav.AllocCodecContext(codec)
	if cc == nil {
		return nil, averr.Wrap("Failed to allocate encode context", failure(averr.ErrNoMem))
	}
	cc.SetWidth(p.Width)
	cc.SetHeight(p.Height)
	cc.SetSampleAspectRatio(toRational(p.SampleAspectRatio))
	cc.SetPixelFormat(astiav.PixelFormat(p.PixelFormat.ID))
	cc.SetBitRate(p.BitRate)
	cc.SetTimeBase(toRational(p.TimeBase))
	if p.GlobalHeader {
		cc.SetFlags(cc.Flags().Add(astiav.CodecContextFlagGlobalHeader))
	}
	if err := cc.Open(codec, nil); err != nil {
		cc.Free()
		return nil, averr.Wrap("Failed to open encode codec", status(err))
	}
	return &Encoder{cc: cc}, nil
}

// Decoder wraps an opened decode context.
type Decoder struct {
	cc *astiav.CodecContext
}

// SendPacket submits pkt; nil enters draining mode.
func (d *Decoder) SendPacket(pkt transcode.Packet) error {
	if pkt == nil {
		return status(d.cc.SendPacket(nil))
	}
	p, ok := pkt.(*Packet)
	if !ok {
		return failure(averr.ErrInvalidArg)
	}
	return status(d.cc.SendPacket(p.pkt))
}

func (d *Decoder) ReceiveFrame() (transcode.Frame, error) {
	f := astiav.AllocFrame()
	if f == nil {
		return nil, failure(averr.ErrNoMem)
	}
	if err := d.cc.ReceiveFrame(f); err != nil {
		f.Free()
		return nil, status(err)
	}
	return &Frame{f: f}, nil
}

func (d *Decoder) Params() media.VideoParams {
	pf := d.cc.PixelFormat()
	return media.VideoParams{
		Width:             d.cc.Width(),
		Height:            d.cc.Height(),
		SampleAspectRatio: fromRational(d.cc.SampleAspectRatio()),
		PixelFormat:       media.PixelFormat{ID: int(pf), Name: pf.String()},
		BitRate:           d.cc.BitRate(),
		TimeBase:          fromRational(d.cc.TimeBase()),
	}
}

func (d *Decoder) Close() {
	if d.cc != nil {
		d.cc.Free()
		d.cc = nil
	}
}

// Encoder wraps an opened encode context.
type Encoder struct {
	cc *astiav.CodecContext
}

// SendFrame submits frame; nil enters draining mode.
func (e *Encoder) SendFrame(frame transcode.Frame) error {
	if frame == nil {
		return status(e.cc.SendFrame(nil))
	}
	f, ok := frame.(*Frame)
	if !ok {
		return failure(averr.ErrInvalidArg)
	}
	return status(e.cc.SendFrame(f.f))
}

func (e *Encoder) ReceivePacket() (transcode.Packet, error) {
	p, err := allocPacket()
	if err != nil {
		return nil, err
	}
	if err := e.cc.ReceivePacket(p.pkt); err != nil {
		p.Release()
		return nil, status(err)
	}
	return p, nil
}

func (e *Encoder) TimeBase() media.Rational { return fromRational(e.cc.TimeBase()) }

func (e *Encoder) Close() {
	if e.cc != nil {
		e.cc.Free()
		e.cc = nil
	}
}
