package libav

import (
	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"

	"github.com/backmassage/hevcmux/internal/averr"
	"github.com/backmassage/hevcmux/internal/media"
	"github.com/backmassage/hevcmux/internal/transcode"
)

// Output is an output container. Its streams are defined before Open.
type Output struct {
	fc *astiav.FormatContext
	in *Input
	c  *astikit.Closer
}

// NewOutput allocates an output container of the given muxer format.
func NewOutput(in *Input, format string) (*Output, error) {
	fc, err := astiav.AllocOutputFormatContext(nil, format, "")
	if err != nil {
		return nil, status(err)
	}
	if fc == nil {
		return nil, failure(averr.ErrNoMem)
	}
	c := astikit.NewCloser()
	c.Add(fc.Free)
	return &Output{fc: fc, in: in, c: c}, nil
}

type outStream struct {
	s *astiav.Stream
}

func (o *outStream) Index() int               { return o.s.Index() }
func (o *outStream) TimeBase() media.Rational { return fromRational(o.s.TimeBase()) }

func (o *Output) newStream() (*astiav.Stream, error) {
	s := o.fc.NewStream(nil)
	if s == nil {
		return nil, averr.Wrap("Failed to allocate output stream", failure(averr.ErrNoMem))
	}
	return s, nil
}

// AddCopyStream defines a stream with the input stream's codec parameters.
func (o *Output) AddCopyStream(src media.StreamInfo) (transcode.OutputStream, error) {
	is, err := o.in.stream(src.Index)
	if err != nil {
		return nil, err
	}
	s, err := o.newStream()
	if err != nil {
		return nil, err
	}
	if err := is.CodecParameters().Copy(s.CodecParameters()); err != nil {
		return nil, status(err)
	}
	// The input's codec tag may be invalid in the target container.
	s.CodecParameters().SetCodecTag(0)
	s.SetTimeBase(is.TimeBase())
	return &outStream{s: s}, nil
}

// AddEncodedStream defines a stream from an opened encoder.
func (o *Output) AddEncodedStream(enc transcode.Encoder) (transcode.OutputStream, error) {
	e, ok := enc.(*Encoder)
	if !ok {
		return nil, failure(averr.ErrInvalidArg)
	}
	s, err := o.newStream()
	if err != nil {
		return nil, err
	}
	if err := s.CodecParameters().FromCodecContext(e.cc); err != nil {
		return nil, status(err)
	}
	s.SetTimeBase(e.cc.TimeBase())
	return &outStream{s: s}, nil
}

func (o *Output) GlobalHeader() bool {
	return o.fc.OutputFormat().Flags().Has(astiav.IOFormatFlagGlobalheader)
}

// Open creates the output file unless the muxer writes without one.
func (o *Output) Open(path string) error {
	if o.fc.OutputFormat().Flags().Has(astiav.IOFormatFlagNofile) {
		return nil
	}
	ioc, err := astiav.OpenIOContext(path, astiav.NewIOContextFlags(astiav.IOContextFlagWrite), nil, nil)
	if err != nil {
		return status(err)
	}
	o.c.AddWithError(ioc.Close)
	o.fc.SetPb(ioc)
	return nil
}

func (o *Output) WriteHeader() error {
	return status(o.fc.WriteHeader(nil))
}

// WritePacket interleaves pkt into the output. The caller still releases it.
func (o *Output) WritePacket(pkt transcode.Packet) error {
	p, ok := pkt.(*Packet)
	if !ok || p.pkt == nil {
		return failure(averr.ErrInvalidArg)
	}
	return status(o.fc.WriteInterleavedFrame(p.pkt))
}

func (o *Output) WriteTrailer() error {
	return status(o.fc.WriteTrailer())
}

// Close closes the sink if it was opened and frees the container.
func (o *Output) Close() error {
	return o.c.Close()
}
