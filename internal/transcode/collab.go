package transcode

import "github.com/backmassage/hevcmux/internal/media"

// Packet is one coded unit read from the input or produced by an encoder.
// Whoever holds a Packet releases it exactly once.
type Packet interface {
	StreamIndex() int
	SetStreamIndex(idx int)
	// RescaleTs converts pts, dts and duration from src to dst.
	RescaleTs(src, dst media.Rational)
	Size() int
	Release()
}

// Frame is one decoded picture.
type Frame interface {
	Release()
}

// Input is an opened, probed container.
type Input interface {
	Streams() []media.StreamInfo
	// ReadPacket returns the next coded unit in demuxer order, or an error
	// satisfying averr.IsEOF once the container is exhausted.
	ReadPacket() (Packet, error)
	GuessFrameRate(streamIndex int) media.Rational
	Close() error
}

// OutputStream is a stream definition on an Output. TimeBase may change
// when the header is written, so callers read it at write time.
type OutputStream interface {
	Index() int
	TimeBase() media.Rational
}

// Output is a container being written.
type Output interface {
	// AddCopyStream defines a stream whose codec parameters are copied from
	// the input stream src.
	AddCopyStream(src media.StreamInfo) (OutputStream, error)
	// AddEncodedStream defines a stream carrying the parameters and time
	// base of an opened encoder.
	AddEncodedStream(enc Encoder) (OutputStream, error)
	// GlobalHeader reports whether the container wants codec extradata in
	// the stream header rather than in-band.
	GlobalHeader() bool
	Open(path string) error
	WriteHeader() error
	WritePacket(pkt Packet) error
	WriteTrailer() error
	// Close closes the sink if it was opened and frees the container.
	Close() error
}

// Decoder turns coded units into frames. SendPacket(nil) signals end of
// stream. ReceiveFrame returns averr.ErrAgain when it needs more input and
// averr.ErrEOF once fully drained.
type Decoder interface {
	SendPacket(pkt Packet) error
	ReceiveFrame() (Frame, error)
	// Params reports the picture parameters of the opened decoder.
	Params() media.VideoParams
	Close()
}

// Encoder turns frames into coded units. SendFrame(nil) signals end of
// stream; ReceivePacket follows the same status convention as Decoder.
type Encoder interface {
	SendFrame(frame Frame) error
	ReceivePacket() (Packet, error)
	TimeBase() media.Rational
	Close()
}

// Codecs opens codec contexts.
type Codecs interface {
	OpenDecoder(in Input, s media.StreamInfo) (Decoder, error)
	OpenEncoder(name string, p media.VideoParams) (Encoder, error)
}

// Backend is the media library the pipeline drives.
type Backend interface {
	OpenInput(path string) (Input, error)
	NewOutput(in Input, format string) (Output, error)
	Codecs() Codecs
}

// Logger is the subset of logging.Logger the pipeline uses.
type Logger interface {
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}
