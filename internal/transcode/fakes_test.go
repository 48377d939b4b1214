package transcode

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"sync"

	"github.com/backmassage/hevcmux/internal/averr"
	"github.com/backmassage/hevcmux/internal/media"
)

// ledger counts releases per allocated object so tests can assert every
// object was released exactly once.
type ledger struct {
	mu       sync.Mutex
	released map[string]int
	order    []string
}

func newLedger() *ledger { return &ledger{released: make(map[string]int)} }

func (l *ledger) alloc(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.released[name]; !ok {
		l.released[name] = 0
		l.order = append(l.order, name)
	}
}

func (l *ledger) release(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.released[name]++
}

// leaks returns objects not released exactly once.
func (l *ledger) leaks() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var bad []string
	for _, name := range l.order {
		if n := l.released[name]; n != 1 {
			bad = append(bad, fmt.Sprintf("%s released %d times", name, n))
		}
	}
	return bad
}

// frames returns every frame the decoders handed out.
func (l *ledger) frames() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, name := range l.order {
		if strings.Contains(name, "/frame") {
			out = append(out, name)
		}
	}
	return out
}

// Fixed libav messages for the codes the fakes fail with.
var (
	errNoEntry         = averr.NewStatus(averr.Code(-2), "No such file or directory")
	errIO              = averr.NewStatus(averr.ErrIO, "Input/output error")
	errInvalidArg      = averr.NewStatus(averr.ErrInvalidArg, "Invalid argument")
	errInvalidData     = averr.NewStatus(averr.ErrInvalidData, "Invalid data found when processing input")
	errNoMem           = averr.NewStatus(averr.ErrNoMem, "Cannot allocate memory")
	errExternal        = averr.NewStatus(averr.ErrExternal, "Generic error in an external library")
	errMuxerNotFound   = averr.NewStatus(averr.ErrMuxerNotFound, "Muxer not found")
	errDecoderNotFound = averr.NewStatus(averr.ErrDecoderNotFound, "Decoder not found")
	errEncoderNotFound = averr.NewStatus(averr.ErrEncoderNotFound, "Encoder not found")
)

// noPTS matches libav's AV_NOPTS_VALUE.
const noPTS int64 = math.MinInt64

// rescale converts ts from src to dst the way av_rescale_q does: rounding to
// nearest with halves away from zero, noPTS and unusable time bases passing
// through.
func rescale(ts int64, src, dst media.Rational) int64 {
	if ts == noPTS || src.IsZero() || dst.IsZero() {
		return ts
	}
	num := new(big.Int).Mul(big.NewInt(ts), big.NewInt(int64(src.Num)*int64(dst.Den)))
	den := big.NewInt(int64(src.Den) * int64(dst.Num))
	if den.Sign() < 0 {
		num.Neg(num)
		den.Neg(den)
	}
	half := new(big.Int).Rsh(den, 1)
	if num.Sign() >= 0 {
		num.Add(num, half)
	} else {
		num.Sub(num, half)
	}
	q := new(big.Int).Quo(num, den)
	if !q.IsInt64() {
		return noPTS
	}
	return q.Int64()
}

// --- Packet / Frame ---

type fakePacket struct {
	name    string
	stream  int
	pts     int64
	dts     int64
	size    int
	payload []byte
	l       *ledger
}

func newPacket(l *ledger, name string, stream int, pts int64, size int) *fakePacket {
	l.alloc(name)
	payload := make([]byte, size)
	for i := range payload {
		payload[i] = byte(int(pts) + stream + i)
	}
	return &fakePacket{name: name, stream: stream, pts: pts, dts: pts, size: size, payload: payload, l: l}
}

func (p *fakePacket) StreamIndex() int       { return p.stream }
func (p *fakePacket) SetStreamIndex(idx int) { p.stream = idx }
func (p *fakePacket) Size() int              { return p.size }
func (p *fakePacket) Release()               { p.l.release(p.name) }
func (p *fakePacket) RescaleTs(src, dst media.Rational) {
	p.pts = rescale(p.pts, src, dst)
	p.dts = rescale(p.dts, src, dst)
}

type fakeFrame struct {
	name string
	pts  int64
	l    *ledger
}

func (f *fakeFrame) Release() { f.l.release(f.name) }

// --- Input ---

type fakeInput struct {
	streams   []media.StreamInfo
	packets   []*fakePacket
	pos       int
	frameRate media.Rational
	readErr   error // returned instead of the packet at readErrAt
	readErrAt int
	closed    int
}

func (in *fakeInput) Streams() []media.StreamInfo { return in.streams }

func (in *fakeInput) ReadPacket() (Packet, error) {
	if in.readErr != nil && in.pos == in.readErrAt {
		return nil, in.readErr
	}
	if in.pos >= len(in.packets) {
		return nil, averr.ErrEOF
	}
	p := in.packets[in.pos]
	in.pos++
	return p, nil
}

func (in *fakeInput) GuessFrameRate(int) media.Rational { return in.frameRate }
func (in *fakeInput) Close() error                      { in.closed++; return nil }

// --- Output ---

type fakeOutStream struct {
	idx int
	tb  media.Rational
}

func (s *fakeOutStream) Index() int               { return s.idx }
func (s *fakeOutStream) TimeBase() media.Rational { return s.tb }

type written struct {
	stream  int
	pts     int64
	size    int
	payload []byte
}

type fakeOutput struct {
	streams []*fakeOutStream
	events  []string
	writes  []written
	global  bool

	addErr     error // returned by the addErrAt-th AddXxxStream call
	addErrAt   int
	openErr    error
	headerErr  error
	writeErr   error // returned by the writeErrAt-th WritePacket call (0-based)
	writeErrAt int
	trailerErr error

	opened int
	closed int
}

func (o *fakeOutput) add(tb media.Rational) (OutputStream, error) {
	if o.addErr != nil && len(o.streams) == o.addErrAt {
		return nil, o.addErr
	}
	s := &fakeOutStream{idx: len(o.streams), tb: tb}
	o.streams = append(o.streams, s)
	return s, nil
}

func (o *fakeOutput) AddCopyStream(src media.StreamInfo) (OutputStream, error) {
	return o.add(src.TimeBase)
}

func (o *fakeOutput) AddEncodedStream(enc Encoder) (OutputStream, error) {
	return o.add(enc.TimeBase())
}

func (o *fakeOutput) GlobalHeader() bool { return o.global }

func (o *fakeOutput) Open(string) error {
	if o.openErr != nil {
		return o.openErr
	}
	o.opened++
	o.events = append(o.events, "open")
	return nil
}

func (o *fakeOutput) WriteHeader() error {
	if o.headerErr != nil {
		return o.headerErr
	}
	o.events = append(o.events, "header")
	return nil
}

func (o *fakeOutput) WritePacket(pkt Packet) error {
	if o.writeErr != nil && len(o.writes) == o.writeErrAt {
		return o.writeErr
	}
	fp := pkt.(*fakePacket)
	o.writes = append(o.writes, written{
		stream:  fp.stream,
		pts:     fp.pts,
		size:    fp.size,
		payload: append([]byte(nil), fp.payload...),
	})
	o.events = append(o.events, "packet")
	return nil
}

func (o *fakeOutput) WriteTrailer() error {
	if o.trailerErr != nil {
		return o.trailerErr
	}
	o.events = append(o.events, "trailer")
	return nil
}

func (o *fakeOutput) Close() error { o.closed++; return nil }

// --- Codecs ---

// fakeDecoder turns each packet into one frame, holding back `delay` frames
// until it is flushed.
type fakeDecoder struct {
	name     string
	l        *ledger
	delay    int
	queue    []int64
	draining bool
	sendErr  error
	recvErr  error
	params   media.VideoParams
	n        int
}

func (d *fakeDecoder) SendPacket(pkt Packet) error {
	if d.sendErr != nil {
		return d.sendErr
	}
	if pkt == nil {
		if d.draining {
			return averr.ErrEOF
		}
		d.draining = true
		return nil
	}
	d.queue = append(d.queue, pkt.(*fakePacket).pts)
	return nil
}

func (d *fakeDecoder) ReceiveFrame() (Frame, error) {
	if d.recvErr != nil {
		return nil, d.recvErr
	}
	if len(d.queue) == 0 || (!d.draining && len(d.queue) <= d.delay) {
		if d.draining {
			return nil, averr.ErrEOF
		}
		return nil, averr.ErrAgain
	}
	pts := d.queue[0]
	d.queue = d.queue[1:]
	name := fmt.Sprintf("%s/frame%d", d.name, d.n)
	d.n++
	d.l.alloc(name)
	return &fakeFrame{name: name, pts: pts, l: d.l}, nil
}

func (d *fakeDecoder) Params() media.VideoParams { return d.params }
func (d *fakeDecoder) Close()                    { d.l.release(d.name) }

type fakeEncoder struct {
	name     string
	l        *ledger
	delay    int
	queue    []int64
	draining bool
	tb       media.Rational
	params   media.VideoParams
	sendErr  error
	recvErr  error
	n        int
}

func (e *fakeEncoder) SendFrame(frame Frame) error {
	if e.sendErr != nil {
		return e.sendErr
	}
	if frame == nil {
		if e.draining {
			return averr.ErrEOF
		}
		e.draining = true
		return nil
	}
	e.queue = append(e.queue, frame.(*fakeFrame).pts)
	return nil
}

func (e *fakeEncoder) ReceivePacket() (Packet, error) {
	if e.recvErr != nil {
		return nil, e.recvErr
	}
	if len(e.queue) == 0 || (!e.draining && len(e.queue) <= e.delay) {
		if e.draining {
			return nil, averr.ErrEOF
		}
		return nil, averr.ErrAgain
	}
	pts := e.queue[0]
	e.queue = e.queue[1:]
	name := fmt.Sprintf("%s/pkt%d", e.name, e.n)
	e.n++
	return newPacket(e.l, name, 0, pts, 100), nil
}

func (e *fakeEncoder) TimeBase() media.Rational { return e.tb }
func (e *fakeEncoder) Close()                   { e.l.release(e.name) }

type fakeCodecs struct {
	l            *ledger
	decDelay     int
	encDelay     int
	decoders     []*fakeDecoder
	encoders     []*fakeEncoder
	decErr       error
	encErr       error // returned by the encErrAt-th OpenEncoder call
	encErrAt     int
	decSendErr   error
	decRecvErr   error
	encSendErr   error
	encRecvErr   error
	encoderNames []string
}

func (c *fakeCodecs) OpenDecoder(_ Input, s media.StreamInfo) (Decoder, error) {
	if c.decErr != nil {
		return nil, c.decErr
	}
	d := &fakeDecoder{
		name:    fmt.Sprintf("dec%d", s.Index),
		l:       c.l,
		delay:   c.decDelay,
		sendErr: c.decSendErr,
		recvErr: c.decRecvErr,
		params: media.VideoParams{
			Width: s.Width, Height: s.Height,
			PixelFormat: s.PixelFormat, SampleAspectRatio: s.SampleAspectRatio,
		},
	}
	c.l.alloc(d.name)
	c.decoders = append(c.decoders, d)
	return d, nil
}

func (c *fakeCodecs) OpenEncoder(name string, p media.VideoParams) (Encoder, error) {
	c.encoderNames = append(c.encoderNames, name)
	if c.encErr != nil && len(c.encoderNames)-1 == c.encErrAt {
		return nil, c.encErr
	}
	e := &fakeEncoder{
		name:    fmt.Sprintf("enc%d", len(c.encoders)),
		l:       c.l,
		delay:   c.encDelay,
		tb:      p.TimeBase,
		params:  p,
		sendErr: c.encSendErr,
		recvErr: c.encRecvErr,
	}
	c.l.alloc(e.name)
	c.encoders = append(c.encoders, e)
	return e, nil
}

// --- Backend ---

type fakeBackend struct {
	in      *fakeInput
	out     *fakeOutput
	codecs  *fakeCodecs
	openErr error
	newErr  error
}

func (b *fakeBackend) OpenInput(string) (Input, error) {
	if b.openErr != nil {
		return nil, b.openErr
	}
	return b.in, nil
}

func (b *fakeBackend) NewOutput(Input, string) (Output, error) {
	if b.newErr != nil {
		return nil, b.newErr
	}
	return b.out, nil
}

func (b *fakeBackend) Codecs() Codecs { return b.codecs }
