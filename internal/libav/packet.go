package libav

import (
	"github.com/asticode/go-astiav"

	"github.com/backmassage/hevcmux/internal/averr"
	"github.com/backmassage/hevcmux/internal/media"
)

// Packet owns one allocated astiav packet.
type Packet struct {
	pkt *astiav.Packet
}

func allocPacket() (*Packet, error) {
	pkt := astiav.AllocPacket()
	if pkt == nil {
		return nil, averr.Wrap("Failed to allocate packet", failure(averr.ErrNoMem))
	}
	return &Packet{pkt: pkt}, nil
}

func (p *Packet) StreamIndex() int       { return p.pkt.StreamIndex() }
func (p *Packet) SetStreamIndex(idx int) { p.pkt.SetStreamIndex(idx) }
func (p *Packet) Size() int              { return p.pkt.Size() }

func (p *Packet) RescaleTs(src, dst media.Rational) {
	p.pkt.RescaleTs(toRational(src), toRational(dst))
}

// Release frees the packet. Later calls are no-ops.
func (p *Packet) Release() {
	if p.pkt != nil {
		p.pkt.Free()
		p.pkt = nil
	}
}

// Frame owns one allocated astiav frame.
type Frame struct {
	f *astiav.Frame
}

func (f *Frame) Release() {
	if f.f != nil {
		f.f.Free()
		f.f = nil
	}
}
