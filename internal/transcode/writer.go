package transcode

import "github.com/backmassage/hevcmux/internal/media"

// writePacket tags pkt with the output stream index, rebases its timestamps
// from src to the output stream's time base and hands it to the muxer.
// The caller keeps ownership of pkt.
func (p *pipeline) writePacket(pkt Packet, src media.Rational, out OutputStream) error {
	pkt.SetStreamIndex(out.Index())
	pkt.RescaleTs(src, out.TimeBase())
	size := pkt.Size()
	if err := p.out.WritePacket(pkt); err != nil {
		return annotate("Failed to write frame", err)
	}
	p.stats.Written++
	p.stats.BytesWritten += int64(size)
	return nil
}

// copy forwards a pass-through unit unchanged apart from its stream index
// and timestamps, then releases it.
func (p *pipeline) copy(pkt Packet, r *route) error {
	err := p.writePacket(pkt, r.in.TimeBase, r.out)
	pkt.Release()
	if err != nil {
		return err
	}
	p.stats.Copied++
	return nil
}
