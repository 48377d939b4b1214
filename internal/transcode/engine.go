package transcode

// transcode submits one coded unit to the stream's decoder and pushes every
// frame it yields through the encoder. The unit is released right after the
// submit whether or not it was accepted.
func (p *pipeline) transcode(pkt Packet, r *route) error {
	err := r.codecs.dec.SendPacket(pkt)
	pkt.Release()
	if err != nil {
		return annotate("Failed to send decode packet", err)
	}
	p.stats.Decoded++
	return p.receiveFrames(r)
}

// receiveFrames pulls frames until the decoder needs input or is drained.
func (p *pipeline) receiveFrames(r *route) error {
	for {
		frame, err := r.codecs.dec.ReceiveFrame()
		switch classify(err) {
		case StatusNeedInput, StatusDrained:
			return nil
		case StatusFatal:
			return annotate("Failed to receive decode frame", err)
		}
		p.stats.Frames++
		err = p.encodeFrameAndSend(frame, r)
		frame.Release()
		if err != nil {
			return err
		}
	}
}

// encodeFrameAndSend submits frame to the encoder and writes every coded
// unit it yields. A nil frame flushes the encoder.
func (p *pipeline) encodeFrameAndSend(frame Frame, r *route) error {
	if err := r.codecs.enc.SendFrame(frame); err != nil {
		return annotate("Failed to send encode frame", err)
	}
	for {
		pkt, err := r.codecs.enc.ReceivePacket()
		switch classify(err) {
		case StatusNeedInput, StatusDrained:
			return nil
		case StatusFatal:
			return annotate("Failed to receive encode packet", err)
		}
		p.stats.Encoded++
		err = p.writePacket(pkt, r.in.TimeBase, r.out)
		pkt.Release()
		if err != nil {
			return err
		}
	}
}

// flush drains a transcoded stream at end of input: the decoder first, then
// the encoder, writing everything still buffered.
func (p *pipeline) flush(r *route) error {
	if err := r.codecs.dec.SendPacket(nil); err != nil && classify(err) != StatusDrained {
		return annotate("Failed to send decode packet", err)
	}
	if err := p.receiveFrames(r); err != nil {
		return err
	}
	err := p.encodeFrameAndSend(nil, r)
	if err != nil && classify(err) == StatusDrained {
		return nil
	}
	return err
}
