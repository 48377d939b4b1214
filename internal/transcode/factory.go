package transcode

import (
	"fmt"

	"github.com/backmassage/hevcmux/internal/averr"
	"github.com/backmassage/hevcmux/internal/media"
	"github.com/backmassage/hevcmux/internal/planner"
)

// createStreams defines one output stream per kept input stream, in
// ascending input order, opening a codec pair for each transcoded stream.
// On failure every codec pair opened so far is released before returning.
func createStreams(in Input, out Output, codecs Codecs, smap *planner.StreamMap, target string, log Logger) (*routeTable, error) {
	routes := newRouteTable()
	for _, e := range smap.Entries() {
		var (
			r   *route
			err error
		)
		switch e.Action {
		case planner.ActionDrop:
			log.Debug("Stream %d (%s): dropped", e.InputIndex, e.Stream.Kind)
			continue
		case planner.ActionCopy:
			r, err = copyRoute(out, e.Stream)
		case planner.ActionTranscode:
			r, err = transcodeRoute(in, out, codecs, e.Stream, target)
		}
		if err != nil {
			routes.release()
			return nil, err
		}
		if got := r.out.Index(); got != e.OutputIndex {
			r.codecs.close()
			routes.release()
			return nil, fmt.Errorf("output stream for input %d has index %d, want %d", e.InputIndex, got, e.OutputIndex)
		}
		routes.add(e.InputIndex, r)
		log.Debug("Stream %d (%s %s): %s -> output %d", e.InputIndex, e.Stream.Kind, e.Stream.CodecName, e.Action, e.OutputIndex)
	}
	return routes, nil
}

func copyRoute(out Output, s media.StreamInfo) (*route, error) {
	ost, err := out.AddCopyStream(s)
	if err != nil {
		return nil, annotate("Failed to copy codec parameters", err)
	}
	return &route{action: planner.ActionCopy, in: s, out: ost}, nil
}

func transcodeRoute(in Input, out Output, codecs Codecs, s media.StreamInfo, target string) (*route, error) {
	dec, err := createDecodeContext(codecs, in, s)
	if err != nil {
		return nil, err
	}
	enc, err := createEncodeContext(codecs, target, dec, in, s, out.GlobalHeader())
	if err != nil {
		dec.Close()
		return nil, err
	}
	pair := &codecPair{dec: dec, enc: enc}
	ost, err := out.AddEncodedStream(enc)
	if err != nil {
		pair.close()
		return nil, annotate("Failed to copy codec parameters", err)
	}
	return &route{action: planner.ActionTranscode, in: s, out: ost, codecs: pair}, nil
}

// createDecodeContext opens a decoder for the input stream's codec.
func createDecodeContext(codecs Codecs, in Input, s media.StreamInfo) (Decoder, error) {
	dec, err := codecs.OpenDecoder(in, s)
	if err != nil {
		return nil, annotate("Failed to open decode codec", err)
	}
	return dec, nil
}

// createEncodeContext opens the target encoder with the decoder's picture
// parameters and a time base of one tick per guessed frame.
func createEncodeContext(codecs Codecs, target string, dec Decoder, in Input, s media.StreamInfo, globalHeader bool) (Encoder, error) {
	p := dec.Params()
	p.TimeBase = encoderTimeBase(in.GuessFrameRate(s.Index), s)
	p.GlobalHeader = globalHeader
	if p.TimeBase.IsZero() {
		return nil, averr.New("Failed to guess frame rate")
	}
	enc, err := codecs.OpenEncoder(target, p)
	if err != nil {
		return nil, annotate("Failed to open encode codec", err)
	}
	return enc, nil
}

// encoderTimeBase inverts the guessed frame rate, falling back to the probed
// frame rate and then the stream time base when the guess is unusable.
func encoderTimeBase(guess media.Rational, s media.StreamInfo) media.Rational {
	switch {
	case !guess.IsZero():
		return guess.Invert()
	case !s.FrameRate.IsZero():
		return s.FrameRate.Invert()
	default:
		return s.TimeBase
	}
}
