// Package transcode runs one input container through the stream map into an
// output container: pass-through streams are rebased and forwarded, video
// streams go through a decoder and the target encoder.
//
// The pipeline is single-threaded. Every coded unit, frame and codec context
// it allocates is released exactly once, on success and on every failure
// path, and the first failure ends the run.
package transcode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/backmassage/hevcmux/internal/averr"
	"github.com/backmassage/hevcmux/internal/planner"
)

// Fixed policy.
const (
	DefaultEncoder = "libx265"
	DefaultFormat  = "mp4"
)

// ErrInterrupted is returned when the context is cancelled mid-run.
var ErrInterrupted = errors.New("interrupted")

// Job describes one conversion.
type Job struct {
	InputPath  string
	OutputPath string
	Encoder    string // DefaultEncoder when empty
	Format     string // DefaultFormat when empty
	// Flush drains decoders and encoders at end of input. Without it the
	// frames still buffered in the codecs are dropped.
	Flush bool
}

type pipeline struct {
	backend Backend
	job     Job
	log     Logger

	in     Input
	out    Output
	smap   *planner.StreamMap
	routes *routeTable
	stats  Stats
}

// Run converts job.InputPath into job.OutputPath. A partial output file is
// left on disk when it fails after the sink was opened.
func Run(ctx context.Context, backend Backend, job Job, log Logger) (Stats, error) {
	if job.Encoder == "" {
		job.Encoder = DefaultEncoder
	}
	if job.Format == "" {
		job.Format = DefaultFormat
	}
	if log == nil {
		log = nopLogger{}
	}
	p := &pipeline{backend: backend, job: job, log: log}

	start := time.Now()
	err := p.run(ctx)
	p.stats.Elapsed = time.Since(start)
	return p.stats, err
}

// run opens both containers and tears everything down on the way out.
func (p *pipeline) run(ctx context.Context) error {
	// --- Open and probe input ---
	in, err := p.backend.OpenInput(p.job.InputPath)
	if err != nil {
		return annotate("Failed to open input file", err)
	}
	defer in.Close()
	p.in = in

	streams := in.Streams()
	p.smap = planner.BuildStreamMap(streams)
	p.log.Debug("Input has %d streams, %d kept", len(streams), p.smap.OutputCount())

	// --- Allocate output ---
	out, err := p.backend.NewOutput(in, p.job.Format)
	if err != nil {
		return annotate("Failed to allocate output context", err)
	}
	defer out.Close()
	p.out = out

	// --- Stream map and codec contexts ---
	routes, err := createStreams(in, out, p.backend.Codecs(), p.smap, p.job.Encoder, p.log)
	if err != nil {
		return err
	}
	defer routes.release()
	p.routes = routes
	p.stats.OutputStreams = p.smap.OutputCount()
	p.stats.Transcoded = len(routes.transcoded())

	return p.writeOutput(ctx)
}

// writeOutput opens the sink and writes header, body and trailer.
func (p *pipeline) writeOutput(ctx context.Context) error {
	if err := p.out.Open(p.job.OutputPath); err != nil {
		return annotate("Failed to open output file", err)
	}
	if err := p.out.WriteHeader(); err != nil {
		return annotate("Failed to write header", err)
	}
	if err := p.writeBody(ctx); err != nil {
		return err
	}
	if err := p.out.WriteTrailer(); err != nil {
		return annotate("Failed to write trailer", err)
	}
	return nil
}

// writeBody dispatches every coded unit in demuxer order until the input is
// exhausted, then drains the transcoded streams when flushing is enabled.
func (p *pipeline) writeBody(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrInterrupted, err)
		}

		pkt, err := p.in.ReadPacket()
		if err != nil {
			if averr.IsEOF(err) {
				break
			}
			return annotate("Failed to read frame", err)
		}
		p.stats.Read++

		r := p.routes.lookup(pkt.StreamIndex())
		if r == nil {
			pkt.Release()
			p.stats.Dropped++
			continue
		}

		switch r.action {
		case planner.ActionCopy:
			err = p.copy(pkt, r)
		case planner.ActionTranscode:
			err = p.transcode(pkt, r)
		}
		if err != nil {
			return err
		}
	}

	if !p.job.Flush {
		return nil
	}
	for _, idx := range p.routes.transcoded() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrInterrupted, err)
		}
		if err := p.flush(p.routes.lookup(idx)); err != nil {
			return err
		}
		p.log.Debug("Stream %d: drained", idx)
	}
	return nil
}
