package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/backmassage/hevcmux/internal/display"
	"github.com/backmassage/hevcmux/internal/logging"
	"github.com/backmassage/hevcmux/internal/media"
	"github.com/backmassage/hevcmux/internal/planner"
	"github.com/backmassage/hevcmux/internal/probe"
)

// ProberAuto picks the TS reader for transport streams and libav otherwise.
const ProberAuto = "auto"

// ProbeFunc inspects one file.
type ProbeFunc func(ctx context.Context, path string) (*probe.ProbeResult, error)

// Probers returns the built-in probers. libavProbe is the backend's stream
// listing; it is injected so this package does not link libav.
func Probers(libavProbe func(path string) ([]media.StreamInfo, error)) map[string]ProbeFunc {
	return map[string]ProbeFunc{
		probe.SourceFFprobe: probe.Probe,
		probe.SourceTS: func(_ context.Context, path string) (*probe.ProbeResult, error) {
			return probe.ProbeTSFile(path)
		},
		probe.SourceLibav: func(_ context.Context, path string) (*probe.ProbeResult, error) {
			streams, err := libavProbe(path)
			if err != nil {
				return nil, err
			}
			return &probe.ProbeResult{
				Source:  probe.SourceLibav,
				Format:  probe.FormatInfo{Filename: path, NbStreams: len(streams)},
				Streams: streams,
			}, nil
		},
	}
}

// ProberNames lists the accepted --prober values.
var ProberNames = []string{ProberAuto, probe.SourceLibav, probe.SourceFFprobe, probe.SourceTS}

var tsExtensions = map[string]bool{
	".ts":   true,
	".m2ts": true,
	".mts":  true,
}

// ResolveProber maps "auto" (or "") to a concrete prober for path.
func ResolveProber(name, path string) string {
	if name != "" && name != ProberAuto {
		return name
	}
	if tsExtensions[strings.ToLower(filepath.Ext(path))] {
		return probe.SourceTS
	}
	return probe.SourceLibav
}

// PlanRequest describes one plan preview.
type PlanRequest struct {
	Input   string
	Prober  string
	Format  string // display.PlanText, PlanYAML or PlanJSON
	Encoder string
	Muxer   string
}

// Plan probes req.Input, builds the stream map the conversion would use and
// writes it to w.
func Plan(ctx context.Context, req PlanRequest, probers map[string]ProbeFunc, w io.Writer, log *logging.Logger) error {
	name := ResolveProber(req.Prober, req.Input)
	fn, ok := probers[name]
	if !ok {
		return fmt.Errorf("unknown prober %q (use %s)", req.Prober, strings.Join(ProberNames, ", "))
	}
	log.Debug("Probing %s with %s", req.Input, name)

	pr, err := fn(ctx, req.Input)
	if err != nil {
		return fmt.Errorf("cannot probe %s: %w", filepath.Base(req.Input), err)
	}

	smap := planner.BuildStreamMap(pr.Streams)
	p := display.BuildPlan(req.Input, name, req.Encoder, req.Muxer, smap)
	p.Warnings = pr.Warnings()
	if smap.OutputCount() == 0 {
		p.Warnings = append(p.Warnings, "no video or audio streams: the output would be empty")
	}

	if req.Format == display.PlanText || req.Format == "" {
		logFileStats(log, pr)
	}
	return display.WritePlan(w, p, req.Format)
}

// logFileStats prints the primary video line when the prober knows it.
func logFileStats(log *logging.Logger, pr *probe.ProbeResult) {
	v := pr.PrimaryVideo
	if v == nil {
		return
	}
	codec := v.Codec
	if codec == "" {
		codec = "unknown"
	}

	suffix := ""
	if pr.HDRType() != "sdr" {
		suffix += " [HDR]"
	}
	if pr.IsInterlaced() {
		suffix += " [Interlaced]"
	}

	log.Info("Video: %s | %s | %s%s", pr.Resolution(),
		display.FormatBitrateLabel(pr.VideoBitRate()/1000), codec, suffix)
}
