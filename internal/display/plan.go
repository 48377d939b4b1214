package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/backmassage/hevcmux/internal/media"
	"github.com/backmassage/hevcmux/internal/planner"
	"github.com/backmassage/hevcmux/internal/term"
)

// Plan formats accepted by [WritePlan].
const (
	PlanText = "text"
	PlanYAML = "yaml"
	PlanJSON = "json"
)

// PlanRow is one input stream in a plan preview.
type PlanRow struct {
	Input    int    `json:"input" yaml:"input"`
	Kind     string `json:"kind" yaml:"kind"`
	Codec    string `json:"codec" yaml:"codec"`
	Action   string `json:"action" yaml:"action"`
	Output   *int   `json:"output,omitempty" yaml:"output,omitempty"`
	Detail   string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// Plan is the stream map of one input, as shown by the plan command.
type Plan struct {
	Input   string    `json:"input" yaml:"input"`
	Prober  string    `json:"prober" yaml:"prober"`
	Encoder string    `json:"encoder" yaml:"encoder"`
	Format  string    `json:"format" yaml:"format"`
	Outputs int       `json:"outputs" yaml:"outputs"`
	Streams []PlanRow `json:"streams" yaml:"streams"`
	// Warnings lists input properties the conversion does not carry over.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// BuildPlan turns a stream map into a printable plan.
func BuildPlan(input, prober, encoder, format string, smap *planner.StreamMap) Plan {
	p := Plan{Input: input, Prober: prober, Encoder: encoder, Format: format, Outputs: smap.OutputCount()}
	for _, e := range smap.Entries() {
		row := PlanRow{
			Input:    e.InputIndex,
			Kind:     e.Stream.Kind.String(),
			Codec:    e.Stream.CodecName,
			Action:   e.Action.String(),
			Detail:   streamDetail(e.Stream),
			Language: e.Stream.Language,
		}
		if row.Codec == "" {
			row.Codec = "unknown"
		}
		if e.OutputIndex != planner.Dropped {
			idx := e.OutputIndex
			row.Output = &idx
		}
		if e.Action == planner.ActionTranscode {
			row.Detail = strings.TrimSpace(row.Detail + " -> " + encoder)
		}
		p.Streams = append(p.Streams, row)
	}
	return p
}

func streamDetail(s media.StreamInfo) string {
	var parts []string
	switch s.Kind {
	case media.KindVideo:
		if s.Width > 0 && s.Height > 0 {
			parts = append(parts, fmt.Sprintf("%dx%d", s.Width, s.Height))
		}
		if s.PixelFormat.Name != "" {
			parts = append(parts, s.PixelFormat.Name)
		}
		if !s.FrameRate.IsZero() {
			parts = append(parts, fmt.Sprintf("%.4g fps", s.FrameRate.Float64()))
		}
	case media.KindAudio:
		if s.SampleRate > 0 {
			parts = append(parts, fmt.Sprintf("%d Hz", s.SampleRate))
		}
		if s.Channels > 0 {
			parts = append(parts, fmt.Sprintf("%dch", s.Channels))
		}
	}
	if s.BitRate > 0 {
		parts = append(parts, FormatBitrateLabel(s.BitRate/1000))
	}
	return strings.Join(parts, " ")
}

// WritePlan renders p to w as text, yaml or json.
func WritePlan(w io.Writer, p Plan, format string) error {
	switch format {
	case PlanYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encoding plan as yaml: %w", err)
		}
		return enc.Close()
	case PlanJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encoding plan as json: %w", err)
		}
		return nil
	case PlanText, "":
		return writePlanText(w, p)
	default:
		return fmt.Errorf("unknown plan format %q (use text, yaml or json)", format)
	}
}

func writePlanText(w io.Writer, p Plan) error {
	fmt.Fprintf(w, "Input:   %s (probed with %s)\n", p.Input, p.Prober)
	fmt.Fprintf(w, "Output:  %s, video -> %s, %d stream(s)\n\n", strings.ToUpper(p.Format), p.Encoder, p.Outputs)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "IN\tKIND\tCODEC\tACTION\tOUT\tDETAIL")
	for _, r := range p.Streams {
		out := "-"
		if r.Output != nil {
			out = fmt.Sprintf("%d", *r.Output)
		}
		detail := r.Detail
		if r.Language != "" {
			detail = strings.TrimSpace(detail + " [" + r.Language + "]")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.Input, r.Kind, r.Codec, actionLabel(r.Action), out, detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(p.Warnings) > 0 {
		fmt.Fprintln(w)
		for _, msg := range p.Warnings {
			fmt.Fprintf(w, "%s %s\n", term.Yellow.Sprint("warning:"), msg)
		}
	}
	return nil
}

// actionLabel colors an action name.
func actionLabel(action string) string {
	switch action {
	case planner.ActionTranscode.String():
		return term.Yellow.Sprint(action)
	case planner.ActionCopy.String():
		return term.Green.Sprint(action)
	default:
		return term.Red.Sprint(action)
	}
}
