package pipeline

import (
	"github.com/backmassage/hevcmux/internal/probe"
	"github.com/backmassage/hevcmux/internal/transcode"
)

// Result is what one Convert call produced.
type Result struct {
	RunID       string
	Stats       transcode.Stats
	InputBytes  int64
	OutputBytes int64
	// Output is the read-back summary of the written file, nil when
	// verification was disabled, skipped or failed.
	Output *probe.MP4Summary
}

// SpaceSaved returns the byte difference between input and output.
// Positive means the output is smaller; negative means it grew.
func (r *Result) SpaceSaved() int64 {
	return r.InputBytes - r.OutputBytes
}
