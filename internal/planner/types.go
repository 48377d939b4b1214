package planner

import "github.com/backmassage/hevcmux/internal/media"

// Action describes the per-stream processing decision.
type Action int

const (
	ActionDrop Action = iota
	ActionCopy
	ActionTranscode
)

func (a Action) String() string {
	switch a {
	case ActionCopy:
		return "copy"
	case ActionTranscode:
		return "transcode"
	default:
		return "drop"
	}
}

// Dropped is the output index recorded for streams that are not carried.
const Dropped = -1

// Entry is the decision for one input stream.
type Entry struct {
	InputIndex  int
	OutputIndex int // Dropped when Action is ActionDrop.
	Action      Action
	Stream      media.StreamInfo
}

// StreamMap holds one Entry per input stream, in input-index order. It is
// built once before any coded unit is read and is read-only afterwards.
type StreamMap struct {
	entries []Entry
	kept    int
}

// Len returns the number of input streams covered by the map.
func (m *StreamMap) Len() int { return len(m.entries) }

// OutputCount returns the number of streams carried to the output.
func (m *StreamMap) OutputCount() int { return m.kept }

// Lookup returns the entry for an input stream index. Indices outside the
// probed range report false, which callers treat like a dropped stream.
func (m *StreamMap) Lookup(inputIndex int) (Entry, bool) {
	if inputIndex < 0 || inputIndex >= len(m.entries) {
		return Entry{}, false
	}
	return m.entries[inputIndex], true
}

// OutputIndex returns the dense output index for inputIndex, or Dropped.
func (m *StreamMap) OutputIndex(inputIndex int) int {
	e, ok := m.Lookup(inputIndex)
	if !ok {
		return Dropped
	}
	return e.OutputIndex
}

// Entries returns a copy of all entries in input-index order.
func (m *StreamMap) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Count returns how many entries carry action a.
func (m *StreamMap) Count(a Action) int {
	n := 0
	for _, e := range m.entries {
		if e.Action == a {
			n++
		}
	}
	return n
}
