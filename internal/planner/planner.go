package planner

import (
	"sort"

	"github.com/backmassage/hevcmux/internal/media"
)

// ClassifyKind returns the action for a stream of kind k: video is
// re-encoded, audio is passed through, everything else is dropped.
func ClassifyKind(k media.Kind) Action {
	switch k {
	case media.KindVideo:
		return ActionTranscode
	case media.KindAudio:
		return ActionCopy
	default:
		return ActionDrop
	}
}

// BuildStreamMap classifies every stream and assigns dense output indices.
//
// Streams are visited in ascending input index regardless of the order they
// are passed in. Kept streams receive output indices 0..k-1 in that order;
// dropped streams record [Dropped]. Input indices are expected to be the
// contiguous range 0..n-1 a demuxer reports; gaps are filled with dropped
// entries so Lookup stays a direct index. When two descriptors share an
// index only the first one passed in is mapped.
func BuildStreamMap(streams []media.StreamInfo) *StreamMap {
	sorted := make([]media.StreamInfo, len(streams))
	copy(sorted, streams)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	n := 0
	if len(sorted) > 0 {
		n = sorted[len(sorted)-1].Index + 1
	}
	m := &StreamMap{entries: make([]Entry, n)}
	for i := range m.entries {
		m.entries[i] = Entry{InputIndex: i, OutputIndex: Dropped, Action: ActionDrop}
	}

	next := 0
	for i, s := range sorted {
		if s.Index < 0 || (i > 0 && sorted[i-1].Index == s.Index) {
			continue
		}
		e := Entry{InputIndex: s.Index, OutputIndex: Dropped, Action: ClassifyKind(s.Kind), Stream: s}
		if e.Action != ActionDrop {
			e.OutputIndex = next
			next++
		}
		m.entries[s.Index] = e
	}
	m.kept = next
	return m
}
