package probe

import (
	"fmt"
	"os"

	"github.com/abema/go-mp4"
)

// MP4Track summarizes one track of a written MP4 file.
type MP4Track struct {
	ID        uint32
	Codec     string
	Timescale uint32
	Duration  float64
	Samples   int
}

// MP4Summary is what VerifyMP4 read back from an output file.
type MP4Summary struct {
	MajorBrand string
	FastStart  bool
	Duration   float64
	Tracks     []MP4Track
}

// VerifyMP4 parses the box structure of the MP4 file at path and reports
// its tracks. Fragmented files count their samples across all fragments.
func VerifyMP4(path string) (*MP4Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := mp4.Probe(f)
	if err != nil {
		return nil, fmt.Errorf("parsing mp4 %q: %w", path, err)
	}
	entries, err := sampleEntries(f)
	if err != nil {
		return nil, fmt.Errorf("parsing mp4 %q: %w", path, err)
	}

	sum := &MP4Summary{
		MajorBrand: string(info.MajorBrand[:]),
		FastStart:  info.FastStart,
	}
	if info.Timescale > 0 {
		sum.Duration = float64(info.Duration) / float64(info.Timescale)
	}
	for i, tr := range info.Tracks {
		t := MP4Track{
			ID:        tr.TrackID,
			Codec:     codecName(tr.Codec),
			Timescale: tr.Timescale,
			Samples:   len(tr.Samples),
		}
		if i < len(entries) && entries[i] != "" {
			t.Codec = entries[i]
		}
		if tr.Timescale > 0 {
			t.Duration = float64(tr.Duration) / float64(tr.Timescale)
		}
		for _, seg := range info.Segments {
			if seg.TrackID == tr.TrackID {
				t.Samples += int(seg.SampleCount)
			}
		}
		sum.Tracks = append(sum.Tracks, t)
	}
	return sum, nil
}

// sampleEntries returns the first sample entry type (avc1, hvc1, mp4a...)
// of every trak, in file order.
func sampleEntries(f *os.File) ([]string, error) {
	traks, err := mp4.ExtractBoxes(f, nil, []mp4.BoxPath{{mp4.BoxTypeMoov(), mp4.BoxTypeTrak()}})
	if err != nil {
		return nil, err
	}
	out := make([]string, len(traks))
	for i, trak := range traks {
		bis, err := mp4.ExtractBoxes(f, trak, []mp4.BoxPath{{
			mp4.BoxTypeMdia(), mp4.BoxTypeMinf(), mp4.BoxTypeStbl(), mp4.BoxTypeStsd(), mp4.BoxTypeAny(),
		}})
		if err != nil {
			return nil, err
		}
		if len(bis) > 0 {
			out[i] = bis[0].Type.String()
		}
	}
	return out, nil
}

func codecName(c mp4.Codec) string {
	switch c {
	case mp4.CodecAVC1:
		return "avc1"
	case mp4.CodecMP4A:
		return "mp4a"
	default:
		return "unknown"
	}
}
