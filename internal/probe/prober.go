package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/backmassage/hevcmux/internal/media"
)

// Probe runs a single ffprobe JSON call against path and returns the
// parsed result.
func Probe(ctx context.Context, path string) (*ProbeResult, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a ProbeResult.
func ParseJSON(data []byte) (*ProbeResult, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildResult(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename       string            `json:"filename"`
	NbStreams      int               `json:"nb_streams"`
	FormatName     string            `json:"format_name"`
	FormatLongName string            `json:"format_long_name"`
	Duration       string            `json:"duration"`
	Size           string            `json:"size"`
	BitRate        string            `json:"bit_rate"`
	Tags           map[string]string `json:"tags"`
}

type ffprobeStream struct {
	Index             int               `json:"index"`
	CodecName         string            `json:"codec_name"`
	CodecType         string            `json:"codec_type"`
	Profile           string            `json:"profile"`
	PixFmt            string            `json:"pix_fmt"`
	Width             int               `json:"width"`
	Height            int               `json:"height"`
	SampleAspectRatio string            `json:"sample_aspect_ratio"`
	BitRate           string            `json:"bit_rate"`
	FieldOrder        string            `json:"field_order"`
	ColorTransfer     string            `json:"color_transfer"`
	ColorPrimaries    string            `json:"color_primaries"`
	ColorSpace        string            `json:"color_space"`
	AvgFrameRate      string            `json:"avg_frame_rate"`
	TimeBase          string            `json:"time_base"`
	SampleFmt         string            `json:"sample_fmt"`
	Channels          int               `json:"channels"`
	SampleRate        string            `json:"sample_rate"`
	Disposition       map[string]int    `json:"disposition"`
	Tags              map[string]string `json:"tags"`
}

// --- Conversion from wire types to domain types ---

func buildResult(raw *ffprobeOutput) *ProbeResult {
	pr := &ProbeResult{
		Source: SourceFFprobe,
		Format: convertFormat(&raw.Format),
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		pr.Streams = append(pr.Streams, convertStream(s))
		if s.CodecType == "video" {
			vs := convertVideo(s)
			if !vs.IsAttachedPic && pr.PrimaryVideo == nil {
				pr.PrimaryVideo = &vs
			}
		}
	}
	return pr
}

func convertFormat(f *ffprobeFormat) FormatInfo {
	return FormatInfo{
		Filename:       f.Filename,
		NbStreams:      f.NbStreams,
		FormatName:     f.FormatName,
		FormatLongName: f.FormatLongName,
		Duration:       parseFloat(f.Duration),
		Size:           parseInt64(f.Size),
		BitRate:        parseInt64(f.BitRate),
		Tags:           f.Tags,
	}
}

func convertStream(s *ffprobeStream) media.StreamInfo {
	return media.StreamInfo{
		Index:             s.Index,
		Kind:              media.ParseKind(s.CodecType),
		CodecName:         s.CodecName,
		Width:             s.Width,
		Height:            s.Height,
		PixelFormat:       media.PixelFormat{ID: -1, Name: s.PixFmt},
		SampleFormat:      s.SampleFmt,
		SampleRate:        parseInt(s.SampleRate),
		Channels:          s.Channels,
		BitRate:           streamBitRate(s),
		SampleAspectRatio: parseRational(s.SampleAspectRatio, ":"),
		TimeBase:          parseRational(s.TimeBase, "/"),
		FrameRate:         parseRational(s.AvgFrameRate, "/"),
		Language:          s.Tags["language"],
	}
}

func convertVideo(s *ffprobeStream) VideoStream {
	return VideoStream{
		Index:          s.Index,
		Codec:          s.CodecName,
		Profile:        s.Profile,
		PixFmt:         s.PixFmt,
		Width:          s.Width,
		Height:         s.Height,
		BitRate:        streamBitRate(s),
		FieldOrder:     s.FieldOrder,
		ColorTransfer:  s.ColorTransfer,
		ColorPrimaries: s.ColorPrimaries,
		ColorSpace:     s.ColorSpace,
		IsAttachedPic:  s.Disposition["attached_pic"] == 1,
	}
}

// streamBitRate prefers the bit_rate field and falls back to the
// Matroska BPS statistics tag.
func streamBitRate(s *ffprobeStream) int64 {
	if br := parseInt64(s.BitRate); br > 0 {
		return br
	}
	return parseInt64(s.Tags["BPS"])
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	n, _ := strconv.Atoi(s)
	return n
}

// parseRational reads "num<sep>den"; anything malformed is the zero rational.
func parseRational(s, sep string) media.Rational {
	num, den, ok := strings.Cut(strings.TrimSpace(s), sep)
	if !ok {
		return media.Rational{}
	}
	return media.NewRational(parseInt(num), parseInt(den))
}
