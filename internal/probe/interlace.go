package probe

import "strings"

// IsInterlaced returns true if the primary video stream's field_order
// indicates interlaced content (tt, bb, tb, bt).
func (p *ProbeResult) IsInterlaced() bool {
	if p.PrimaryVideo == nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(p.PrimaryVideo.FieldOrder)) {
	case "tt", "bb", "tb", "bt":
		return true
	}
	return false
}

// IsEdgeSafeHEVC returns true if the primary video stream is already HEVC
// with a browser-safe profile (main, main 10) and pixel format (yuv420p,
// yuv420p10le).
func (p *ProbeResult) IsEdgeSafeHEVC() bool {
	if p.PrimaryVideo == nil || p.PrimaryVideo.Codec != "hevc" {
		return false
	}

	profile := strings.ToLower(strings.TrimSpace(p.PrimaryVideo.Profile))
	switch profile {
	case "main", "main 10", "main10":
	default:
		return false
	}

	pf := strings.ToLower(strings.TrimSpace(p.PrimaryVideo.PixFmt))
	return pf == "yuv420p" || pf == "yuv420p10le"
}
