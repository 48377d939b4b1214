package probe

import "github.com/backmassage/hevcmux/internal/media"

// Warnings lists properties of the input that the conversion does not
// carry over: the video is re-encoded without deinterlacing or HDR
// signalling.
func (p *ProbeResult) Warnings() []string {
	var w []string
	if p.IsInterlaced() {
		w = append(w, "video is interlaced and will be encoded as-is (no deinterlacing)")
	}
	if p.HDRType() != "sdr" {
		w = append(w, "video carries HDR metadata that the encoder is not configured to preserve")
	}
	if p.IsEdgeSafeHEVC() {
		w = append(w, "video is already browser-safe HEVC and will be re-encoded anyway")
	}
	if p.Count(media.KindOther) > 0 {
		w = append(w, "subtitle, data and attachment streams are dropped")
	}
	return w
}
