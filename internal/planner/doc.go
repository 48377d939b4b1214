// Package planner decides, per input stream, whether it is dropped, copied
// through, or transcoded, and assigns each kept stream a dense output index.
//
// Decision matrix:
//   - video  -> transcode with the fixed target encoder
//   - audio  -> copy (coded units forwarded untouched)
//   - other  -> drop (subtitles, data, attachments)
//
// The resulting StreamMap is consumed by the transcode pipeline and by the
// plan command for previews.
package planner
