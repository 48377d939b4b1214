package transcode

import "time"

// Stats counts what one run moved through the pipeline.
type Stats struct {
	OutputStreams int
	Transcoded    int // streams
	Copied        int // units forwarded unchanged
	Read          int
	Dropped       int
	Decoded       int // units accepted by a decoder
	Frames        int
	Encoded       int
	Written       int
	BytesWritten  int64
	Elapsed       time.Duration
}
