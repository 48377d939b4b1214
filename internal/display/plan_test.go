package display

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/backmassage/hevcmux/internal/media"
	"github.com/backmassage/hevcmux/internal/planner"
)

func samplePlan() Plan {
	smap := planner.BuildStreamMap([]media.StreamInfo{
		{Index: 0, Kind: media.KindVideo, CodecName: "h264", Width: 1920, Height: 1080,
			PixelFormat: media.PixelFormat{Name: "yuv420p"}, FrameRate: media.NewRational(25, 1)},
		{Index: 1, Kind: media.KindAudio, CodecName: "aac", SampleRate: 48000, Channels: 2, Language: "eng"},
		{Index: 2, Kind: media.KindOther, CodecName: "subrip"},
	})
	return BuildPlan("movie.mkv", "libav", "libx265", "mp4", smap)
}

func TestBuildPlan(t *testing.T) {
	p := samplePlan()
	require.Len(t, p.Streams, 3)
	assert.Equal(t, 2, p.Outputs)

	assert.Equal(t, "transcode", p.Streams[0].Action)
	require.NotNil(t, p.Streams[0].Output)
	assert.Equal(t, 0, *p.Streams[0].Output)
	assert.Equal(t, "1920x1080 yuv420p 25 fps -> libx265", p.Streams[0].Detail)

	assert.Equal(t, "copy", p.Streams[1].Action)
	assert.Equal(t, "48000 Hz 2ch", p.Streams[1].Detail)

	assert.Equal(t, "drop", p.Streams[2].Action)
	assert.Nil(t, p.Streams[2].Output)
}

func TestWritePlan_Formats(t *testing.T) {
	color.NoColor = true
	p := samplePlan()

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePlan(&buf, p, PlanText))
		out := buf.String()
		assert.Contains(t, out, "Input:   movie.mkv (probed with libav)")
		assert.Contains(t, out, "MP4, video -> libx265, 2 stream(s)")
		lines := strings.Split(strings.TrimSpace(out), "\n")
		last := lines[len(lines)-1]
		assert.True(t, strings.HasPrefix(last, "2"), "last row is the dropped subtitle: %q", last)
		assert.Contains(t, last, "drop")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePlan(&buf, p, PlanJSON))
		var back Plan
		require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
		assert.Equal(t, p.Input, back.Input)
		assert.Len(t, back.Streams, 3)
		assert.NotContains(t, buf.String(), `"output": null`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePlan(&buf, p, PlanYAML))
		var back Plan
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
		assert.Equal(t, "libx265", back.Encoder)
		require.Len(t, back.Streams, 3)
		assert.Equal(t, "eng", back.Streams[1].Language)
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, WritePlan(&bytes.Buffer{}, p, "xml"))
	})
}

func TestWritePlan_Warnings(t *testing.T) {
	color.NoColor = true
	p := samplePlan()
	p.Warnings = []string{"video is interlaced and will be encoded as-is (no deinterlacing)"}

	var buf bytes.Buffer
	require.NoError(t, WritePlan(&buf, p, PlanText))
	assert.Contains(t, buf.String(), "\nwarning: video is interlaced")

	buf.Reset()
	require.NoError(t, WritePlan(&buf, p, PlanJSON))
	assert.Contains(t, buf.String(), `"warnings": [`)
}
