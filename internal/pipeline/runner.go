package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/backmassage/hevcmux/internal/averr"
	"github.com/backmassage/hevcmux/internal/config"
	"github.com/backmassage/hevcmux/internal/display"
	"github.com/backmassage/hevcmux/internal/logging"
	"github.com/backmassage/hevcmux/internal/probe"
	"github.com/backmassage/hevcmux/internal/transcode"
)

// Convert runs one conversion of cfg.InputPath into cfg.OutputPath and logs
// a summary. The returned error is the transcode failure, already reported
// through log; a verification problem is only a warning. A failed run leaves
// whatever was written on disk.
func Convert(ctx context.Context, cfg *config.Config, backend transcode.Backend, log *logging.Logger) (Result, error) {
	res := Result{RunID: uuid.NewString()[:8]}

	// --- Validate ---
	if err := cfg.Validate(); err != nil {
		return res, err
	}
	if fi, err := os.Stat(cfg.InputPath); err == nil {
		res.InputBytes = fi.Size()
	}
	if dir := filepath.Dir(cfg.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("Cannot create output directory: %v", err)
			return res, err
		}
	}

	log.Info("[%s] %s -> %s", res.RunID, filepath.Base(cfg.InputPath), filepath.Base(cfg.OutputPath))
	log.Debug("Encoder: %s, container: %s, flush: %v", cfg.TargetEncoder, cfg.OutputFormat, cfg.Flush)

	// --- Execute ---
	job := transcode.Job{
		InputPath:  cfg.InputPath,
		OutputPath: cfg.OutputPath,
		Encoder:    cfg.TargetEncoder,
		Format:     cfg.OutputFormat,
		Flush:      cfg.Flush,
	}
	stats, err := transcode.Run(ctx, backend, job, log)
	res.Stats = stats
	if err != nil {
		reportFailure(log, err)
		if _, serr := os.Stat(cfg.OutputPath); serr == nil {
			log.Warn("Partial output left at %s", cfg.OutputPath)
		}
		return res, err
	}

	if fi, err := os.Stat(cfg.OutputPath); err == nil {
		res.OutputBytes = fi.Size()
	}

	// --- Verify ---
	if cfg.Verify && stats.OutputStreams > 0 {
		res.Output = verify(log, cfg.OutputPath, stats.OutputStreams)
	}

	logSummary(log, &res)
	return res, nil
}

// reportFailure logs err the way the conversion reports libav statuses:
// "<operation>: <decoded message>".
func reportFailure(log *logging.Logger, err error) {
	var ae *averr.Error
	switch {
	case errors.Is(err, transcode.ErrInterrupted):
		log.Warn("Interrupted")
	case errors.As(err, &ae):
		log.Error("%s", ae.Error())
	default:
		log.Error("%s", averr.Describe(err))
	}
}

// verify reads the written file back and checks its track count.
func verify(log *logging.Logger, path string, want int) *probe.MP4Summary {
	sum, err := probe.VerifyMP4(path)
	if err != nil {
		log.Warn("Output verification failed: %v", err)
		return nil
	}
	if len(sum.Tracks) != want {
		log.Warn("Output has %d tracks, expected %d", len(sum.Tracks), want)
	}
	for _, t := range sum.Tracks {
		log.Debug("  Track %d: %s, %s samples, %.2fs", t.ID, t.Codec, display.FormatCount(t.Samples), t.Duration)
	}
	return sum
}

func logSummary(log *logging.Logger, res *Result) {
	s := res.Stats
	log.Info("Streams: %d out (%d transcoded, %d copied)",
		s.OutputStreams, s.Transcoded, s.OutputStreams-s.Transcoded)
	log.Info("Units: %s read, %s dropped, %s copied, %s encoded, %s written",
		display.FormatCount(s.Read), display.FormatCount(s.Dropped),
		display.FormatCount(s.Copied), display.FormatCount(s.Encoded),
		display.FormatCount(s.Written))
	log.Debug("Decoder: %s packets in, %s frames out", display.FormatCount(s.Decoded), display.FormatCount(s.Frames))

	saved := res.SpaceSaved()
	if saved >= 0 {
		log.Success("[%s] Done in %ds: %s -> %s (%s of original)",
			res.RunID, int(s.Elapsed.Seconds()),
			display.FormatBytes(res.InputBytes), display.FormatBytes(res.OutputBytes),
			display.FormatRatio(res.InputBytes, res.OutputBytes))
	} else {
		log.Warn("[%s] Done in %ds, output is larger: %s -> %s (%s)",
			res.RunID, int(s.Elapsed.Seconds()),
			display.FormatBytes(res.InputBytes), display.FormatBytes(res.OutputBytes),
			display.FormatBytesWithSign(-saved))
	}
}
