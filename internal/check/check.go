// Package check provides system diagnostics (the check command) and
// pre-conversion dependency validation (CheckDeps) for the libav encoder and
// muxer the conversion is fixed to.
package check

import (
	"fmt"
	"os/exec"

	"github.com/backmassage/hevcmux/internal/averr"
)

// Sentinel errors returned by CheckDeps when a required component is missing.
// Both carry the matching libav status so errors.Is matches either.
var (
	ErrEncoderNotFound = averr.NewStatus(averr.ErrEncoderNotFound, "encoder not built into libav")
	ErrMuxerNotFound   = averr.NewStatus(averr.ErrMuxerNotFound, "muxer not built into libav")
)

// Target is what CheckDeps queries. The libav backend implements it.
type Target interface {
	HasEncoder(name string) bool
	HasMuxer(format string) bool
}

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck prints the availability of the encoder, the muxer and the
// optional ffprobe prober. It is informational and never stops early; the
// return value reports whether a conversion could run.
func RunCheck(t Target, encoder, format string, log Logger) bool {
	log.Info("=== System Check ===")

	ok := true
	if t.HasEncoder(encoder) {
		log.Success("encoder %s: available", encoder)
	} else {
		log.Error("encoder %s: not found", encoder)
		ok = false
	}
	if t.HasMuxer(format) {
		log.Success("muxer %s: available", format)
	} else {
		log.Error("muxer %s: not found", format)
		ok = false
	}
	checkFfprobe(log)
	return ok
}

// checkFfprobe reports whether the ffprobe prober can be used.
func checkFfprobe(log Logger) {
	path, err := exec.LookPath("ffprobe")
	if err != nil {
		log.Warn("ffprobe not found (plan --prober ffprobe unavailable)")
		return
	}
	log.Success("ffprobe: %s", path)
}

// CheckDeps is the pre-conversion validation: the target encoder and the
// output muxer must both be present. Returns a wrapped sentinel on failure.
func CheckDeps(t Target, encoder, format string) error {
	if !t.HasEncoder(encoder) {
		return fmt.Errorf("%s: %w", encoder, ErrEncoderNotFound)
	}
	if !t.HasMuxer(format) {
		return fmt.Errorf("%s: %w", format, ErrMuxerNotFound)
	}
	return nil
}
