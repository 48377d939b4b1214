package transcode

import (
	"errors"

	"github.com/backmassage/hevcmux/internal/averr"
)

// Status is the outcome of one pull from a decoder or encoder.
type Status int

const (
	// StatusContinue means an item was produced and more may follow.
	StatusContinue Status = iota
	// StatusNeedInput means the codec wants another submit.
	StatusNeedInput
	// StatusDrained means the codec has emitted everything after a flush.
	StatusDrained
	// StatusFatal ends the run.
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusContinue:
		return "continue"
	case StatusNeedInput:
		return "need-input"
	case StatusDrained:
		return "drained"
	default:
		return "fatal"
	}
}

// classify maps a codec return value onto a Status.
func classify(err error) Status {
	switch {
	case err == nil:
		return StatusContinue
	case averr.IsRetry(err):
		return StatusNeedInput
	case averr.IsEOF(err):
		return StatusDrained
	default:
		return StatusFatal
	}
}

// annotate wraps err with op unless it already carries an annotation from
// the backend.
func annotate(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *averr.Error
	if errors.As(err, &ae) {
		return err
	}
	return averr.Wrap(op, err)
}
