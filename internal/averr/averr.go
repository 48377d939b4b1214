// Package averr turns codec and container status codes into diagnostics.
//
// Status codes follow libav's convention: zero is success, negative values
// are either a negated errno or a four-character tag. The text for a code
// comes from the codec library and travels with the failure as a [Status],
// so reporting never consults a process-wide buffer.
package averr

import (
	"errors"
	"fmt"
	"syscall"
)

// Code is a negative libav-style status.
type Code int

// fferrtag mirrors libav's FFERRTAG(a, b, c, d).
func fferrtag(a, b, c, d byte) Code {
	return -Code(int(a) | int(b)<<8 | int(c)<<16 | int(d)<<24)
}

// Status codes the pipeline matches on.
var (
	ErrAgain           = Code(-int(syscall.EAGAIN))
	ErrNoMem           = Code(-int(syscall.ENOMEM))
	ErrInvalidArg      = Code(-int(syscall.EINVAL))
	ErrIO              = Code(-int(syscall.EIO))
	ErrEOF             = fferrtag('E', 'O', 'F', ' ')
	ErrDecoderNotFound = fferrtag(0xF8, 'D', 'E', 'C')
	ErrEncoderNotFound = fferrtag(0xF8, 'E', 'N', 'C')
	ErrExternal        = fferrtag('E', 'X', 'T', ' ')
	ErrInvalidData     = fferrtag('I', 'N', 'D', 'A')
	ErrMuxerNotFound   = fferrtag(0xF8, 'M', 'U', 'X')
	ErrStreamNotFound  = fferrtag(0xF8, 'S', 'T', 'R')
)

// Message is the text used when no decoded message travels with the code.
func (c Code) Message() string {
	return fmt.Sprintf("Error number %d occurred", int(c))
}

// Error implements error so a Code can be returned and matched with errors.Is.
func (c Code) Error() string { return c.Message() }

// Status is a Code together with the message the codec library decoded for it.
type Status struct {
	Code Code
	Msg  string
}

// NewStatus pairs c with its decoded message.
func NewStatus(c Code, msg string) error {
	return &Status{Code: c, Msg: msg}
}

func (s *Status) Error() string {
	if s.Msg == "" {
		return s.Code.Message()
	}
	return s.Msg
}

// Unwrap exposes the Code so errors.Is(err, ErrEOF) matches.
func (s *Status) Unwrap() error { return s.Code }

// Error is a fatal condition annotated with what was being attempted.
// Its text is "<Op>: <decoded message>".
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + Describe(e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap annotates err with op. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// New returns an annotated failure that has no underlying status code, such
// as a nil allocation.
func New(op string) error {
	return &Error{Op: op}
}

// Describe decodes err for display. A Status anywhere in the chain yields its
// decoded message, a bare Code its fallback text, anything else err.Error().
func Describe(err error) string {
	if err == nil {
		return "Success"
	}
	var s *Status
	if errors.As(err, &s) {
		return s.Error()
	}
	var c Code
	if errors.As(err, &c) {
		return c.Message()
	}
	return err.Error()
}

// Report formats a diagnostic line "<description>: <decoded message>".
func Report(description string, err error) string {
	return description + ": " + Describe(err)
}

// IsRetry reports whether err is the need-more-input signal.
func IsRetry(err error) bool { return errors.Is(err, ErrAgain) }

// IsEOF reports whether err is the end-of-stream signal.
func IsEOF(err error) bool { return errors.Is(err, ErrEOF) }
