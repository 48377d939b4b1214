// Package libav implements the transcode collaborators on top of go-astiav.
//
// Every packet and frame is allocated per coded unit and freed by Release,
// so ownership follows the transcode package's rules exactly. Format and IO
// contexts are torn down through an astikit.Closer.
package libav

import (
	"strings"

	"github.com/asticode/go-astiav"

	"github.com/backmassage/hevcmux/internal/transcode"
)

// Backend is the go-astiav transcode.Backend.
type Backend struct{}

// New returns the libav backend.
func New() *Backend { return &Backend{} }

func (*Backend) OpenInput(path string) (transcode.Input, error) {
	in, err := OpenInput(path)
	if err != nil {
		return nil, err
	}
	return in, nil
}

func (*Backend) NewOutput(in transcode.Input, format string) (transcode.Output, error) {
	li, ok := in.(*Input)
	if !ok {
		return nil, errNotLibavInput
	}
	out, err := NewOutput(li, format)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (*Backend) Codecs() transcode.Codecs { return Codecs{} }

// HasEncoder and HasMuxer satisfy check.Target.
func (*Backend) HasEncoder(name string) bool { return HasEncoder(name) }
func (*Backend) HasMuxer(format string) bool { return HasMuxer(format) }

// HasEncoder reports whether libav was built with the named encoder.
func HasEncoder(name string) bool {
	return astiav.FindEncoderByName(name) != nil
}

// HasMuxer reports whether libav knows the named output format.
func HasMuxer(format string) bool {
	return astiav.FindOutputFormat(format) != nil
}

// Logger receives libav's own log lines.
type Logger interface {
	Debug(format string, args ...interface{})
}

var logLevels = map[string]astiav.LogLevel{
	"quiet":   astiav.LogLevelQuiet,
	"error":   astiav.LogLevelError,
	"warning": astiav.LogLevelWarning,
	"info":    astiav.LogLevelInfo,
	"debug":   astiav.LogLevelDebug,
}

// RouteLogs sets libav's log level and forwards its output to log at debug
// level. Unknown level names fall back to "error".
func RouteLogs(log Logger, level string) {
	lvl, ok := logLevels[strings.ToLower(level)]
	if !ok {
		lvl = astiav.LogLevelError
	}
	astiav.SetLogLevel(lvl)
	astiav.SetLogCallback(func(c astiav.Classer, l astiav.LogLevel, _, msg string) {
		msg = strings.TrimSpace(msg)
		if msg == "" {
			return
		}
		var class string
		if c != nil {
			if cl := c.Class(); cl != nil {
				class = cl.String() + ": "
			}
		}
		log.Debug("libav: %s%s", class, msg)
	})
}
