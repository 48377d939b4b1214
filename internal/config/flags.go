package config

// This file registers the persistent CLI flags on a pflag.FlagSet.
// A flag overrides the file/env value only when the user actually set it
// (pflag's Changed), so flag defaults never mask configuration.
// Negated flags (e.g. --no-flush) invert a default.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flags holds the raw flag values until [Flags.Apply] copies the ones the
// user set into a Config.
type Flags struct {
	ConfigFile string

	verbose    bool
	color      colorModeValue
	noColor    bool
	logFile    string
	noFlush    bool
	noVerify   bool
	libavLevel string
}

// DefineFlags registers all persistent flags on fs.
func DefineFlags(fs *pflag.FlagSet) *Flags {
	d := DefaultConfig()
	f := &Flags{color: colorModeValue{mode: d.ColorMode}}

	fs.StringVar(&f.ConfigFile, "config", "", "config file (default: ./hevcmux.yaml or $HOME/.config/hevcmux/hevcmux.yaml)")

	// Display
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Verbose output")
	fs.Var(&f.color, "color", "Color mode: auto | always | never")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored logs (same as --color=never)")
	fs.StringVarP(&f.logFile, "log", "l", "", "Append logs to file")
	fs.StringVar(&f.libavLevel, "libav-log-level", d.LibavLogLevel,
		"libav log level: "+strings.Join(LibavLogLevels, " | "))

	// Behavior
	fs.BoolVar(&f.noFlush, "no-flush", false, "Do not drain decoders and encoders at end of input")
	fs.BoolVar(&f.noVerify, "no-verify", false, "Skip inspecting the MP4 after writing")
	return f
}

// Apply copies every flag the user set on fs into cfg.
func (f *Flags) Apply(fs *pflag.FlagSet, cfg *Config) {
	if fs.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if fs.Changed("color") {
		cfg.ColorMode = f.color.mode
	}
	if f.noColor {
		cfg.ColorMode = ColorNever
	}
	if fs.Changed("log") {
		cfg.LogFile = f.logFile
	}
	if fs.Changed("libav-log-level") {
		cfg.LibavLogLevel = strings.ToLower(f.libavLevel)
	}
	if f.noFlush {
		cfg.Flush = false
	}
	if f.noVerify {
		cfg.Verify = false
	}
}

// pflag.Value adapter so the ColorMode enum is validated at parse time.

type colorModeValue struct{ mode ColorMode }

func (c *colorModeValue) String() string { return string(c.mode) }
func (c *colorModeValue) Type() string   { return "mode" }
func (c *colorModeValue) Set(s string) error {
	switch ColorMode(strings.ToLower(s)) {
	case ColorAuto:
		c.mode = ColorAuto
	case ColorAlways:
		c.mode = ColorAlways
	case ColorNever:
		c.mode = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}
