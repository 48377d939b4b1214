// Package config holds runtime configuration: defaults, file/env loading via
// viper, and validation. The target encoder and container are fixed policy
// and cannot be changed by the user.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Fixed policy.
const (
	TargetEncoder = "libx265"
	OutputFormat  = "mp4"
)

// EnvPrefix prefixes every environment override (HEVCMUX_VERBOSE, ...).
const EnvPrefix = "HEVCMUX"

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// LibavLogLevels are the accepted values for LibavLogLevel.
var LibavLogLevels = []string{"quiet", "error", "warning", "info", "debug"}

// Config holds all runtime settings. It is populated by [DefaultConfig] or
// [Load] and then overridden by explicitly set CLI flags before being passed
// (by pointer) to packages that need it.
type Config struct {
	// Paths (set from positional args or the interactive prompt).
	InputPath  string
	OutputPath string

	// Fixed policy (not user-configurable).
	TargetEncoder string // Fixed: "libx265".
	OutputFormat  string // Fixed: "mp4".

	// Behavior.
	Flush  bool `mapstructure:"flush"`  // Default: true. Drain codecs at end of input.
	Verify bool `mapstructure:"verify"` // Default: true. Inspect the MP4 after writing.

	// Display and logging.
	Verbose       bool      `mapstructure:"verbose"`
	ColorMode     ColorMode `mapstructure:"color"`           // Default: "auto".
	LogFile       string    `mapstructure:"log_file"`        // Optional log file path.
	LibavLogLevel string    `mapstructure:"libav_log_level"` // Default: "error".

	CheckOnly bool // Run dependency checks and exit.
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		TargetEncoder: TargetEncoder,
		OutputFormat:  OutputFormat,
		Flush:         true,
		Verify:        true,
		Verbose:       false,
		ColorMode:     ColorAuto,
		LibavLogLevel: "error",
	}
}

// SetDefaults registers the user-configurable defaults on v.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("flush", d.Flush)
	v.SetDefault("verify", d.Verify)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("color", string(d.ColorMode))
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("libav_log_level", d.LibavLogLevel)
}

// Load reads an optional YAML config file and HEVCMUX_* environment
// variables on top of the defaults. An empty configPath searches the working
// directory and $HOME/.config/hevcmux for hevcmux.yaml; not finding one is
// not an error.
func Load(configPath string) (Config, error) {
	v := viper.New()
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("hevcmux")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/hevcmux")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.TargetEncoder = TargetEncoder
	cfg.OutputFormat = OutputFormat
	cfg.ColorMode = ColorMode(strings.ToLower(string(cfg.ColorMode)))
	cfg.LibavLogLevel = strings.ToLower(cfg.LibavLogLevel)
	return cfg, nil
}

// Validate checks the settings. When not in CheckOnly mode it also requires
// both paths and rejects an output that would overwrite the input.
func (c *Config) Validate() error {
	if err := c.ValidateSettings(); err != nil {
		return err
	}

	if c.CheckOnly {
		return nil
	}
	if strings.TrimSpace(c.InputPath) == "" || strings.TrimSpace(c.OutputPath) == "" {
		return errors.New("need an input file and an output file")
	}
	inAbs, err := filepath.Abs(c.InputPath)
	if err != nil {
		return fmt.Errorf("resolving input path: %w", err)
	}
	outAbs, err := filepath.Abs(c.OutputPath)
	if err != nil {
		return fmt.Errorf("resolving output path: %w", err)
	}
	return c.ValidatePaths(inAbs, outAbs)
}

// ValidateSettings checks the enum fields only.
func (c *Config) ValidateSettings() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if !validLibavLevel(c.LibavLogLevel) {
		return fmt.Errorf("invalid libav log level %q (use one of %s)",
			c.LibavLogLevel, strings.Join(LibavLogLevels, ", "))
	}
	return nil
}

func validLibavLevel(s string) bool {
	for _, l := range LibavLogLevels {
		if s == l {
			return true
		}
	}
	return false
}

// ValidatePaths ensures the output file is not the input file. Both
// arguments must be absolute paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	if filepath.Clean(inputAbs) == filepath.Clean(outputAbs) {
		return errors.New("output file must differ from input file")
	}
	return nil
}
