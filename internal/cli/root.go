// Package cli wires the cobra commands to the configuration, the logger and
// the pipeline.
//
// Precedence for every setting: explicitly set flag, HEVCMUX_* environment
// variable, config file, built-in default.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/backmassage/hevcmux/internal/config"
	"github.com/backmassage/hevcmux/internal/libav"
	"github.com/backmassage/hevcmux/internal/logging"
)

// errReported marks a failure that was already logged; Execute only turns
// it into the exit status.
var errReported = errors.New("failure already reported")

// BuildInfo is injected by the main package.
type BuildInfo struct {
	Version string
	Commit  string
}

type app struct {
	info  BuildInfo
	flags *config.Flags
	cfg   config.Config
	log   *logging.Logger
}

// NewRootCommand builds the hevcmux command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	a := &app{info: info}

	root := &cobra.Command{
		Use:   "hevcmux [input] [output]",
		Short: "Convert a media file to MP4 with HEVC video",
		Long: `hevcmux re-encodes every video stream of the input with libx265, copies
every audio stream unchanged and drops everything else, writing an MP4.

Missing paths are prompted for on standard input.`,
		Version:           info.Version,
		Args:              cobra.MaximumNArgs(2),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
		RunE:              a.runConvert,
	}
	root.SetVersionTemplate(versionLine(info) + "\n")
	a.flags = config.DefineFlags(root.PersistentFlags())

	root.AddCommand(a.planCommand(), a.checkCommand(), versionCommand(info))
	return root
}

// Execute runs the command tree and returns the process exit status.
func Execute(ctx context.Context, info BuildInfo, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCommand(info)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "hevcmux: %v\n", err)
		}
		return 1
	}
	return 0
}

// setup loads the configuration, applies flags and opens the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.flags.ConfigFile)
	if err != nil {
		return err
	}
	a.flags.Apply(cmd.Flags(), &cfg)
	if err := cfg.ValidateSettings(); err != nil {
		return err
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return err
	}
	libav.RouteLogs(log, cfg.LibavLogLevel)

	a.cfg, a.log = cfg, log
	return nil
}

func (a *app) teardown(*cobra.Command, []string) {
	if a.log != nil {
		a.log.Close()
	}
}

func versionLine(info BuildInfo) string {
	return fmt.Sprintf("hevcmux %s (commit %s)", info.Version, info.Commit)
}

func versionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// The version line needs no config or logger.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionLine(info))
		},
	}
}
