package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/backmassage/hevcmux/internal/display"
	"github.com/backmassage/hevcmux/internal/libav"
	"github.com/backmassage/hevcmux/internal/pipeline"
)

func (a *app) planCommand() *cobra.Command {
	var (
		format string
		prober string
	)
	cmd := &cobra.Command{
		Use:   "plan <input>",
		Short: "Show which streams would be transcoded, copied or dropped",
		Long: `Probe the input and print the stream map without converting anything.

Probers: auto (MPEG-TS reader for .ts/.m2ts/.mts, libav otherwise), libav,
ffprobe (needs ffprobe on PATH; adds HDR and interlace warnings) and ts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := pipeline.PlanRequest{
				Input:   args[0],
				Prober:  prober,
				Format:  strings.ToLower(format),
				Encoder: a.cfg.TargetEncoder,
				Muxer:   a.cfg.OutputFormat,
			}
			return pipeline.Plan(cmd.Context(), req, pipeline.Probers(libav.Probe), cmd.OutOrStdout(), a.log)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", display.PlanText, "Output format: text | yaml | json")
	cmd.Flags().StringVar(&prober, "prober", pipeline.ProberAuto, "Prober: "+strings.Join(pipeline.ProberNames, " | "))
	return cmd
}
