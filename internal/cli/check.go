package cli

import (
	"github.com/spf13/cobra"

	"github.com/backmassage/hevcmux/internal/check"
	"github.com/backmassage/hevcmux/internal/libav"
)

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that libav provides the encoder and muxer",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			a.cfg.CheckOnly = true
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			if !check.RunCheck(libav.New(), a.cfg.TargetEncoder, a.cfg.OutputFormat, a.log) {
				return errReported
			}
			return nil
		},
	}
}
