package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/hevcmux/internal/check"
	"github.com/backmassage/hevcmux/internal/display"
	"github.com/backmassage/hevcmux/internal/libav"
	"github.com/backmassage/hevcmux/internal/pipeline"
	"github.com/backmassage/hevcmux/internal/term"
)

// Prompts shown when a path is not given on the command line.
const (
	inputPrompt  = "Enter an input file: "
	outputPrompt = "Enter an output file: "
)

func (a *app) runConvert(cmd *cobra.Command, args []string) error {
	cfg := &a.cfg

	// --- Resolve paths ---
	if len(args) < 2 {
		r := bufio.NewReader(cmd.InOrStdin())
		paths := append([]string(nil), args...)
		for _, p := range []string{inputPrompt, outputPrompt}[len(args):] {
			line, err := prompt(r, cmd.OutOrStdout(), p)
			if err != nil {
				return err
			}
			paths = append(paths, line)
		}
		args = paths
	}
	cfg.InputPath, cfg.OutputPath = args[0], args[1]
	if err := cfg.Validate(); err != nil {
		return err
	}

	if term.IsTerminal(os.Stdout) {
		display.PrintBanner(cmd.OutOrStdout())
	}

	// --- Dependencies ---
	backend := libav.New()
	if err := check.CheckDeps(backend, cfg.TargetEncoder, cfg.OutputFormat); err != nil {
		a.log.Error("%v", err)
		return errReported
	}

	// --- Convert ---
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := pipeline.Convert(ctx, cfg, backend, a.log); err != nil {
		return errReported
	}
	return nil
}

// prompt writes label to w and reads one trimmed line from r. A line that
// is empty after trimming is an error.
func prompt(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := r.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return "", fmt.Errorf("no path entered at %q", strings.TrimSuffix(label, ": "))
	}
	return line, nil
}
