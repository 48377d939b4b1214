// Command hevcmux converts one media file into an MP4 with HEVC video and
// the original audio.
package main

import (
	"context"
	"os"

	"github.com/backmassage/hevcmux/internal/cli"
)

// version and commit are set at build time via -ldflags.
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{Version: version, Commit: commit}
	return cli.Execute(context.Background(), info, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
