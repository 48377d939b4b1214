package display

import (
	"fmt"
	"io"

	"github.com/backmassage/hevcmux/internal/term"
)

const banner = ` _
| |__   _____   _____ _ __ ___  _   ___  __
| '_ \ / _ \ \ / / __| '_ ` + "`" + ` _ \| | | \ \/ /
| | | |  __/\ V / (__| | | | | | |_| |>  <
|_| |_|\___| \_/ \___|_| |_| |_|\__,_/_/\_\
`

// PrintBanner writes the ASCII art banner, in magenta when colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta.Sprint(banner))
	fmt.Fprintln(w)
}
