package display

import (
	"fmt"
	"io"

	"github.com/backmassage/anomalabel/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	if term.Enabled() {
		fmt.Fprint(w, term.Magenta)
	}
	fmt.Fprint(w, `   __ _ _ __   ___  _ __ ___   __ _| | __ _| |__   ___| |
  / _`+"`"+` | '_ \ / _ \| '_ `+"`"+` _ \ / _`+"`"+` | |/ _`+"`"+` | '_ \ / _ \ |
 | (_| | | | | (_) | | | | | | (_| | | (_| | |_) |  __/ |
  \__,_|_| |_|\___/|_| |_| |_|\__,_|_|\__,_|_.__/ \___|_|
`)
	if term.Enabled() {
		fmt.Fprintln(w, term.NC)
	}
}
