package display

import (
	"fmt"
	"io"

	"github.com/fnndsc/surfresults/internal/term"
)

// PrintBanner writes the ASCII art banner to w; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `                  __                          _ _
 ___ _   _ _ __ / _|  _ __ ___  ___ _   _| | |_ ___
/ __| | | | '__| |_  | '__/ _ \/ __| | | | | __/ __|
\__ \ |_| | |  |  _| | | |  __/\__ \ |_| | | |_\__ \
|___/\__,_|_|  |_|   |_|  \___||___/\__,_|_|\__|___/
`)
	fmt.Fprintln(w, term.NC)
}
