// Package term holds the ANSI escape sequences shared by the logger, the
// banner and the summary table.
//
// The sequences live in package variables set once by [Configure]. With
// color off they are empty, so callers concatenate them unconditionally.
package term

import (
	"os"
	"strings"

	xterm "golang.org/x/term"

	"github.com/fnndsc/surfresults/internal/config"
)

// Escape sequences, empty while color is off.
var (
	Red     = ""
	Green   = ""
	Yellow  = ""
	Orange  = ""
	Blue    = ""
	Cyan    = ""
	Magenta = ""
	NC      = "" // reset
)

var palette = []struct {
	v    *string
	code string
}{
	{&Red, "\033[1;91m"},
	{&Green, "\033[1;92m"},
	{&Yellow, "\033[1;93m"},
	{&Orange, "\033[1;38;5;208m"},
	{&Blue, "\033[1;94m"},
	{&Cyan, "\033[1;96m"},
	{&Magenta, "\033[1;95m"},
	{&NC, "\033[0m"},
}

// Configure turns the palette on or off for mode. NewLogger calls it.
func Configure(mode config.ColorMode) {
	on := resolve(mode)
	for _, p := range palette {
		if on {
			*p.v = p.code
		} else {
			*p.v = ""
		}
	}
}

// Enabled reports whether the palette is on.
func Enabled() bool { return NC != "" }

func resolve(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return IsTerminal(os.Stdout) && envAllowsColor(os.Getenv)
}

// envAllowsColor applies NO_COLOR (https://no-color.org) and TERM=dumb.
func envAllowsColor(getenv func(string) string) bool {
	if getenv("NO_COLOR") != "" {
		return false
	}
	return !strings.EqualFold(getenv("TERM"), "dumb")
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return xterm.IsTerminal(int(f.Fd()))
}
