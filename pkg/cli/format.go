// Package cli provides shared formatting helpers for the gnsconf CLI.
package cli

import (
	"os"
	"strings"

	"github.com/ManderO9/Gns3Configuration/pkg/notify"
)

// colorEnabled is false when NO_COLOR env var is set (per no-color.org).
var colorEnabled = os.Getenv("NO_COLOR") == ""

// SetColor forces color output on or off.
func SetColor(enabled bool) {
	colorEnabled = enabled
}

func paint(code, s string) string {
	if !colorEnabled {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// Green wraps s in ANSI green.
func Green(s string) string { return paint("32", s) }

// Yellow wraps s in ANSI yellow.
func Yellow(s string) string { return paint("33", s) }

// Red wraps s in ANSI red.
func Red(s string) string { return paint("31", s) }

// Cyan wraps s in ANSI cyan.
func Cyan(s string) string { return paint("36", s) }

// Bold wraps s in ANSI bold.
func Bold(s string) string { return paint("1", s) }

// Dim wraps s in ANSI dim.
func Dim(s string) string { return paint("2", s) }

// Notification renders one feed entry as a single line: commands as
// "> cmd", errors in red, info in cyan.
func Notification(n notify.Notification) string {
	switch n.Kind {
	case notify.KindError:
		return Red("error: " + n.Message)
	case notify.KindInfo:
		return Cyan(n.Message)
	default:
		return Dim("> ") + n.Message
	}
}

// Status renders an ok/failed/skipped marker.
func Status(ok bool, skipped bool) string {
	switch {
	case skipped:
		return Yellow("skipped")
	case ok:
		return Green("ok")
	default:
		return Red("FAILED")
	}
}

// DotPad pads name with dots to the given width.
// Example: DotPad("r1-uplink", 20) → "r1-uplink .........."
func DotPad(name string, width int) string {
	if width <= 0 || len(name) >= width-1 {
		return name
	}
	dots := width - len(name) - 1
	return name + " " + strings.Repeat(".", dots)
}
