package output

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var colorProfile = detectProfile()

func detectProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd()) {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// Dim renders text faint
func Dim(s string) string {
	return colorProfile.String(s).Faint().String()
}

// Yellow renders text in the warning color
func Yellow(s string) string {
	return colorProfile.String(s).Foreground(colorProfile.Color("3")).String()
}

// Red renders text in the error color
func Red(s string) string {
	return colorProfile.String(s).Foreground(colorProfile.Color("1")).String()
}

// Green renders text in the success color
func Green(s string) string {
	return colorProfile.String(s).Foreground(colorProfile.Color("2")).String()
}
