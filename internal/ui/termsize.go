package ui

import (
	"os"

	"golang.org/x/term"
)

// FallbackScreenSize reports the controlling terminal's raw size via
// golang.org/x/term, used to size the indicator adapters' layout before a
// tcell.Screen has been initialised (or when running headless under a
// test harness where tcell's own Size() isn't meaningful yet).
func FallbackScreenSize() (cols, rows int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}
