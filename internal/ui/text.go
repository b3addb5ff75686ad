package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// fitText truncates s to fit within width visual columns (accounting for
// double-width runes), padding with spaces to exactly width when shorter,
// the way the teacher's clock app sizes its centered string
// (apps/clock/clock.go's runewidth.StringWidth/RuneWidth usage).
func fitText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s + pad(width-runewidth.StringWidth(s))
	}
	return runewidth.Truncate(s, width, "")
}

func pad(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// drawString writes s onto the driver starting at (x, y), advancing one
// column per rune's actual display width.
func drawString(d ScreenDriver, x, y int, s string, style tcell.Style) {
	col := x
	for _, ch := range s {
		d.SetContent(col, y, ch, nil, style)
		col += runewidth.RuneWidth(ch)
	}
}
