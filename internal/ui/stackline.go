package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/riftwm/riftwm/internal/model"
	"github.com/riftwm/riftwm/internal/ports"
)

var (
	stackActiveStyle   = tcell.StyleDefault.Bold(true)
	stackInactiveStyle = tcell.StyleDefault.Dim(true)
)

// StackLine implements ports.StackLineSink, rendering one row per
// screen near the top of the terminal listing each stacked container's
// window titles, the active one highlighted. TitleLookup resolves a
// WindowID to the title text to display; it is supplied by the caller
// (cmd/riftd) since internal/ui has no window-state of its own.
type StackLine struct {
	Driver      ScreenDriver
	Row         int
	TitleLookup func(model.WindowID) string
}

func NewStackLine(d ScreenDriver, row int, titleLookup func(model.WindowID) string) *StackLine {
	return &StackLine{Driver: d, Row: row, TitleLookup: titleLookup}
}

func (s *StackLine) UpdateStackLine(update ports.GroupContainerUpdate) error {
	width, _ := s.Driver.Size()
	row := s.Row + int(update.Screen)
	drawString(s.Driver, 0, row, pad(width), tcell.StyleDefault)

	col := 0
	for _, group := range update.Groups {
		for _, w := range group.Windows {
			title := s.title(w)
			style := stackInactiveStyle
			if w == group.Active {
				style = stackActiveStyle
			}
			if col >= width {
				break
			}
			remaining := width - col
			text := fitText(" "+title+" ", min(remaining, len(title)+2))
			drawString(s.Driver, col, row, text, style)
			col += len([]rune(text))
		}
		col++
	}
	s.Driver.Show()
	return nil
}

func (s *StackLine) title(w model.WindowID) string {
	if s.TitleLookup == nil {
		return ""
	}
	return s.TitleLookup(w)
}
