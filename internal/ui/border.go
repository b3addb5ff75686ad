package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/riftwm/riftwm/internal/model"
)

// BorderStyle is the visual style for the focus border.
var BorderStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)

// FocusBorder implements ports.WindowNotifier by drawing a single-line
// box around the focused window's rect, grounded on the teacher's
// box-drawing usage in texel/GraphicsOverlay.go.
type FocusBorder struct {
	Driver ScreenDriver
}

func NewFocusBorder(d ScreenDriver) *FocusBorder {
	return &FocusBorder{Driver: d}
}

func (b *FocusBorder) NotifyFocusBorder(window model.WindowID, rect model.Rect) error {
	x0, y0 := int(rect.X), int(rect.Y)
	x1, y1 := int(rect.X+rect.W)-1, int(rect.Y+rect.H)-1
	if x1 < x0 || y1 < y0 {
		return nil
	}

	for x := x0; x <= x1; x++ {
		b.Driver.SetContent(x, y0, tcell.RuneHLine, nil, BorderStyle)
		b.Driver.SetContent(x, y1, tcell.RuneHLine, nil, BorderStyle)
	}
	for y := y0; y <= y1; y++ {
		b.Driver.SetContent(x0, y, tcell.RuneVLine, nil, BorderStyle)
		b.Driver.SetContent(x1, y, tcell.RuneVLine, nil, BorderStyle)
	}
	b.Driver.SetContent(x0, y0, tcell.RuneULCorner, nil, BorderStyle)
	b.Driver.SetContent(x1, y0, tcell.RuneURCorner, nil, BorderStyle)
	b.Driver.SetContent(x0, y1, tcell.RuneLLCorner, nil, BorderStyle)
	b.Driver.SetContent(x1, y1, tcell.RuneLRCorner, nil, BorderStyle)
	b.Driver.Show()
	return nil
}
