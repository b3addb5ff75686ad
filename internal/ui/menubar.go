package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/riftwm/riftwm/internal/ports"
)

var menuBarStyle = tcell.StyleDefault.Reverse(true)

// MenuBar implements ports.MenuBarSink, rendering the active workspace
// name and focused window title on a single reversed-video row, one row
// per screen.
type MenuBar struct {
	Driver ScreenDriver
	Row    int
}

func NewMenuBar(d ScreenDriver, row int) *MenuBar {
	return &MenuBar{Driver: d, Row: row}
}

func (m *MenuBar) UpdateMenuBar(update ports.MenuBarUpdate) error {
	width, _ := m.Driver.Size()
	row := m.Row + int(update.Screen)

	text := fmt.Sprintf(" %s │ %s", update.ActiveWorkspace, update.WindowTitle)
	drawString(m.Driver, 0, row, fitText(text, width), menuBarStyle)
	m.Driver.Show()
	return nil
}
