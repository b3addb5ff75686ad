// Package ui provides terminal-rendered reference implementations of the
// border/stack-line/menu-bar indicator adapters spec.md §1 and §6 list as
// external collaborators. The reactor only ever emits the typed outbound
// events declared in internal/ports; this package is one concrete
// subscriber that paints them to a terminal so the contract is exercised
// end to end without a real compositor.
package ui

import "github.com/gdamore/tcell/v2"

// ScreenDriver is the subset of tcell.Screen the indicators use, adapted
// from the teacher's TcellScreenDriver (texel/driver_tcell.go).
type ScreenDriver interface {
	Init() error
	Fini()
	Size() (int, int)
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	Show()
	HideCursor()
}

// TcellDriver wraps a real tcell.Screen.
type TcellDriver struct {
	screen tcell.Screen
}

func NewTcellDriver(screen tcell.Screen) *TcellDriver {
	return &TcellDriver{screen: screen}
}

func (d *TcellDriver) Init() error { return d.screen.Init() }
func (d *TcellDriver) Fini()       { d.screen.Fini() }
func (d *TcellDriver) Size() (int, int) {
	return d.screen.Size()
}
func (d *TcellDriver) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	d.screen.SetContent(x, y, mainc, combc, style)
}
func (d *TcellDriver) Show()       { d.screen.Show() }
func (d *TcellDriver) HideCursor() { d.screen.HideCursor() }
