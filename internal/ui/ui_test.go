package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/riftwm/riftwm/internal/model"
	"github.com/riftwm/riftwm/internal/ports"
)

type fakeDriver struct {
	w, h  int
	cells map[[2]int]rune
	shown int
}

func newFakeDriver(w, h int) *fakeDriver {
	return &fakeDriver{w: w, h: h, cells: make(map[[2]int]rune)}
}

func (f *fakeDriver) Init() error { return nil }
func (f *fakeDriver) Fini()       {}
func (f *fakeDriver) Size() (int, int) {
	return f.w, f.h
}
func (f *fakeDriver) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	f.cells[[2]int{x, y}] = mainc
}
func (f *fakeDriver) Show()       { f.shown++ }
func (f *fakeDriver) HideCursor() {}

func TestFocusBorderDrawsCorners(t *testing.T) {
	d := newFakeDriver(40, 20)
	b := NewFocusBorder(d)

	if err := b.NotifyFocusBorder(model.WindowID{}, model.Rect{X: 2, Y: 3, W: 10, H: 5}); err != nil {
		t.Fatalf("NotifyFocusBorder failed: %v", err)
	}
	if d.cells[[2]int{2, 3}] != tcell.RuneULCorner {
		t.Fatalf("expected top-left corner rune at (2,3), got %q", d.cells[[2]int{2, 3}])
	}
	if d.cells[[2]int{11, 7}] != tcell.RuneLRCorner {
		t.Fatalf("expected bottom-right corner rune at (11,7), got %q", d.cells[[2]int{11, 7}])
	}
	if d.shown == 0 {
		t.Fatal("expected Show to be called")
	}
}

func TestMenuBarRendersWorkspaceAndTitle(t *testing.T) {
	d := newFakeDriver(40, 20)
	m := NewMenuBar(d, 0)

	if err := m.UpdateMenuBar(ports.MenuBarUpdate{Screen: 0, ActiveWorkspace: "code", WindowTitle: "main.go"}); err != nil {
		t.Fatalf("UpdateMenuBar failed: %v", err)
	}
	if d.cells[[2]int{1, 0}] != 'c' {
		t.Fatalf("expected workspace name to start rendering at col 1, got %q", d.cells[[2]int{1, 0}])
	}
}

func TestStackLineHighlightsActiveWindow(t *testing.T) {
	d := newFakeDriver(80, 20)
	titles := map[model.WindowID]string{
		{Pid: 1, Index: 0}: "alpha",
		{Pid: 1, Index: 1}: "beta",
	}
	s := NewStackLine(d, 1, func(w model.WindowID) string { return titles[w] })

	update := ports.GroupContainerUpdate{
		Screen: 0,
		Groups: []ports.StackGroup{{
			Windows: []model.WindowID{{Pid: 1, Index: 0}, {Pid: 1, Index: 1}},
			Active:  model.WindowID{Pid: 1, Index: 1},
		}},
	}
	if err := s.UpdateStackLine(update); err != nil {
		t.Fatalf("UpdateStackLine failed: %v", err)
	}
	if d.shown == 0 {
		t.Fatal("expected Show to be called")
	}
}
