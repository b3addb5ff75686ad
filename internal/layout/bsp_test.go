package layout

import (
	"testing"

	"github.com/riftwm/riftwm/internal/model"
)

func TestBSPSplitSelectionArmsPreselection(t *testing.T) {
	s := NewBSPLayout()
	id := s.CreateLayout()
	w1 := win(1, 0)
	s.AddWindowAfterSelection(id, w1)

	s.SplitSelection(id, model.OrientVertical)
	w2 := win(1, 1)
	s.AddWindowAfterSelection(id, w2)

	rects := s.CalculateLayout(id, model.Rect{X: 0, Y: 0, W: 1000, H: 1000}, 0, noGaps, 0, HPlacementRight, VPlacementBottom)
	if len(rects) != 2 {
		t.Fatalf("expected 2 rects, got %d", len(rects))
	}
	var r1, r2 model.Rect
	for _, r := range rects {
		switch r.Window {
		case w1:
			r1 = r.Rect
		case w2:
			r2 = r.Rect
		}
	}
	// Vertical preselection (Down) stacks the new window below the old one.
	if r1.X != r2.X || r1.W != r2.W {
		t.Errorf("expected windows stacked at same x/width, got %+v vs %+v", r1, r2)
	}
	if r1.Y >= r2.Y {
		t.Errorf("expected existing window above new window, got %+v vs %+v", r1, r2)
	}
}

func TestBSPCollapseOnRemoval(t *testing.T) {
	s := NewBSPLayout()
	id := s.CreateLayout()
	w1, w2 := win(1, 0), win(1, 1)
	s.AddWindowAfterSelection(id, w1)
	s.AddWindowAfterSelection(id, w2)
	s.RemoveWindow(w2)

	rects := s.CalculateLayout(id, screen, 0, noGaps, 0, HPlacementRight, VPlacementBottom)
	if len(rects) != 1 {
		t.Fatalf("expected 1 rect after collapse, got %d", len(rects))
	}
	if !rects[0].Rect.Equal(applyOuterGaps(screen, noGaps)) {
		t.Errorf("expected sole survivor to occupy the full tiling area, got %+v", rects[0].Rect)
	}
}

func TestBSPMoveFocusReturnsRaiseList(t *testing.T) {
	s := NewBSPLayout()
	id := s.CreateLayout()
	w1, w2 := win(1, 0), win(1, 1)
	s.AddWindowAfterSelection(id, w1)
	s.AddWindowAfterSelection(id, w2)

	focus, raise := s.MoveFocus(id, model.DirLeft)
	if focus == nil || *focus != w1 {
		t.Fatalf("expected focus to move to w1, got %v", focus)
	}
	if len(raise) != 2 {
		t.Errorf("expected raise list of 2 windows, got %d", len(raise))
	}
}
