package layout

import (
	"testing"

	"github.com/riftwm/riftwm/internal/model"
)

func TestDwindleChoosesOrientationFromAspectRatio(t *testing.T) {
	s := NewDwindleLayout()
	id := s.CreateLayout()
	wide := model.Rect{X: 0, Y: 0, W: 2000, H: 1000}

	w1 := win(1, 0)
	s.AddWindowAfterSelection(id, w1)
	s.CalculateLayout(id, wide, 0, noGaps, 0, HPlacementRight, VPlacementBottom)

	w2 := win(1, 1)
	s.AddWindowAfterSelection(id, w2)
	rects := s.CalculateLayout(id, wide, 0, noGaps, 0, HPlacementRight, VPlacementBottom)

	var r1, r2 model.Rect
	for _, r := range rects {
		if r.Window == w1 {
			r1 = r.Rect
		} else {
			r2 = r.Rect
		}
	}
	// A wide screen should dwindle into a side-by-side (horizontal) split.
	if r1.Y != r2.Y {
		t.Errorf("expected side-by-side split on a wide screen, got %+v vs %+v", r1, r2)
	}
}

func TestDwindlePreservedFlagSurvivesReorient(t *testing.T) {
	s := NewDwindleLayout()
	id := s.CreateLayout()
	wide := model.Rect{X: 0, Y: 0, W: 2000, H: 1000}
	w1, w2 := win(1, 0), win(1, 1)
	s.AddWindowAfterSelection(id, w1)
	s.CalculateLayout(id, wide, 0, noGaps, 0, HPlacementRight, VPlacementBottom)
	s.AddWindowAfterSelection(id, w2)
	s.CalculateLayout(id, wide, 0, noGaps, 0, HPlacementRight, VPlacementBottom)

	s.ToggleTileOrientation(id)
	rects := s.CalculateLayout(id, wide, 0, noGaps, 0, HPlacementRight, VPlacementBottom)
	var r1, r2 model.Rect
	for _, r := range rects {
		if r.Window == w1 {
			r1 = r.Rect
		} else {
			r2 = r.Rect
		}
	}
	// After an explicit toggle the split should stay stacked even though
	// the screen is wide, because the toggle pins (preserves) it.
	if r1.X != r2.X {
		t.Errorf("expected preserved stacked split to survive a wide-screen layout pass, got %+v vs %+v", r1, r2)
	}
}

func TestDwindleRemovalCollapses(t *testing.T) {
	s := NewDwindleLayout()
	id := s.CreateLayout()
	w1, w2, w3 := win(1, 0), win(1, 1), win(1, 2)
	s.AddWindowAfterSelection(id, w1)
	s.AddWindowAfterSelection(id, w2)
	s.AddWindowAfterSelection(id, w3)
	s.RemoveWindow(w3)
	s.RemoveWindow(w2)

	got := s.VisibleWindowsInLayout(id)
	if len(got) != 1 || got[0] != w1 {
		t.Fatalf("expected only w1 to survive, got %v", got)
	}
	rects := s.CalculateLayout(id, screen, 0, noGaps, 0, HPlacementRight, VPlacementBottom)
	if len(rects) != 1 {
		t.Fatalf("expected 1 rect, got %d", len(rects))
	}
}
