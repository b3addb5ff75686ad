package layout

import (
	"testing"

	"github.com/riftwm/riftwm/internal/model"
)

func allStrategies() map[string]func() System {
	return map[string]func() System{
		"traditional": func() System { return NewTraditionalLayout() },
		"bsp":         func() System { return NewBSPLayout() },
		"dwindle":     func() System { return NewDwindleLayout() },
	}
}

func win(pid int32, idx uint32) model.WindowID {
	return model.WindowID{Pid: model.AppPid(pid), Index: idx}
}

var screen = model.Rect{X: 0, Y: 0, W: 1920, H: 1080}
var noGaps = GapSettings{}

func TestVisibleWindowsAccounting(t *testing.T) {
	for name, factory := range allStrategies() {
		t.Run(name, func(t *testing.T) {
			s := factory()
			id := s.CreateLayout()
			w1, w2, w3 := win(1, 0), win(1, 1), win(2, 0)
			s.AddWindowAfterSelection(id, w1)
			s.AddWindowAfterSelection(id, w2)
			s.AddWindowAfterSelection(id, w3)

			got := s.VisibleWindowsInLayout(id)
			if len(got) != 3 {
				t.Fatalf("expected 3 visible windows, got %d (%v)", len(got), got)
			}
			seen := map[model.WindowID]bool{}
			for _, w := range got {
				seen[w] = true
			}
			for _, w := range []model.WindowID{w1, w2, w3} {
				if !seen[w] {
					t.Errorf("missing window %v in visible set", w)
				}
			}

			s.RemoveWindow(w2)
			got = s.VisibleWindowsInLayout(id)
			if len(got) != 2 {
				t.Fatalf("expected 2 visible windows after removal, got %d", len(got))
			}
		})
	}
}

func TestCalculateLayoutTotalityAndNonOverlap(t *testing.T) {
	for name, factory := range allStrategies() {
		t.Run(name, func(t *testing.T) {
			s := factory()
			id := s.CreateLayout()
			ws := []model.WindowID{win(1, 0), win(1, 1), win(1, 2), win(1, 3)}
			for _, w := range ws {
				s.AddWindowAfterSelection(id, w)
			}
			rects := s.CalculateLayout(id, screen, 0, noGaps, 0, HPlacementRight, VPlacementBottom)
			if len(rects) != len(ws) {
				t.Fatalf("expected %d rects, got %d", len(ws), len(rects))
			}
			for i, a := range rects {
				if a.Rect.W <= 0 || a.Rect.H <= 0 {
					t.Errorf("window %v has non-positive rect %+v", a.Window, a.Rect)
				}
				for j, b := range rects {
					if i == j {
						continue
					}
					if a.Rect.Overlap(b.Rect) > 0.0001 {
						t.Errorf("windows %v and %v overlap: %+v vs %+v", a.Window, b.Window, a.Rect, b.Rect)
					}
				}
			}
		})
	}
}

func TestResizeSelectionByClamps(t *testing.T) {
	for name, factory := range allStrategies() {
		t.Run(name, func(t *testing.T) {
			s := factory()
			id := s.CreateLayout()
			s.AddWindowAfterSelection(id, win(1, 0))
			s.AddWindowAfterSelection(id, win(1, 1))
			for i := 0; i < 50; i++ {
				s.ResizeSelectionBy(id, 0.5)
			}
			rects := s.CalculateLayout(id, screen, 0, noGaps, 0, HPlacementRight, VPlacementBottom)
			for _, r := range rects {
				frac := r.Rect.W / screen.W
				if frac > ResizeClampMax+0.01 {
					t.Errorf("ratio exceeded clamp: %v got width fraction %f", r.Window, frac)
				}
			}
		})
	}
}

func TestFullscreenToggleIdempotence(t *testing.T) {
	for name, factory := range allStrategies() {
		t.Run(name, func(t *testing.T) {
			s := factory()
			id := s.CreateLayout()
			w := win(1, 0)
			s.AddWindowAfterSelection(id, w)
			s.ToggleFullscreen(id)
			s.ToggleFullscreen(id)
			// Outer gaps make the tiled rect differ from the screen rect, so
			// a fullscreen flag left on by the double toggle would show here.
			gaps := GapSettings{OuterTop: 10, OuterBottom: 10, OuterLeft: 10, OuterRight: 10}
			rects := s.CalculateLayout(id, screen, 0, gaps, 0, HPlacementRight, VPlacementBottom)
			if len(rects) != 1 {
				t.Fatalf("expected 1 rect, got %d", len(rects))
			}
			if rects[0].Rect.Equal(screen) {
				t.Errorf("expected non-fullscreen rect after double toggle, got screen-sized rect")
			}
		})
	}
}

func TestSelectedWindowAfterRemovalReseatsToSurvivor(t *testing.T) {
	for name, factory := range allStrategies() {
		t.Run(name, func(t *testing.T) {
			s := factory()
			id := s.CreateLayout()
			w1, w2 := win(1, 0), win(1, 1)
			s.AddWindowAfterSelection(id, w1)
			s.AddWindowAfterSelection(id, w2)
			if !s.SelectWindow(id, w2) {
				t.Fatal("SelectWindow w2 failed")
			}
			s.RemoveWindow(w2)
			got, ok := s.SelectedWindow(id)
			if !ok {
				t.Fatal("expected a selected window after removal")
			}
			if got != w1 {
				t.Errorf("expected selection to fall back to w1, got %v", got)
			}
		})
	}
}

func TestRemovingUnknownWindowIsNoOp(t *testing.T) {
	for name, factory := range allStrategies() {
		t.Run(name, func(t *testing.T) {
			s := factory()
			id := s.CreateLayout()
			s.AddWindowAfterSelection(id, win(1, 0))
			s.RemoveWindow(win(99, 99))
			if len(s.VisibleWindowsInLayout(id)) != 1 {
				t.Fatalf("unknown-window removal mutated the layout")
			}
		})
	}
}

func TestSwapWindows(t *testing.T) {
	for name, factory := range allStrategies() {
		t.Run(name, func(t *testing.T) {
			s := factory()
			id := s.CreateLayout()
			w1, w2 := win(1, 0), win(1, 1)
			s.AddWindowAfterSelection(id, w1)
			s.AddWindowAfterSelection(id, w2)
			if !s.SwapWindows(id, w1, w2) {
				t.Fatal("SwapWindows reported failure")
			}
			if !s.SwapWindows(id, w1, w2) {
				t.Fatal("second swap should also succeed (back to original)")
			}
			if s.SwapWindows(id, w1, win(5, 5)) {
				t.Error("swap involving unknown window should fail")
			}
		})
	}
}
