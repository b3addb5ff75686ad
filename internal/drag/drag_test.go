package drag

import (
	"testing"

	"github.com/riftwm/riftwm/internal/model"
)

func win(pid int32, idx uint32) model.WindowID {
	return model.WindowID{Pid: model.AppPid(pid), Index: idx}
}

func TestFirstFrameChangeWhileMouseDownActivatesSession(t *testing.T) {
	m := NewManager(0.5)
	w := win(1, 0)
	m.OnFrameChanged(true, w, model.Rect{X: 0, Y: 0, W: 100, H: 100})
	if m.State() != StateActive {
		t.Fatalf("expected Active, got %v", m.State())
	}
}

func TestFrameChangeWithoutMouseDownStaysInactive(t *testing.T) {
	m := NewManager(0.5)
	m.OnFrameChanged(false, win(1, 0), model.Rect{W: 100, H: 100})
	if m.State() != StateInactive {
		t.Fatal("expected to stay Inactive without the mouse down")
	}
}

func TestSizeChangeMarksLayoutDirtyAndTriggersRecalcOnMouseUp(t *testing.T) {
	m := NewManager(0.5)
	w := win(1, 0)
	m.OnFrameChanged(true, w, model.Rect{X: 0, Y: 0, W: 100, H: 100})
	m.OnFrameChanged(true, w, model.Rect{X: 0, Y: 0, W: 150, H: 100})

	action, _, _ := m.OnMouseUp()
	if action != ActionRecalc {
		t.Fatalf("expected ActionRecalc, got %v", action)
	}
	if m.State() != StateInactive {
		t.Fatal("expected Inactive after mouse-up")
	}
}

func TestOverlapPastThresholdArmsPendingSwap(t *testing.T) {
	m := NewManager(0.5)
	w := win(1, 0)
	other := win(2, 0)
	m.OnFrameChanged(true, w, model.Rect{X: 0, Y: 0, W: 100, H: 100})
	m.OnFrameChanged(true, w, model.Rect{X: 60, Y: 0, W: 100, H: 100})

	m.CheckOverlap([]Candidate{{Window: other, Rect: model.Rect{X: 100, Y: 0, W: 100, H: 100}}})
	if m.State() != StatePendingSwap {
		t.Fatalf("expected PendingSwap, got %v", m.State())
	}

	action, a, b := m.OnMouseUp()
	if action != ActionSwapAndRecalc || a != w || b != other {
		t.Fatalf("expected swap(%v,%v), got action=%v a=%v b=%v", w, other, action, a, b)
	}
}

func TestOverlapBelowThresholdStaysActive(t *testing.T) {
	m := NewManager(0.9)
	w := win(1, 0)
	other := win(2, 0)
	m.OnFrameChanged(true, w, model.Rect{X: 0, Y: 0, W: 100, H: 100})
	m.OnFrameChanged(true, w, model.Rect{X: 60, Y: 0, W: 100, H: 100})

	m.CheckOverlap([]Candidate{{Window: other, Rect: model.Rect{X: 100, Y: 0, W: 100, H: 100}}})
	if m.State() != StateActive {
		t.Fatalf("expected to stay Active below threshold, got %v", m.State())
	}
}

func TestDestructionOfParticipatingWindowResetsToInactive(t *testing.T) {
	m := NewManager(0.5)
	w := win(1, 0)
	m.OnFrameChanged(true, w, model.Rect{W: 100, H: 100})
	m.OnWindowDestroyed(w)
	if m.State() != StateInactive {
		t.Fatal("expected Inactive after the dragged window is destroyed")
	}
}

func TestDestructionOfUnrelatedWindowDoesNotResetSession(t *testing.T) {
	m := NewManager(0.5)
	w := win(1, 0)
	m.OnFrameChanged(true, w, model.Rect{W: 100, H: 100})
	m.OnWindowDestroyed(win(99, 0))
	if m.State() != StateActive {
		t.Fatal("expected unrelated destruction to leave the session Active")
	}
}
