package animation

import (
	"testing"

	"github.com/riftwm/riftwm/internal/model"
	"github.com/riftwm/riftwm/internal/txn"
)

type recordingRequester struct {
	requests []FrameRequest
}

func (r *recordingRequester) SetWindowFrame(req FrameRequest) error {
	r.requests = append(r.requests, req)
	return nil
}

func wsidOfAll(w model.WindowID) (model.WindowServerID, bool) {
	return model.WindowServerID(w.Pid), true
}

func TestApplyInstantSendsTargetRectImmediately(t *testing.T) {
	rec := &recordingRequester{}
	m := NewManager(Config{Animate: false}, txn.NewManager(), rec, wsidOfAll)
	w := model.WindowID{Pid: 1, Index: 0}

	changed := m.Apply(false, []Transition{{
		Window: w,
		Prev:   model.Rect{W: 100, H: 100},
		Target: model.Rect{W: 200, H: 200},
	}}, 0, 0)

	if !changed {
		t.Fatal("expected a differing frame to report changed")
	}
	if len(rec.requests) != 1 || !rec.requests[0].Rect.Equal(model.Rect{W: 200, H: 200}) {
		t.Fatalf("expected the instant apply to request the target rect, got %+v", rec.requests)
	}
	if rec.requests[0].Animate {
		t.Fatal("expected Animate=false on an instant apply")
	}
}

func TestApplyAnimatedInterpolatesPartway(t *testing.T) {
	rec := &recordingRequester{}
	m := NewManager(Config{Animate: true, DurationMs: 200, FPS: 60, Easing: EaseLinear}, txn.NewManager(), rec, wsidOfAll)
	w := model.WindowID{Pid: 1, Index: 0}

	m.Apply(true, []Transition{{
		Window: w,
		Prev:   model.Rect{X: 0, W: 100, H: 100},
		Target: model.Rect{X: 100, W: 100, H: 100},
	}}, 6, 12)

	if len(rec.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(rec.requests))
	}
	if rec.requests[0].Rect.X != 50 {
		t.Fatalf("expected linear halfway interpolation (X=50), got %v", rec.requests[0].Rect.X)
	}
	if !rec.requests[0].Animate {
		t.Fatal("expected Animate=true on an animated apply")
	}
}

func TestApplyReportsNoChangeWhenAllFramesAreEqual(t *testing.T) {
	rec := &recordingRequester{}
	m := NewManager(Config{Animate: false}, txn.NewManager(), rec, wsidOfAll)
	w := model.WindowID{Pid: 1, Index: 0}

	changed := m.Apply(false, []Transition{{
		Window: w,
		Prev:   model.Rect{W: 100, H: 100},
		Target: model.Rect{W: 100, H: 100},
	}}, 0, 0)

	if changed {
		t.Fatal("expected no change when prev == target")
	}
	if len(rec.requests) != 0 {
		t.Fatal("expected no request to be issued for an unchanged frame")
	}
}

func TestShouldAnimateForcesInstantDuringWorkspaceSwitch(t *testing.T) {
	m := NewManager(Config{Animate: true}, txn.NewManager(), nil, wsidOfAll)
	if m.ShouldAnimate(true) {
		t.Fatal("expected instant apply while a workspace switch is in progress")
	}
	if !m.ShouldAnimate(false) {
		t.Fatal("expected animated apply outside a workspace switch")
	}
}
