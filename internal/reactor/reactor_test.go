package reactor

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/riftwm/riftwm/internal/animation"
	"github.com/riftwm/riftwm/internal/engine"
	"github.com/riftwm/riftwm/internal/gates"
	"github.com/riftwm/riftwm/internal/layout"
	"github.com/riftwm/riftwm/internal/model"
)

type recordingFrameRequester struct {
	requests []animation.FrameRequest
}

func (r *recordingFrameRequester) SetWindowFrame(req animation.FrameRequest) error {
	r.requests = append(r.requests, req)
	return nil
}

func win(pid int32, idx uint32) model.WindowID {
	return model.WindowID{Pid: model.AppPid(pid), Index: idx}
}

func newTestReactor() *Reactor {
	eng := engine.NewEngine(engine.StrategyBSP, 1, nil)
	return New(eng, Collaborators{}, zerolog.Nop())
}

func TestStaleFrameChangeIsIgnored(t *testing.T) {
	r := newTestReactor()
	space := model.SpaceID(1)
	r.Engine.EnsureSpace(space, nil)
	r.Screens.ReplaceScreens([]model.Screen{{ID: 1, Frame: model.Rect{W: 1000, H: 1000}, Space: &space}})

	w := win(1, 0)
	wsid := model.WindowServerID(5)
	original := model.Rect{X: 0, Y: 0, W: 100, H: 100}
	r.Windows.Upsert(model.WindowState{ID: w, WindowServerID: &wsid, Frame: original})

	// Two outbound requests: the second's txid (2) is what the reactor
	// considers current.
	r.Txns.BeginRequest(wsid, model.Rect{X: 10, Y: 10, W: 100, H: 100})
	r.Txns.BeginRequest(wsid, model.Rect{X: 20, Y: 20, W: 100, H: 100})

	// An inbound frame-changed event echoing the stale (first) txid must
	// be ignored entirely, per spec §4.4.
	r.Step(Event{
		Kind: EventWindowFrameChanged, Window: w, WindowServerID: wsid,
		LastSeenTxid: 1, Frame: model.Rect{X: 999, Y: 999, W: 100, H: 100},
	})

	got, _ := r.Windows.Get(w)
	if !got.Frame.Equal(original) {
		t.Fatalf("stale frame change must not mutate window state, got %+v", got.Frame)
	}
}

func TestSettledFrameChangeUpdatesModel(t *testing.T) {
	r := newTestReactor()
	space := model.SpaceID(1)
	r.Engine.EnsureSpace(space, nil)
	r.Screens.ReplaceScreens([]model.Screen{{ID: 1, Frame: model.Rect{W: 1000, H: 1000}, Space: &space}})

	w := win(1, 0)
	wsid := model.WindowServerID(7)
	r.Windows.Upsert(model.WindowState{ID: w, WindowServerID: &wsid})

	target := model.Rect{X: 50, Y: 50, W: 200, H: 200}
	txid := r.Txns.BeginRequest(wsid, target)

	r.Step(Event{
		Kind: EventWindowFrameChanged, Window: w, WindowServerID: wsid,
		LastSeenTxid: txid, Frame: target,
	})

	got, _ := r.Windows.Get(w)
	if !got.Frame.Equal(target) {
		t.Fatalf("settled frame change should update the model, got %+v", got.Frame)
	}
	if r.Txns.HasPending(wsid) {
		t.Fatalf("settled reconciliation should clear the pending record")
	}
}

func TestExternalFrameChangeOnMouseUpUpdatesModel(t *testing.T) {
	r := newTestReactor()
	space := model.SpaceID(1)
	r.Engine.EnsureSpace(space, nil)
	r.Screens.ReplaceScreens([]model.Screen{{ID: 1, Frame: model.Rect{W: 1000, H: 1000}, Space: &space}})

	w := win(1, 0)
	r.Windows.Upsert(model.WindowState{ID: w})
	r.Engine.Consume(space, engine.LayoutEvent{Kind: engine.EventWindowAdded, Window: w})

	newFrame := model.Rect{X: 1, Y: 1, W: 300, H: 300}
	r.Step(Event{Kind: EventWindowFrameChanged, Window: w, Frame: newFrame, MouseDown: false})

	got, _ := r.Windows.Get(w)
	if !got.Frame.Equal(newFrame) {
		t.Fatalf("external frame change must update the model, got %+v", got.Frame)
	}
}

func TestSpaceChangedQueuedWhileMissionControlActive(t *testing.T) {
	r := newTestReactor()
	r.Screens.ReplaceScreens([]model.Screen{{ID: 1}})
	r.MissionControl.Enter()

	r.Step(Event{Kind: EventSpaceChanged, Screen: 1, Space: 42})

	if s, _ := r.Screens.Screen(1); s.Space != nil {
		t.Fatalf("space-changed must not mutate screen->space mapping while mission control is active")
	}
	if r.PendingSpaces.Empty() {
		t.Fatalf("expected the space change to be queued")
	}

	r.Step(Event{Kind: EventMissionControlExited})

	s, _ := r.Screens.Screen(1)
	if s.Space == nil || *s.Space != 42 {
		t.Fatalf("expected queued space change to apply on mission-control exit, got %+v", s.Space)
	}
}

func TestGroupRaiseBatchesSplitsFocusAppIntoSingletons(t *testing.T) {
	app1w1, app1w2 := win(1, 0), win(1, 1)
	app2w1, app2w2 := win(2, 0), win(2, 1)
	focus := app1w2

	batches := GroupRaiseBatches([]model.WindowID{app1w1, app1w2, app2w1, app2w2}, &focus)

	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d: %+v", len(batches), batches)
	}
	if len(batches[0].Windows) != 1 || batches[0].Windows[0] != focus {
		t.Fatalf("expected the focus window alone in the first batch, got %+v", batches[0])
	}
	if len(batches[1].Windows) != 1 || batches[1].Windows[0] != app1w1 {
		t.Fatalf("expected the focus app's other window alone in the second batch, got %+v", batches[1])
	}
	if len(batches[2].Windows) != 2 {
		t.Fatalf("expected the non-focus app's windows grouped into one batch, got %+v", batches[2])
	}
}

func TestGroupRaiseBatchesWithoutFocusGroupsPerApp(t *testing.T) {
	app1w1, app1w2 := win(1, 0), win(1, 1)
	app2w1 := win(2, 0)

	batches := GroupRaiseBatches([]model.WindowID{app1w1, app1w2, app2w1}, nil)

	if len(batches) != 2 {
		t.Fatalf("expected 2 per-app batches, got %d: %+v", len(batches), batches)
	}
	if len(batches[0].Windows) != 2 {
		t.Fatalf("expected app 1's windows grouped, got %+v", batches[0])
	}
	if len(batches[1].Windows) != 1 {
		t.Fatalf("expected app 2's window alone, got %+v", batches[1])
	}
}

func TestWorkspaceSwitchGenerationInvalidatesLateAnimationTick(t *testing.T) {
	r := newTestReactor()
	space := model.SpaceID(1)
	stale := r.Switch.BeginSwitch(gates.OriginAuto)
	r.Switch.EndSwitch()
	r.Switch.BeginSwitch(gates.OriginAuto)
	r.Switch.EndSwitch()

	r.animSessions[space] = &animSession{generation: stale, total: 4, frame: 1}
	r.Step(Event{Kind: EventAnimationTick, Space: space})

	if _, ok := r.animSessions[space]; ok {
		t.Fatalf("a tick stamped with a stale generation must drop the session, not advance it")
	}
}

func TestWindowDestroyedDetachesFromLayoutTree(t *testing.T) {
	r := newTestReactor()
	space := model.SpaceID(1)
	r.Engine.EnsureSpace(space, nil)
	r.Screens.ReplaceScreens([]model.Screen{{ID: 1, Frame: model.Rect{W: 800, H: 600}, Space: &space}})

	w := win(9, 0)
	r.Windows.Upsert(model.WindowState{ID: w})
	r.Engine.Consume(space, engine.LayoutEvent{Kind: engine.EventWindowAdded, Window: w})

	r.Step(Event{Kind: EventWindowDestroyed, Window: w})

	if _, ok := r.Windows.Get(w); ok {
		t.Fatalf("destroyed window should be removed from the window store")
	}
	if _, ok := r.Engine.Workspaces.WorkspaceForWindow(space, w); ok {
		t.Fatalf("destroyed window should be detached from its workspace")
	}
	ws, _ := r.Engine.Workspaces.ActiveWorkspace(space)
	if state, ok := r.Engine.ExportWorkspaceLayout(space, ws); !ok || len(state.Windows) != 0 {
		t.Fatalf("destroyed window should be removed from the layout tree, got %+v ok=%v", state, ok)
	}
}

func TestWorkspaceSwitchAppliesFinalFramesInstantly(t *testing.T) {
	eng := engine.NewEngine(engine.StrategyBSP, 2, nil)
	r := New(eng, Collaborators{}, zerolog.Nop())
	r.SetAnimation(animation.NewManager(
		animation.Config{Animate: true, DurationMs: 500, FPS: 60},
		r.Txns, &recordingFrameRequester{},
		func(w model.WindowID) (model.WindowServerID, bool) { return model.WindowServerID(w.Pid), true },
	))

	space := model.SpaceID(1)
	screen := model.Rect{W: 1000, H: 1000}
	r.Engine.EnsureSpace(space, nil)
	r.Screens.ReplaceScreens([]model.Screen{{ID: 1, Frame: screen, Space: &space}})

	workspaces := r.Engine.Workspaces.ListWorkspaces(space)
	if len(workspaces) < 2 {
		t.Fatalf("expected at least 2 workspaces, got %d", len(workspaces))
	}
	target := workspaces[1].ID

	w := win(1, 0)
	r.Windows.Upsert(model.WindowState{ID: w})
	r.Engine.AddWindowToWorkspace(space, target, w)

	r.Step(Event{Kind: EventCommand, Cmd: Command{
		Kind:      CmdLayout,
		Space:     space,
		LayoutCmd: engine.Command{Kind: engine.CmdWorkspaceSwitch, TargetWorkspace: target},
	}})

	want := r.Engine.CalculateLayout(space, screen, 0, 0, layout.HPlacementLeft, layout.VPlacementTop)
	if len(want) != 1 {
		t.Fatalf("expected one window rect in the switched-to workspace's layout, got %d", len(want))
	}
	got, ok := r.Windows.Get(w)
	if !ok {
		t.Fatalf("expected the switched-to workspace's window to still be tracked")
	}
	if !got.Frame.Equal(want[0].Rect) {
		t.Fatalf("workspace switch must land windows on their calculated target frame in the same step, got %+v want %+v", got.Frame, want[0].Rect)
	}
	if _, pending := r.animSessions[space]; pending {
		t.Fatalf("workspace switch must apply instantly, not leave an animated session in flight")
	}
}
