package persist

import (
	"testing"

	"github.com/riftwm/riftwm/internal/engine"
	"github.com/riftwm/riftwm/internal/model"
)

func win(pid int32, idx uint32) model.WindowID {
	return model.WindowID{Pid: model.AppPid(pid), Index: idx}
}

func buildEngine(t *testing.T) (*engine.Engine, model.SpaceID) {
	t.Helper()
	e := engine.NewEngine(engine.StrategyBSP, 2, nil)
	space := model.SpaceID(1)
	e.EnsureSpace(space, []string{"code", "mail"})

	list := e.Workspaces.ListWorkspaces(space)
	e.Workspaces.SetActiveWorkspace(space, list[1].ID)

	a, b := win(1, 0), win(2, 0)
	e.Consume(space, engine.LayoutEvent{Kind: engine.EventWindowAdded, Window: a})
	e.Consume(space, engine.LayoutEvent{Kind: engine.EventWindowAdded, Window: b})
	e.Workspaces.SetLastFocusedWindow(space, list[1].ID, b)
	e.Workspaces.SetFloatingPosition(space, list[1].ID, a, model.Rect{X: 1, Y: 2, W: 3, H: 4})

	return e, space
}

func TestCaptureThenApplyRoundTripsWorkspaceState(t *testing.T) {
	e, space := buildEngine(t)

	snap := Capture(e, []model.SpaceID{space})
	if len(snap.Spaces) != 1 {
		t.Fatalf("expected 1 space, got %d", len(snap.Spaces))
	}
	if snap.Spaces[0].ActiveIndex != 1 {
		t.Fatalf("expected active index 1 (mail), got %d", snap.Spaces[0].ActiveIndex)
	}
	if len(snap.Spaces[0].Workspaces) != 2 {
		t.Fatalf("expected 2 workspaces, got %d", len(snap.Spaces[0].Workspaces))
	}
	mail := snap.Spaces[0].Workspaces[1]
	if len(mail.Windows) != 2 {
		t.Fatalf("expected 2 windows in mail workspace, got %d", len(mail.Windows))
	}
	if mail.LastFocusedWindow == nil || *mail.LastFocusedWindow != win(2, 0) {
		t.Fatalf("expected last focused window to round-trip, got %+v", mail.LastFocusedWindow)
	}
	if len(mail.FloatingPositions) != 1 || mail.FloatingPositions[0].Rect.W != 3 {
		t.Fatalf("expected floating position to round-trip, got %+v", mail.FloatingPositions)
	}

	restored := engine.NewEngine(engine.StrategyBSP, 2, nil)
	newSpace := model.SpaceID(99)
	if err := Apply(restored, snap, []model.SpaceID{newSpace}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	restoredList := restored.Workspaces.ListWorkspaces(newSpace)
	if len(restoredList) != 2 || restoredList[1].Name != "mail" {
		t.Fatalf("expected restored workspace names to round-trip, got %+v", restoredList)
	}
	active, ok := restored.Workspaces.ActiveWorkspace(newSpace)
	if !ok || active != restoredList[1].ID {
		t.Fatalf("expected mail workspace to be restored as active")
	}
	focused, ok := restored.Workspaces.LastFocusedWindow(newSpace, restoredList[1].ID)
	if !ok || focused != win(2, 0) {
		t.Fatalf("expected last focused window to restore, got %v ok=%v", focused, ok)
	}
	layoutState, ok := restored.ExportWorkspaceLayout(newSpace, restoredList[1].ID)
	if !ok || len(layoutState.Windows) != 2 {
		t.Fatalf("expected 2 windows restored into layout, got %+v", layoutState)
	}
}

func TestApplyRejectsMismatchedSpaceCount(t *testing.T) {
	snap := Snapshot{Spaces: []SpaceSnapshot{{}}}
	e := engine.NewEngine(engine.StrategyBSP, 1, nil)
	if err := Apply(e, snap, nil); err == nil {
		t.Fatal("expected error on space-count mismatch")
	}
}
