package engine

import (
	"testing"

	"github.com/riftwm/riftwm/internal/model"
)

func win(pid int32, idx uint32) model.WindowID {
	return model.WindowID{Pid: model.AppPid(pid), Index: idx}
}

func TestEnsureSpaceLazilyCreatesDefaultWorkspaceCount(t *testing.T) {
	e := NewEngine(StrategyBSP, 3, nil)
	space := model.SpaceID(1)
	e.EnsureSpace(space, nil)

	if len(e.Workspaces.ListWorkspaces(space)) != 3 {
		t.Fatalf("expected 3 workspaces, got %d", len(e.Workspaces.ListWorkspaces(space)))
	}
}

func TestConsumeWindowAddedPlacesWindowInActiveWorkspaceLayout(t *testing.T) {
	e := NewEngine(StrategyBSP, 1, nil)
	space := model.SpaceID(1)
	e.EnsureSpace(space, nil)
	w := win(1, 0)

	e.Consume(space, LayoutEvent{Kind: EventWindowAdded, Window: w})

	ws, _ := e.Workspaces.ActiveWorkspace(space)
	v, _ := e.Workspaces.Workspace(space, ws)
	visible := e.sys.VisibleWindowsInLayout(v.LayoutID)
	if len(visible) != 1 || visible[0] != w {
		t.Fatalf("expected window to be visible in active workspace layout, got %v", visible)
	}
}

func TestDispatchWorkspaceNextCyclesAndReportsChange(t *testing.T) {
	e := NewEngine(StrategyTraditional, 2, nil)
	space := model.SpaceID(1)
	e.EnsureSpace(space, nil)
	list := e.Workspaces.ListWorkspaces(space)

	resp := e.Dispatch(space, Command{Kind: CmdWorkspaceNext})
	if resp.WorkspaceChangedTo == nil || *resp.WorkspaceChangedTo != list[1].ID {
		t.Fatalf("expected workspace change to %v, got %v", list[1].ID, resp.WorkspaceChangedTo)
	}

	resp = e.Dispatch(space, Command{Kind: CmdWorkspaceNext})
	if resp.WorkspaceChangedTo == nil || *resp.WorkspaceChangedTo != list[0].ID {
		t.Fatalf("expected wraparound to %v, got %v", list[0].ID, resp.WorkspaceChangedTo)
	}
}

func TestDispatchWorkspaceSwitchRestoresLastFocusedWindow(t *testing.T) {
	e := NewEngine(StrategyTraditional, 2, nil)
	space := model.SpaceID(1)
	e.EnsureSpace(space, nil)
	list := e.Workspaces.ListWorkspaces(space)
	w := win(1, 0)
	e.Workspaces.SetLastFocusedWindow(space, list[1].ID, w)

	resp := e.Dispatch(space, Command{Kind: CmdWorkspaceSwitch, TargetWorkspace: list[1].ID})
	if resp.FocusWindow == nil || *resp.FocusWindow != w {
		t.Fatalf("expected focus to restore to %v, got %v", w, resp.FocusWindow)
	}
}

func TestMoveWindowToWorkspaceTransfersLayoutMembership(t *testing.T) {
	e := NewEngine(StrategyTraditional, 2, nil)
	space := model.SpaceID(1)
	e.EnsureSpace(space, nil)
	list := e.Workspaces.ListWorkspaces(space)
	w := win(1, 0)

	e.Consume(space, LayoutEvent{Kind: EventWindowAdded, Window: w})
	e.Dispatch(space, Command{Kind: CmdMoveWindowToWorkspace, Window: w, TargetWorkspace: list[1].ID})

	v0, _ := e.Workspaces.Workspace(space, list[0].ID)
	v1, _ := e.Workspaces.Workspace(space, list[1].ID)
	if len(e.sys.VisibleWindowsInLayout(v0.LayoutID)) != 0 {
		t.Fatal("expected window removed from the source workspace's layout")
	}
	if visible := e.sys.VisibleWindowsInLayout(v1.LayoutID); len(visible) != 1 || visible[0] != w {
		t.Fatalf("expected window present in the target workspace's layout, got %v", visible)
	}
}

func TestConsumeWindowRemovedClearsWorkspaceAndLayout(t *testing.T) {
	e := NewEngine(StrategyBSP, 1, nil)
	space := model.SpaceID(1)
	e.EnsureSpace(space, nil)
	w := win(1, 0)
	e.Consume(space, LayoutEvent{Kind: EventWindowAdded, Window: w})

	e.Consume(space, LayoutEvent{Kind: EventWindowRemoved, Window: w})

	if _, ok := e.Workspaces.WorkspaceForWindow(space, w); ok {
		t.Fatal("expected window to have no workspace assignment after removal")
	}
	ws, _ := e.Workspaces.ActiveWorkspace(space)
	v, _ := e.Workspaces.Workspace(space, ws)
	if visible := e.sys.VisibleWindowsInLayout(v.LayoutID); len(visible) != 0 {
		t.Fatalf("expected window removed from the active workspace's layout, got %v", visible)
	}
}
