package workspace

import (
	"testing"

	"github.com/riftwm/riftwm/internal/model"
)

func newTestManager(rules []AppRule) *Manager {
	var next model.LayoutID
	return NewManager(rules, func() model.LayoutID {
		next++
		return next
	})
}

func TestEnsureSpaceCreatesWorkspacesAndActivatesFirst(t *testing.T) {
	m := newTestManager(nil)
	space := model.SpaceID(1)
	m.EnsureSpace(space, 3, nil)

	ws := m.ListWorkspaces(space)
	if len(ws) != 3 {
		t.Fatalf("expected 3 workspaces, got %d", len(ws))
	}
	active, ok := m.ActiveWorkspace(space)
	if !ok || active != ws[0].ID {
		t.Fatalf("expected first workspace active, got %v ok=%v", active, ok)
	}
}

func TestAssignWindowWithAppInfoDefaultsToActiveWorkspace(t *testing.T) {
	m := newTestManager(nil)
	space := model.SpaceID(1)
	m.EnsureSpace(space, 2, nil)
	w := model.WindowID{Pid: 1, Index: 0}

	result := m.AssignWindowWithAppInfo(w, space, WindowInfo{BundleID: "com.example.app"})
	if !result.Managed {
		t.Fatal("expected window to be managed with no matching rules")
	}
	active, _ := m.ActiveWorkspace(space)
	if result.Workspace != active {
		t.Fatalf("expected assignment to active workspace %v, got %v", active, result.Workspace)
	}
	got, ok := m.WorkspaceForWindow(space, w)
	if !ok || got != active {
		t.Fatalf("expected WorkspaceForWindow to report %v, got %v ok=%v", active, got, ok)
	}
}

func TestAppRuleFirstMatchWinsInDeclarationOrder(t *testing.T) {
	idx0, idx1 := 0, 1
	m := newTestManager([]AppRule{
		{BundleGlob: "com.example.*", Workspace: WorkspaceSelector{Index: &idx0}, Manage: true},
		{AppNameSubstring: "example", Workspace: WorkspaceSelector{Index: &idx1}, Manage: true},
	})
	space := model.SpaceID(1)
	m.EnsureSpace(space, 2, nil)
	w := model.WindowID{Pid: 1, Index: 0}

	result := m.AssignWindowWithAppInfo(w, space, WindowInfo{BundleID: "com.example.app", AppName: "Example"})
	ws := m.ListWorkspaces(space)
	if result.Workspace != ws[0].ID {
		t.Fatalf("expected the first matching rule (index 0) to win, got workspace %v", result.Workspace)
	}
}

func TestUnmanagedRuleRemovesFromWorkspace(t *testing.T) {
	m := newTestManager([]AppRule{
		{AppNameSubstring: "ignoreme", Manage: false},
	})
	space := model.SpaceID(1)
	m.EnsureSpace(space, 1, nil)
	w := model.WindowID{Pid: 1, Index: 0}

	result := m.AssignWindowWithAppInfo(w, space, WindowInfo{AppName: "IgnoreMe App"})
	if result.Managed {
		t.Fatal("expected unmanaged result")
	}
	if !m.IsUnmanaged(w) {
		t.Fatal("expected window to be marked unmanaged")
	}
	if _, ok := m.WorkspaceForWindow(space, w); ok {
		t.Fatal("expected unmanaged window to have no workspace assignment")
	}
}

func TestAssignWindowToWorkspaceDetachesFromPrevious(t *testing.T) {
	m := newTestManager(nil)
	space := model.SpaceID(1)
	m.EnsureSpace(space, 2, nil)
	ws := m.ListWorkspaces(space)
	w := model.WindowID{Pid: 1, Index: 0}

	m.AssignWindowToWorkspace(space, w, ws[0].ID)
	m.AssignWindowToWorkspace(space, w, ws[1].ID)

	v0, _ := m.Workspace(space, ws[0].ID)
	v1, _ := m.Workspace(space, ws[1].ID)
	if v0.Managed[w] {
		t.Fatal("expected window to be detached from the first workspace")
	}
	if !v1.Managed[w] {
		t.Fatal("expected window to be present in the second workspace")
	}
}

func TestLastFocusedWindowMemory(t *testing.T) {
	m := newTestManager(nil)
	space := model.SpaceID(1)
	m.EnsureSpace(space, 1, nil)
	ws := m.ListWorkspaces(space)[0].ID
	w := model.WindowID{Pid: 1, Index: 0}

	if _, ok := m.LastFocusedWindow(space, ws); ok {
		t.Fatal("expected no last-focused window initially")
	}
	m.SetLastFocusedWindow(space, ws, w)
	got, ok := m.LastFocusedWindow(space, ws)
	if !ok || got != w {
		t.Fatalf("expected last-focused window %v, got %v ok=%v", w, got, ok)
	}
}

func TestFloatingPositionMemory(t *testing.T) {
	m := newTestManager(nil)
	space := model.SpaceID(1)
	m.EnsureSpace(space, 1, nil)
	ws := m.ListWorkspaces(space)[0].ID
	w := model.WindowID{Pid: 1, Index: 0}
	rect := model.Rect{X: 10, Y: 20, W: 300, H: 400}

	m.SetFloatingPosition(space, ws, w, rect)
	positions := m.GetWorkspaceFloatingPositions(space, ws)
	if len(positions) != 1 || positions[0].Window != w || !positions[0].Rect.Equal(rect) {
		t.Fatalf("expected floating position to round-trip, got %+v", positions)
	}
}

func TestTitleRegexPredicate(t *testing.T) {
	m := newTestManager([]AppRule{
		{TitlePattern: `^Inbox \(\d+\)$`, TitleIsRegex: true, Manage: true},
	})
	space := model.SpaceID(1)
	m.EnsureSpace(space, 1, nil)

	w1 := model.WindowID{Pid: 1, Index: 0}
	r1 := m.AssignWindowWithAppInfo(w1, space, WindowInfo{Title: "Inbox (3)"})
	if !r1.Managed {
		t.Fatal("expected title regex to match")
	}
}
