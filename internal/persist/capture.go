package persist

import (
	"github.com/riftwm/riftwm/internal/engine"
	"github.com/riftwm/riftwm/internal/model"
)

// Capture builds a Snapshot from the engine's current state for every
// space in spaces, in the given order. The caller is responsible for
// deciding which spaces to include (typically: every space with at least
// one ensured workspace).
func Capture(eng *engine.Engine, spaces []model.SpaceID) Snapshot {
	snap := Snapshot{Version: FormatVersion}
	for _, space := range spaces {
		snap.Spaces = append(snap.Spaces, captureSpace(eng, space))
	}
	return snap
}

func captureSpace(eng *engine.Engine, space model.SpaceID) SpaceSnapshot {
	list := eng.Workspaces.ListWorkspaces(space)
	out := SpaceSnapshot{Workspaces: make([]WorkspaceSnapshot, 0, len(list))}

	active, hasActive := eng.Workspaces.ActiveWorkspace(space)
	for i, w := range list {
		if hasActive && w.ID == active {
			out.ActiveIndex = i
		}
		out.Workspaces = append(out.Workspaces, captureWorkspace(eng, space, w.ID, w.Name))
	}
	return out
}

func captureWorkspace(eng *engine.Engine, space model.SpaceID, ws model.WorkspaceID, name string) WorkspaceSnapshot {
	snap := WorkspaceSnapshot{Name: name}

	if layoutState, ok := eng.ExportWorkspaceLayout(space, ws); ok {
		snap.Windows = layoutState.Windows
		snap.Selected = layoutState.Selected
	}

	if focused, ok := eng.Workspaces.LastFocusedWindow(space, ws); ok {
		w := focused
		snap.LastFocusedWindow = &w
	}

	for _, fp := range eng.Workspaces.GetWorkspaceFloatingPositions(space, ws) {
		snap.FloatingPositions = append(snap.FloatingPositions, FloatingPosition{Window: fp.Window, Rect: fp.Rect})
	}

	return snap
}
