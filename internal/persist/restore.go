package persist

import (
	"fmt"

	"github.com/riftwm/riftwm/internal/engine"
	"github.com/riftwm/riftwm/internal/model"
)

// Apply restores snap into eng. spaces must have the same length as
// snap.Spaces; spaces[i] is the live (freshly discovered) SpaceID that
// snap.Spaces[i] should be restored into — SpaceID and WorkspaceID are
// both compositor/slot-map assigned and not stable across a restart, so
// the caller supplies the current mapping rather than Apply guessing one.
func Apply(eng *engine.Engine, snap Snapshot, spaces []model.SpaceID) error {
	if len(spaces) != len(snap.Spaces) {
		return fmt.Errorf("persist: restore: %d spaces supplied, snapshot has %d", len(spaces), len(snap.Spaces))
	}
	for i, space := range spaces {
		applySpace(eng, space, snap.Spaces[i])
	}
	return nil
}

func applySpace(eng *engine.Engine, space model.SpaceID, snap SpaceSnapshot) {
	names := make([]string, len(snap.Workspaces))
	for i, w := range snap.Workspaces {
		names[i] = w.Name
	}
	eng.Workspaces.EnsureSpace(space, len(snap.Workspaces), names)

	list := eng.Workspaces.ListWorkspaces(space)
	for i, wsSnap := range snap.Workspaces {
		if i >= len(list) {
			break
		}
		applyWorkspace(eng, space, list[i].ID, wsSnap)
	}
	if snap.ActiveIndex >= 0 && snap.ActiveIndex < len(list) {
		eng.Workspaces.SetActiveWorkspace(space, list[snap.ActiveIndex].ID)
	}
}

func applyWorkspace(eng *engine.Engine, space model.SpaceID, ws model.WorkspaceID, snap WorkspaceSnapshot) {
	for _, w := range snap.Windows {
		eng.Workspaces.AssignWindowToWorkspace(space, w, ws)
	}
	eng.ImportWorkspaceLayout(space, ws, engine.WorkspaceLayoutState{
		Windows:  snap.Windows,
		Selected: snap.Selected,
	})

	if snap.LastFocusedWindow != nil {
		eng.Workspaces.SetLastFocusedWindow(space, ws, *snap.LastFocusedWindow)
	}
	for _, fp := range snap.FloatingPositions {
		eng.Workspaces.SetFloatingPosition(space, ws, fp.Window, fp.Rect)
	}
}
