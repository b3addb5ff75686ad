package reactor

import (
	"github.com/riftwm/riftwm/internal/engine"
	"github.com/riftwm/riftwm/internal/model"
	"github.com/riftwm/riftwm/internal/store"
	"github.com/riftwm/riftwm/internal/workspace"
)

// handleWindowsDiscovered implements spec §4.8 end to end: stale-window
// cleanup, upsert of newly discovered windows with recomputed
// manageability, and app-rule assignment into ev.Space's workspaces.
func (r *Reactor) handleWindowsDiscovered(ev Event) {
	if !r.staleCleanupSuppressed() {
		r.cleanupStaleWindows(ev.DiscoveryPid, ev.KnownVisible)
	}

	var onScreen []model.WindowID
	for _, dw := range ev.DiscoveredNew {
		r.upsertDiscoveredWindow(ev.Space, dw)
		onScreen = append(onScreen, dw.Window)
	}

	if len(onScreen) > 0 {
		r.Engine.Consume(ev.Space, engine.LayoutEvent{Kind: engine.EventWindowsOnScreenUpdated, Windows: onScreen})
		r.relayout(ev.Space)
	}

	if ev.IsMainForPid {
		if windows := r.Windows.WindowsForApp(ev.DiscoveryPid); len(windows) > 0 {
			if ws, ok := r.Engine.Workspaces.WorkspaceForWindow(ev.Space, windows[0]); ok {
				r.Engine.Workspaces.SetLastFocusedWindow(ev.Space, ws, windows[0])
			}
			r.notifyFocus(windows[0])
		}
	}
}

// cleanupStaleWindows emits a destroy for every window the reactor
// believes pid still has on screen but that neither appears in
// knownVisible nor (by construction, since the caller already filtered
// its compositor query to the active space) is reachable there.
func (r *Reactor) cleanupStaleWindows(pid model.AppPid, knownVisible []model.WindowID) {
	visible := make(map[model.WindowID]bool, len(knownVisible))
	for _, w := range knownVisible {
		visible[w] = true
	}

	for _, w := range r.Windows.WindowsForApp(pid) {
		if visible[w] {
			continue
		}
		state, ok := r.Windows.Get(w)
		if !ok || state.Flags.Minimized {
			// A minimized window is not "visible" by definition; its
			// absence from knownVisible doesn't make it stale.
			continue
		}
		r.Step(Event{Kind: EventWindowDestroyed, Window: w})
	}
}

// upsertDiscoveredWindow creates or refreshes dw's WindowState,
// recomputes manageability from (role, subrole, minimized, layer == 0),
// and assigns it to a workspace via the app-rule matcher.
func (r *Reactor) upsertDiscoveredWindow(space model.SpaceID, dw DiscoveredWindow) {
	layerZero := dw.Layer == 0
	flags := model.WindowFlags{
		AXStandard: dw.Role == "AXWindow" || dw.Role == "",
		Minimized:  dw.Minimized,
	}
	state := model.WindowState{
		ID:       dw.Window,
		Title:    dw.Title,
		BundleID: dw.BundleID,
		Role:     dw.Role,
		Subrole:  dw.Subrole,
		Flags:    flags,
	}
	state.Flags.Manageable = state.ComputeManageable(layerZero)
	r.Windows.Upsert(state)

	if dw.WindowServerID != 0 {
		r.Windows.SetWindowServerID(dw.Window, dw.WindowServerID)
		r.WSInfo.Set(dw.WindowServerID, store.WindowServerInfo{Layer: dw.Layer, OnScreen: true})
	}

	if _, already := r.Engine.Workspaces.WorkspaceForWindow(space, dw.Window); already {
		return
	}
	result := r.Engine.Workspaces.AssignWindowWithAppInfo(dw.Window, space, workspace.WindowInfo{
		BundleID: dw.BundleID,
		AppName:  dw.AppName,
		Title:    dw.Title,
		Role:     dw.Role,
		Subrole:  dw.Subrole,
	})
	if result.Managed {
		r.Engine.AddWindowToWorkspace(space, result.Workspace, dw.Window)
	}
}
