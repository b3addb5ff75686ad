package reactor

import (
	"time"

	"github.com/riftwm/riftwm/internal/engine"
	"github.com/riftwm/riftwm/internal/gates"
	"github.com/riftwm/riftwm/internal/model"
	"github.com/riftwm/riftwm/internal/txn"
	"github.com/riftwm/riftwm/internal/workspace"
)

func (r *Reactor) handleAppLaunched(ev Event) {
	r.Apps.Launch(ev.AppInfo, func(req any) error {
		if r.collab.AppRequests == nil {
			return nil
		}
		return r.collab.AppRequests(ev.AppInfo.Pid, req)
	})
}

func (r *Reactor) handleAppTerminated(ev Event) {
	windows := r.Windows.RemoveForApp(ev.Pid)
	for _, w := range windows {
		if space, ok := r.activeSpaceForWindow(w); ok {
			r.Engine.Consume(space, engine.LayoutEvent{Kind: engine.EventWindowRemoved, Window: w})
		} else {
			r.Engine.Workspaces.RemoveWindow(w)
		}
		r.Drag.OnWindowDestroyed(w)
		r.recordWindowEvent(w.Pid, w.Index, "destroyed")
	}
	r.Apps.Terminate(ev.Pid)
}

func (r *Reactor) handleApplicationActivated(ev Event) {
	windows := r.Windows.WindowsForApp(ev.Pid)
	if len(windows) == 0 {
		return
	}
	r.notifyFocus(windows[0])
}

func (r *Reactor) handleWindowCreated(ev Event) {
	state := model.WindowState{
		ID:       ev.Window,
		Title:    ev.Title,
		BundleID: ev.BundleID,
		Role:     ev.Role,
		Subrole:  ev.Subrole,
		Flags:    model.WindowFlags{AXStandard: ev.Role == "AXWindow" || ev.Role == ""},
	}
	layerZero := ev.WindowServerID == 0 || r.WSInfo.IsLayerZero(ev.WindowServerID)
	state.Flags.Manageable = state.ComputeManageable(layerZero)
	r.Windows.Upsert(state)
	if ev.WindowServerID != 0 {
		r.Windows.SetWindowServerID(ev.Window, ev.WindowServerID)
	}

	space := ev.Space
	r.Engine.EnsureSpace(space, nil)

	result := r.Engine.Workspaces.AssignWindowWithAppInfo(ev.Window, space, workspaceWindowInfo(ev))
	if !result.Managed {
		r.recordWindowEvent(ev.Window.Pid, ev.Window.Index, "created")
		return
	}
	r.Engine.AddWindowToWorkspace(space, result.Workspace, ev.Window)
	if result.Floating {
		r.Engine.Workspaces.SetFloatingPosition(space, result.Workspace, ev.Window, state.Frame)
	}

	r.recordWindowEvent(ev.Window.Pid, ev.Window.Index, "created")
	r.relayout(space)
}

func workspaceWindowInfo(ev Event) workspace.WindowInfo {
	return workspace.WindowInfo{
		BundleID: ev.BundleID,
		AppName:  ev.AppName,
		Title:    ev.Title,
		Role:     ev.Role,
		Subrole:  ev.Subrole,
	}
}

func (r *Reactor) handleWindowDestroyed(ev Event) {
	if w, ok := r.Windows.Get(ev.Window); ok && w.WindowServerID != nil {
		r.Txns.Forget(*w.WindowServerID)
	}
	space, hadSpace := r.activeSpaceForWindow(ev.Window)
	if hadSpace {
		r.Engine.Consume(space, engine.LayoutEvent{Kind: engine.EventWindowRemoved, Window: ev.Window})
	} else {
		r.Engine.Workspaces.RemoveWindow(ev.Window)
	}
	r.Drag.OnWindowDestroyed(ev.Window)
	r.Windows.Remove(ev.Window)
	r.recordWindowEvent(ev.Window.Pid, ev.Window.Index, "destroyed")
	if hadSpace {
		r.relayout(space)
	}
}

func (r *Reactor) handleWindowMinimized(ev Event) {
	r.setManageableFlag(ev.Window, func(f *model.WindowFlags) { f.Minimized = true })
	if space, ok := r.activeSpaceForWindow(ev.Window); ok {
		r.relayout(space)
	}
}

func (r *Reactor) handleWindowDeminiaturized(ev Event) {
	r.setManageableFlag(ev.Window, func(f *model.WindowFlags) { f.Minimized = false })
	if space, ok := r.activeSpaceForWindow(ev.Window); ok {
		r.relayout(space)
	}
}

func (r *Reactor) setManageableFlag(window model.WindowID, mutate func(*model.WindowFlags)) {
	w, ok := r.Windows.Get(window)
	if !ok {
		r.log.Debug().Stringer("window", window).Msg("reactor: event for unknown window, ignored")
		return
	}
	mutate(&w.Flags)
	layerZero := w.WindowServerID != nil && r.WSInfo.IsLayerZero(*w.WindowServerID)
	w.Flags.Manageable = w.ComputeManageable(layerZero)
	r.Windows.Upsert(w)
}

// handleWindowFrameChanged implements spec §4.4's transaction-
// reconciliation decision table. Settled/intermediate/stale frames never
// reach the drag or resize path; only OutcomeExternal (no pending
// request) does.
func (r *Reactor) handleWindowFrameChanged(ev Event) {
	w, ok := r.Windows.Get(ev.Window)
	if !ok {
		r.log.Debug().Stringer("window", ev.Window).Msg("reactor: frame-changed for unknown window, ignored")
		return
	}

	if ev.MouseDown && w.WindowServerID != nil {
		r.Txns.Invalidate(*w.WindowServerID)
	}

	if w.WindowServerID == nil {
		r.applyExternalFrame(ev)
		return
	}

	start := time.Now()
	switch r.Txns.Reconcile(*w.WindowServerID, ev.LastSeenTxid, ev.Frame) {
	case txn.OutcomeSettled:
		r.recordTxnLatency(ev.LastSeenTxid, time.Since(start))
		r.Windows.SetFrame(ev.Window, ev.Frame)
	case txn.OutcomeIntermediate, txn.OutcomeStale:
		// Expected traffic; absorbed silently per spec §7.
	case txn.OutcomeExternal:
		r.applyExternalFrame(ev)
	}
}

func (r *Reactor) recordTxnLatency(txid model.TransactionID, latency time.Duration) {
	if r.collab.Journal != nil {
		r.collab.Journal.RecordTxnLatency(uint64(txid), latency)
	}
}

// applyExternalFrame handles a frame change with no pending reactor
// request: update the model, feed the drag state machine, and
// reconcile against the layout system's own resize handling.
func (r *Reactor) applyExternalFrame(ev Event) {
	w, ok := r.Windows.Get(ev.Window)
	if !ok {
		return
	}
	old := w.Frame
	r.Windows.SetFrame(ev.Window, ev.Frame)

	r.Drag.OnFrameChanged(ev.MouseDown, ev.Window, ev.Frame)
	if !ev.MouseDown {
		space, ok := r.activeSpaceForWindow(ev.Window)
		if !ok {
			return
		}
		screen, ok := r.Screens.ScreenForSpace(space)
		if !ok {
			return
		}
		r.Engine.Consume(space, engine.LayoutEvent{
			Kind: engine.EventWindowResized, Window: ev.Window,
			Old: old, New: ev.Frame, Screen: screen.Frame,
		})
		r.relayout(space)
	}
}

func (r *Reactor) handleWindowTitleChanged(ev Event) {
	w, ok := r.Windows.Get(ev.Window)
	if !ok {
		return
	}
	w.Title = ev.Title
	r.Windows.Upsert(w)
}

// handleMouseMovedOverWindow feeds the drag state machine's overlap
// check and, if focus_follows_mouse is enabled, moves focus to the
// hovered window.
func (r *Reactor) handleMouseMovedOverWindow(ev Event) {
	if r.Settings.FocusFollowsMouse {
		space, ok := r.activeSpaceForWindow(ev.Window)
		if ok {
			resp := r.Engine.Consume(space, engine.LayoutEvent{Kind: engine.EventWindowFocused, Window: ev.Window})
			r.fulfil(space, resp)
			r.notifyFocus(ev.Window)
		}
	}
	if r.Settings.MouseFollowsFocus && r.collab.EventTap != nil {
		if err := r.collab.EventTap.WarpCursor(ev.X, ev.Y); err != nil {
			r.log.Warn().Err(err).Msg("reactor: warp-cursor failed")
		}
	}
}

// handleScreenParametersChanged replaces the screen set wholesale and
// marks a one-shot topology relayout, per spec §4.6.
func (r *Reactor) handleScreenParametersChanged(ev Event) {
	r.Screens.ReplaceScreens(ev.Screens)
	r.Topology.Mark()
	r.pendingRefresh = true
	defer func() { r.pendingRefresh = false }()

	for _, s := range ev.Screens {
		if s.Space == nil {
			continue
		}
		r.Engine.EnsureSpace(*s.Space, nil)
		r.relayout(*s.Space)
	}
}

// handleActiveSpacesChanged updates each screen's current space, unless
// mission control is active (spec's invariant: no SpaceChanged event
// mutates screen→space mapping while mission control is active — the
// bulk form follows the same rule as the single-space variant).
func (r *Reactor) handleActiveSpacesChanged(ev Event) {
	if r.MissionControl.Active() {
		for screen, space := range ev.ActiveSpaces {
			r.PendingSpaces.Queue(gates.SpaceChange{Screen: screen, Space: space})
		}
		return
	}
	for screen, space := range ev.ActiveSpaces {
		r.applySpaceChange(screen, space)
	}
}

func (r *Reactor) handleSpaceChanged(ev Event) {
	if r.MissionControl.Active() {
		r.PendingSpaces.Queue(gates.SpaceChange{Screen: ev.Screen, Space: ev.Space})
		return
	}
	r.applySpaceChange(ev.Screen, ev.Space)
}

func (r *Reactor) applySpaceChange(screen model.ScreenID, space model.SpaceID) {
	s := space
	r.Screens.SetSpace(screen, &s)
	r.Engine.EnsureSpace(space, nil)
	r.relayout(space)
}

func (r *Reactor) handleMissionControlEntered(ev Event) {
	r.MissionControl.Enter()
}

// handleMissionControlExited drains any SpaceChanged events queued
// while mission control was active and applies them in arrival order.
func (r *Reactor) handleMissionControlExited(ev Event) {
	r.MissionControl.Exit()
	for _, change := range r.PendingSpaces.Drain() {
		r.applySpaceChange(change.Screen, change.Space)
	}
}

func (r *Reactor) activeSpaceForWindow(window model.WindowID) (model.SpaceID, bool) {
	for _, space := range r.Engine.Workspaces.Spaces() {
		if _, ok := r.Engine.Workspaces.WorkspaceForWindow(space, window); ok {
			return space, true
		}
	}
	// Not yet assigned to any workspace: fall back to the space of any
	// screen that has one; with several such screens, which one is picked
	// is not defined (SpaceManager.All iterates a map).
	for _, screen := range r.Screens.All() {
		if screen.Space != nil {
			return *screen.Space, true
		}
	}
	return 0, false
}
