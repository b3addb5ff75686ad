package reactor

import (
	"github.com/riftwm/riftwm/internal/engine"
	"github.com/riftwm/riftwm/internal/model"
)

// SaveFunc captures the current reactor state into a persist.Snapshot
// and writes it to disk, returning an error if the write failed. Kept
// as an injected function rather than an internal/persist import for
// the same DAG reason as EventRecorder: internal/persist already
// imports internal/engine, which this package also imports.
type SaveFunc func(spaces []model.SpaceID) error

// CloseWindowRequest is the per-app request sent through
// Collaborators.AppRequests for CmdCloseWindow; spec §6 lists the app
// request surface as SetWindowFrame/MarkWindowsNeedingInfo/
// GetVisibleWindows plus "close-window" as a reactor Command, so the
// close itself still needs to reach the window's owning app somehow —
// this is that request's shape.
type CloseWindowRequest struct {
	Window model.WindowID
}

// ExitRequest is what handleCommand reports back for CmdSaveAndExit:
// the reactor has no process lifecycle of its own (spec §1, "does not
// own threads other than its own"), so cmd/riftd is the one that
// actually calls os.Exit once it sees ExitRequested.
type ExitRequest struct {
	Requested bool
	Code      int
}

// LastExit is set by CmdSaveAndExit and polled by cmd/riftd's main loop
// after each Step call.
func (r *Reactor) LastExit() ExitRequest { return r.lastExit }

func (r *Reactor) handleCommand(ev Event) {
	switch ev.Cmd.Kind {
	case CmdLayout:
		resp := r.Engine.Dispatch(ev.Cmd.Space, ev.Cmd.LayoutCmd)
		r.applyDispatch(ev.Cmd.Space, resp)
	case CmdConfigReload:
		// Config is reloaded and re-applied by cmd/riftd (it owns the
		// config.Loader); the reactor only needs to know this command
		// reached it so a CLI caller's ExecuteCommand reply isn't
		// silently dropped as "unknown command" — the actual Settings
		// mutation arrives through SetDragSwapFraction/Settings field
		// writes the caller performs before the next Step.
	case CmdDebug:
		r.log.Debug().Strs("args", ev.Cmd.DebugArgs).Msg("reactor: debug command")
	case CmdFocusDisplay:
		r.handleFocusDisplay(ev.Cmd.TargetScreen)
	case CmdMoveWindowToDisplay:
		r.handleMoveWindowToDisplay(ev.Cmd.Window, ev.Cmd.TargetScreen)
	case CmdCloseWindow:
		r.handleCloseWindowCommand(ev.Cmd.Window)
	case CmdSaveAndExit:
		r.handleSaveAndExit()
	}
}

func (r *Reactor) handleFocusDisplay(screen model.ScreenID) {
	s, ok := r.Screens.Screen(screen)
	if !ok || s.Space == nil {
		r.log.Debug().Uint32("screen", uint32(screen)).Msg("reactor: focus-display for unknown/disabled screen, ignored")
		return
	}
	ws, ok := r.Engine.Workspaces.ActiveWorkspace(*s.Space)
	if !ok {
		return
	}
	if focus, ok := r.Engine.Workspaces.LastFocusedWindow(*s.Space, ws); ok {
		r.notifyFocus(focus)
	}
}

// handleMoveWindowToDisplay relocates window from its current space to
// screen's currently active space: detach it from the origin layout
// tree and workspace assignment, then insert it into the destination
// space's active workspace. This crosses spaces, unlike
// engine.CmdMoveWindowToWorkspace, which only moves within one space.
func (r *Reactor) handleMoveWindowToDisplay(window model.WindowID, screen model.ScreenID) {
	dest, ok := r.Screens.Screen(screen)
	if !ok || dest.Space == nil {
		r.log.Debug().Stringer("window", window).Msg("reactor: move-window-to-display for unknown/disabled screen, ignored")
		return
	}
	destWS, ok := r.Engine.Workspaces.ActiveWorkspace(*dest.Space)
	if !ok {
		return
	}

	if origin, ok := r.activeSpaceForWindow(window); ok {
		r.Engine.Consume(origin, engine.LayoutEvent{Kind: engine.EventWindowRemoved, Window: window})
	}
	r.Engine.Workspaces.AssignWindowToWorkspace(*dest.Space, window, destWS)
	r.Engine.AddWindowToWorkspace(*dest.Space, destWS, window)
	r.relayout(*dest.Space)
}

func (r *Reactor) handleCloseWindowCommand(window model.WindowID) {
	if r.collab.AppRequests == nil {
		return
	}
	if err := r.collab.AppRequests(window.Pid, CloseWindowRequest{Window: window}); err != nil {
		r.log.Warn().Err(err).Msg("reactor: close-window request failed")
	}
}

func (r *Reactor) handleSaveAndExit() {
	if r.collab.Save == nil {
		r.lastExit = ExitRequest{Requested: true, Code: 0}
		return
	}
	spaces := r.Engine.Workspaces.Spaces()
	if err := r.collab.Save(spaces); err != nil {
		r.log.Error().Err(err).Msg("reactor: save-and-exit failed, exiting with code 3")
		r.lastExit = ExitRequest{Requested: true, Code: 3}
		return
	}
	r.lastExit = ExitRequest{Requested: true, Code: 0}
}
