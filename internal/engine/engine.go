// Package engine implements LayoutEngine, the facade that owns a shared
// layout.System (one LayoutID per (space, workspace)), routes LayoutCommand to it, and
// integrates VirtualWorkspaceManager (spec §4.3).
package engine

import (
	"github.com/riftwm/riftwm/internal/layout"
	"github.com/riftwm/riftwm/internal/model"
	"github.com/riftwm/riftwm/internal/workspace"
)

// CommandKind enumerates the LayoutCommand variants the reactor may issue.
type CommandKind int

const (
	CmdMoveFocus CommandKind = iota
	CmdMoveSelection
	CmdSplitSelection
	CmdSwapWindows
	CmdToggleTileOrientation
	CmdResizeSelectionBy
	CmdJoinSelectionWithDirection
	CmdUnjoinSelection
	CmdToggleFullscreen
	CmdToggleFullscreenWithinGaps
	CmdWorkspaceNext
	CmdWorkspacePrev
	CmdWorkspaceSwitch
	CmdMoveWindowToWorkspace
	CmdApplyStacking
)

// Command is the nested LayoutCommand union; only the fields relevant to
// Kind are read.
type Command struct {
	Kind            CommandKind
	Direction       model.Direction
	Orientation     model.Orientation
	Delta           float64
	Window          model.WindowID
	OtherWindow     model.WindowID
	TargetWorkspace model.WorkspaceID
}

// EventResponse is what a Dispatch/Consume call reports back to the
// reactor, which then fulfils it (raises windows, sends focus requests,
// drives workspace-switch animation suppression).
type EventResponse struct {
	RaiseWindows       []model.WindowID
	FocusWindow        *model.WindowID
	WorkspaceChangedTo *model.WorkspaceID
}

// LayoutEventKind enumerates the LayoutEvent union consumed by Consume.
type LayoutEventKind int

const (
	EventWindowAdded LayoutEventKind = iota
	EventWindowRemoved
	EventWindowFocused
	EventWindowResized
	EventWindowsOnScreenUpdated
)

type LayoutEvent struct {
	Kind    LayoutEventKind
	Window  model.WindowID
	Old     model.Rect
	New     model.Rect
	Screen  model.Rect
	Windows []model.WindowID
}

// Strategy selects which layout.System constructor backs a fresh
// workspace's layout.
type Strategy int

const (
	StrategyTraditional Strategy = iota
	StrategyBSP
	StrategyDwindle
)

// Engine is LayoutEngine. A single layout.System instance backs every
// workspace: System is itself a multi-tenant container keyed by LayoutID
// (CreateLayout/CloneLayout/RemoveLayout), so "one LayoutSystem per
// (space, workspace)" (spec §4.3) is realized as one LayoutID per
// workspace inside a shared strategy instance, rather than one Go value
// per workspace — minting a fresh System per workspace would hand out
// colliding LayoutIDs, since every System starts its own id counter at 1.
type Engine struct {
	Workspaces *workspace.Manager
	Gaps       layout.GapSettings

	strategy       Strategy
	sys            layout.System
	defaultWSCount int
}

// NewEngine wires a workspace.Manager whose LayoutFactory mints a fresh
// LayoutID from the engine's shared layout.System for every new workspace.
func NewEngine(strategy Strategy, defaultWorkspaceCount int, rules []workspace.AppRule) *Engine {
	e := &Engine{
		strategy:       strategy,
		defaultWSCount: defaultWorkspaceCount,
	}
	e.sys = e.newSystem()
	e.Workspaces = workspace.NewManager(rules, func() model.LayoutID {
		return e.sys.CreateLayout()
	})
	return e
}

func (e *Engine) newSystem() layout.System {
	switch e.strategy {
	case StrategyBSP:
		return layout.NewBSPLayout()
	case StrategyDwindle:
		return layout.NewDwindleLayout()
	default:
		return layout.NewTraditionalLayout()
	}
}

// EnsureSpace lazily creates workspaces for space up to the configured
// default count.
func (e *Engine) EnsureSpace(space model.SpaceID, names []string) {
	e.Workspaces.EnsureSpace(space, e.defaultWSCount, names)
}

func (e *Engine) layoutFor(space model.SpaceID, ws model.WorkspaceID) (layout.System, model.LayoutID, bool) {
	v, ok := e.Workspaces.Workspace(space, ws)
	if !ok {
		return nil, 0, false
	}
	return e.sys, v.LayoutID, true
}

func (e *Engine) activeLayout(space model.SpaceID) (layout.System, model.LayoutID, model.WorkspaceID, bool) {
	ws, ok := e.Workspaces.ActiveWorkspace(space)
	if !ok {
		return nil, 0, 0, false
	}
	sys, id, ok := e.layoutFor(space, ws)
	return sys, id, ws, ok
}

// Dispatch routes a LayoutCommand against the active workspace of space.
func (e *Engine) Dispatch(space model.SpaceID, cmd Command) EventResponse {
	sys, layoutID, ws, ok := e.activeLayout(space)
	if !ok {
		return EventResponse{}
	}

	switch cmd.Kind {
	case CmdMoveFocus:
		focus, raise := sys.MoveFocus(layoutID, cmd.Direction)
		if focus != nil {
			e.Workspaces.SetLastFocusedWindow(space, ws, *focus)
		}
		return EventResponse{RaiseWindows: raise, FocusWindow: focus}
	case CmdMoveSelection:
		sys.MoveSelection(layoutID, cmd.Direction)
		return EventResponse{RaiseWindows: sys.VisibleWindowsInLayout(layoutID)}
	case CmdSplitSelection:
		sys.SplitSelection(layoutID, cmd.Orientation)
		return EventResponse{}
	case CmdSwapWindows:
		sys.SwapWindows(layoutID, cmd.Window, cmd.OtherWindow)
		return EventResponse{RaiseWindows: sys.VisibleWindowsInLayout(layoutID)}
	case CmdToggleTileOrientation:
		sys.ToggleTileOrientation(layoutID)
		return EventResponse{}
	case CmdResizeSelectionBy:
		sys.ResizeSelectionBy(layoutID, cmd.Delta)
		return EventResponse{}
	case CmdJoinSelectionWithDirection:
		sys.JoinSelectionWithDirection(layoutID, cmd.Direction)
		return EventResponse{}
	case CmdUnjoinSelection:
		sys.UnjoinSelection(layoutID)
		return EventResponse{}
	case CmdToggleFullscreen:
		return EventResponse{RaiseWindows: sys.ToggleFullscreen(layoutID)}
	case CmdToggleFullscreenWithinGaps:
		return EventResponse{RaiseWindows: sys.ToggleFullscreenWithinGaps(layoutID)}
	case CmdApplyStacking:
		return EventResponse{RaiseWindows: sys.ApplyStackingToParentOfSelection(layoutID, cmd.Orientation)}
	case CmdWorkspaceNext, CmdWorkspacePrev:
		return e.switchWorkspaceRelative(space, ws, cmd.Kind == CmdWorkspaceNext)
	case CmdWorkspaceSwitch:
		return e.switchWorkspace(space, cmd.TargetWorkspace)
	case CmdMoveWindowToWorkspace:
		return e.moveWindowToWorkspace(space, cmd.Window, cmd.TargetWorkspace)
	}
	return EventResponse{}
}

func (e *Engine) switchWorkspaceRelative(space model.SpaceID, current model.WorkspaceID, next bool) EventResponse {
	list := e.Workspaces.ListWorkspaces(space)
	if len(list) == 0 {
		return EventResponse{}
	}
	idx := 0
	for i, w := range list {
		if w.ID == current {
			idx = i
			break
		}
	}
	if next {
		idx = (idx + 1) % len(list)
	} else {
		idx = (idx - 1 + len(list)) % len(list)
	}
	return e.switchWorkspace(space, list[idx].ID)
}

func (e *Engine) switchWorkspace(space model.SpaceID, target model.WorkspaceID) EventResponse {
	if !e.Workspaces.SetActiveWorkspace(space, target) {
		return EventResponse{}
	}
	focus, ok := e.Workspaces.LastFocusedWindow(space, target)
	resp := EventResponse{WorkspaceChangedTo: &target}
	if ok {
		resp.FocusWindow = &focus
	}
	if sys, id, ok := e.layoutFor(space, target); ok {
		resp.RaiseWindows = sys.VisibleWindowsInLayout(id)
	}
	return resp
}

func (e *Engine) moveWindowToWorkspace(space model.SpaceID, window model.WindowID, target model.WorkspaceID) EventResponse {
	if sys, _, _, ok := e.activeLayout(space); ok {
		sys.RemoveWindow(window)
	}
	e.Workspaces.AssignWindowToWorkspace(space, window, target)
	if sys, id, ok := e.layoutFor(space, target); ok {
		sys.AddWindowAfterSelection(id, window)
	}
	return EventResponse{}
}

// Consume applies a LayoutEvent to the workspace + layout state.
func (e *Engine) Consume(space model.SpaceID, ev LayoutEvent) EventResponse {
	switch ev.Kind {
	case EventWindowAdded:
		ws, ok := e.Workspaces.ActiveWorkspace(space)
		if !ok {
			return EventResponse{}
		}
		if sys, id, ok := e.layoutFor(space, ws); ok {
			sys.AddWindowAfterSelection(id, ev.Window)
		}
	case EventWindowRemoved:
		e.Workspaces.RemoveWindow(ev.Window)
		e.sys.RemoveWindow(ev.Window)
	case EventWindowFocused:
		if ws, ok := e.activeWorkspaceContaining(space, ev.Window); ok {
			e.Workspaces.SetLastFocusedWindow(space, ws, ev.Window)
		}
	case EventWindowResized:
		if sys, id, ok := e.layoutForWindow(space, ev.Window); ok {
			sys.OnWindowResized(id, ev.Window, ev.Old, ev.New, ev.Screen, e.Gaps)
		}
	case EventWindowsOnScreenUpdated:
		// No structural mutation; callers recompute layout via
		// CalculateLayout after this event settles.
	}
	return EventResponse{}
}

func (e *Engine) activeWorkspaceContaining(space model.SpaceID, window model.WindowID) (model.WorkspaceID, bool) {
	return e.Workspaces.WorkspaceForWindow(space, window)
}

func (e *Engine) layoutForWindow(space model.SpaceID, window model.WindowID) (layout.System, model.LayoutID, bool) {
	ws, ok := e.Workspaces.WorkspaceForWindow(space, window)
	if !ok {
		return nil, 0, false
	}
	return e.layoutFor(space, ws)
}

// WorkspaceLayoutState is the layout state persist saves for a workspace:
// the visible windows in VisibleWindowsInLayout order plus the selection
// cursor. Split ratios, orientations, stacking and fullscreen state are
// not part of it, so a tree rebuilt from it by plain insertion can differ
// in shape and rects from the one it was exported from.
type WorkspaceLayoutState struct {
	Windows  []model.WindowID
	Selected *model.WindowID
}

// ExportWorkspaceLayout captures ws's current layout state for persist to
// serialize.
func (e *Engine) ExportWorkspaceLayout(space model.SpaceID, ws model.WorkspaceID) (WorkspaceLayoutState, bool) {
	sys, id, ok := e.layoutFor(space, ws)
	if !ok {
		return WorkspaceLayoutState{}, false
	}
	state := WorkspaceLayoutState{Windows: sys.VisibleWindowsInLayout(id)}
	if w, ok := sys.SelectedWindow(id); ok {
		state.Selected = &w
	}
	return state, true
}

// ImportWorkspaceLayout replays a captured layout state into ws's (already
// created, empty) layout by re-inserting windows in the recorded order
// through AddWindowAfterSelection, the same primitive normal window-add
// events use, then re-selecting the saved selection. The result holds
// every saved window; it does not reproduce the saved tree's ratios,
// orientations, stacking or fullscreen state.
func (e *Engine) ImportWorkspaceLayout(space model.SpaceID, ws model.WorkspaceID, state WorkspaceLayoutState) bool {
	sys, id, ok := e.layoutFor(space, ws)
	if !ok {
		return false
	}
	for _, w := range state.Windows {
		sys.AddWindowAfterSelection(id, w)
	}
	if state.Selected != nil {
		sys.SelectWindow(id, *state.Selected)
	}
	return true
}

// CalculateLayout computes rects for the active workspace of space.
func (e *Engine) CalculateLayout(space model.SpaceID, screen model.Rect, stackOffset float64,
	stackLineThickness float64, horiz layout.HorizontalPlacement, vert layout.VerticalPlacement) []layout.WindowRect {
	sys, id, _, ok := e.activeLayout(space)
	if !ok {
		return nil
	}
	return sys.CalculateLayout(id, screen, stackOffset, e.Gaps, stackLineThickness, horiz, vert)
}

// AddWindowToWorkspace inserts window into ws's layout tree directly,
// for callers (the reactor's discovery/window-created paths) that have
// already resolved the destination workspace via
// workspace.Manager.AssignWindowWithAppInfo — which may not be the
// space's currently active workspace, unlike Consume's EventWindowAdded
// case, which always targets the active one.
func (e *Engine) AddWindowToWorkspace(space model.SpaceID, ws model.WorkspaceID, window model.WindowID) {
	if sys, id, ok := e.layoutFor(space, ws); ok {
		sys.AddWindowAfterSelection(id, window)
	}
}

// GroupContainers reports ws's stacked containers along the current
// selection path, for the stack-line indicator (spec §4.1's "Stacking"
// clause; a no-op slice on strategies that don't support stacking).
func (e *Engine) GroupContainers(space model.SpaceID, ws model.WorkspaceID) []layout.GroupContainer {
	sys, id, ok := e.layoutFor(space, ws)
	if !ok {
		return nil
	}
	return sys.CollectGroupContainersInSelectionPath(id)
}
