// Package ports declares the injected-wrapper interfaces the reactor
// calls through instead of talking to the native window server,
// compositor, or per-app observers directly (spec §1's "does not talk to
// the native window server directly" non-goal, and §6's outbound
// channel list). Every interface here is a capability contract with no
// implementation in this package — concrete adapters live outside the
// core (internal/ui, internal/launcher, and eventually a real
// accessibility/compositor backend) and are wired in by cmd/riftd.
package ports

import (
	"github.com/riftwm/riftwm/internal/model"
)

// AppRequester is the per-app outbound request surface: SetWindowFrame,
// MarkWindowsNeedingInfo, and GetVisibleWindows (spec §6's "app
// requests"). One AppRequester per running app, reached through
// store.AppManager's SendFunc.
type AppRequester interface {
	SetWindowFrame(window model.WindowID, rect model.Rect, txid model.TransactionID, animate bool) error
	MarkWindowsNeedingInfo(windows []model.WindowID) error
	GetVisibleWindows() ([]model.WindowID, error)
}

// Compositor wraps the handful of compositor-level calls the reactor
// needs: switching the active space, granting key-window status, and
// entering/exiting mission control.
type Compositor interface {
	SwitchSpace(screen model.ScreenID, space model.SpaceID) error
	MakeKeyWindow(window model.WindowID) error
	MissionControlEnter() error
	MissionControlExit() error
}

// RaiseBatch is one ordered group of windows to raise together; per-app
// grouping with the main window of the focus-target app alone in its own
// batch is computed by the reactor (spec §8 scenario 5), this interface
// only carries the already-grouped result to the window server.
type RaiseBatch struct {
	Windows []model.WindowID
}

// RaiseCoordinator issues an ordered raise request plus the window that
// should end up focused.
type RaiseCoordinator interface {
	Raise(batches []RaiseBatch, focus *model.WindowID) error
}

// GroupContainerUpdate carries one space's current stacked-container set
// to the stack-line indicator.
type GroupContainerUpdate struct {
	Space   model.SpaceID
	Screen  model.ScreenID
	Groups  []StackGroup
}

// StackGroup is the subset of layout.GroupContainer the indicator needs.
type StackGroup struct {
	Windows []model.WindowID
	Active  model.WindowID
}

// StackLineSink receives stack-line indicator updates.
type StackLineSink interface {
	UpdateStackLine(update GroupContainerUpdate) error
}

// MenuBarUpdate is the per-screen summary the menu-bar indicator renders.
type MenuBarUpdate struct {
	Screen          model.ScreenID
	ActiveWorkspace string
	WindowTitle     string
}

type MenuBarSink interface {
	UpdateMenuBar(update MenuBarUpdate) error
}

// WindowNotifier draws the focus border around the focused window.
type WindowNotifier interface {
	NotifyFocusBorder(window model.WindowID, rect model.Rect) error
}

// EventTap warps the cursor, used after focus-follows-mouse and
// mouse-follows-focus transitions.
type EventTap interface {
	WarpCursor(x, y float64) error
}

// BroadcastEvent is one event the reactor fans out to subscribers
// (IPC `Subscribe`d clients and CLI subscriptions). The broadcast bus
// tolerates slow subscribers by dropping the slowest (spec §7).
type BroadcastEvent struct {
	Kind    string
	Payload any
}

// BroadcastBus fans BroadcastEvent out to every current subscriber.
// Publish must never block the reactor; a bounded/dropping
// implementation satisfies spec §7's backpressure policy.
type BroadcastBus interface {
	Publish(event BroadcastEvent)
}
