// Package reactor implements the single-threaded event loop that owns
// every subsystem built under internal/ (layout, workspace, engine, txn,
// drag, animation, gates, store) and composes them into spec §2's one
// consistent step: external event sources → inbox → handler dispatch →
// mutate stores → run layout engine → emit frame/focus requests &
// broadcast events. There is no teacher analogue for a dispatcher this
// shape — the teacher's DesktopEngine.handleEvent (texel/desktop_engine_core.go)
// is the closest relative and supplies the idiom this package follows:
// a tagged union over a handful of concrete event types, switched once
// at the top of a single dispatch method, each case a short call into a
// focused handler rather than inline logic.
package reactor

import (
	"github.com/riftwm/riftwm/internal/engine"
	"github.com/riftwm/riftwm/internal/ipc"
	"github.com/riftwm/riftwm/internal/model"
)

// EventKind enumerates the reactor's inbox tagged union (spec §6,
// "Event inbox (inbound)").
type EventKind int

const (
	EventAppLaunched EventKind = iota
	EventAppTerminated
	EventApplicationActivated
	EventWindowsDiscovered
	EventWindowCreated
	EventWindowDestroyed
	EventWindowMinimized
	EventWindowDeminiaturized
	EventWindowFrameChanged
	EventWindowTitleChanged
	EventMouseMovedOverWindow
	EventScreenParametersChanged
	EventActiveSpacesChanged
	EventSpaceChanged
	EventMissionControlEntered
	EventMissionControlExited
	EventCommand
	EventQuery
	// EventAnimationTick is the re-entrant timer event the design notes
	// describe ("a suspended timer is modelled as a re-entrant event in
	// the inbox, not as concurrent state"): cmd/riftd's own ticker feeds
	// these back into Step at the configured animation_fps, one per space
	// with an in-flight transition.
	EventAnimationTick
)

// DiscoveredWindow is one entry of a WindowsDiscovered event's new-window
// list; the fields the discovery algorithm needs to compute manageability
// and run app-rule assignment (spec §4.8).
type DiscoveredWindow struct {
	Window         model.WindowID
	WindowServerID model.WindowServerID
	Title          string
	BundleID       string
	AppName        string
	Role           string
	Subrole        string
	Minimized      bool
	Layer          int
}

// Event is the flat tagged union every inbox entry arrives as; only the
// fields relevant to Kind are populated, the same translation this
// module uses throughout for the source's sum types (engine.Command,
// drag.Manager's state, ipc.Request).
type Event struct {
	Kind EventKind

	Pid     model.AppPid
	AppInfo model.AppInfo

	Window         model.WindowID
	WindowServerID model.WindowServerID
	Title          string
	BundleID       string
	AppName        string
	Role           string
	Subrole        string

	// Frame-changed fields (spec §4.4).
	Frame        model.Rect
	LastSeenTxid model.TransactionID
	MouseDown    bool

	// Mouse fields.
	X, Y float64

	// Topology fields.
	Screens      []model.Screen
	Screen       model.ScreenID
	Space        model.SpaceID
	ActiveSpaces map[model.ScreenID]model.SpaceID

	// Discovery fields.
	DiscoveryPid     model.AppPid
	DiscoveredNew    []DiscoveredWindow
	KnownVisible     []model.WindowID
	IsMainForPid     bool

	// Command / Query fields.
	Cmd   Command
	Query *ipc.Request
	Reply chan ipc.Response
}

// CommandKind enumerates the nested Command union spec §6 names: "a
// nested union of layout, config, debug, focus-display,
// move-window-to-display, close-window, save-and-exit".
type CommandKind int

const (
	CmdLayout CommandKind = iota
	CmdConfigReload
	CmdDebug
	CmdFocusDisplay
	CmdMoveWindowToDisplay
	CmdCloseWindow
	CmdSaveAndExit
)

// Command is the nested union; LayoutCmd is only read when Kind ==
// CmdLayout, and so on for the other fields.
type Command struct {
	Kind CommandKind

	Space     model.SpaceID
	LayoutCmd engine.Command

	DebugArgs []string

	TargetScreen model.ScreenID
	Window       model.WindowID
}
