package model

import "time"

// WindowFlags bundles the boolean facts the reactor tracks about a window.
type WindowFlags struct {
	Manageable    bool
	AXStandard    bool
	AXRoot        bool
	Minimized     bool
	Animating     bool
	IgnoreAppRule bool
}

// WindowState is the reactor's authoritative record for one window. It is
// mutated only by the reactor's own handlers, never by collaborators.
type WindowState struct {
	ID             WindowID
	Title          string
	Frame          Rect
	Flags          WindowFlags
	WindowServerID *WindowServerID
	BundleID       string
	Role           string
	Subrole        string
	LastVerified   time.Time
}

// ComputeManageable reports whether this window should participate in tiling,
// per the glossary definition: standard role/subrole, not minimised, and
// present at compositor layer 0.
func (w WindowState) ComputeManageable(layerZero bool) bool {
	return w.Flags.AXStandard && !w.Flags.Minimized && layerZero
}

// AppInfo is the static identity of a running application.
type AppInfo struct {
	Pid           AppPid
	BundleID      string
	LocalizedName string
}

// AppState is the reactor's record for one running application.
type AppState struct {
	Info AppInfo
}

// Screen is a physical display in compositor coordinates.
type Screen struct {
	ID      ScreenID
	Frame   Rect
	Space   *SpaceID
	Display DisplayUUID
	Name    string
}
