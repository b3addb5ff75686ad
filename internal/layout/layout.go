// Package layout implements the LayoutSystem capability contract and its
// three strategies (traditional, bsp, dwindle). Callers never branch on
// the concrete strategy; they hold a System and call through the
// interface, the idiomatic Go stand-in for the source implementation's
// enum-dispatched trait object.
package layout

import (
	"github.com/riftwm/riftwm/internal/model"
)

// NodeID is a stable, arena-local identifier for a tree node. Ids are never
// reused within a single System instance's lifetime; removed slots are
// tombstoned rather than recycled, so a stale NodeID is always detectable.
type NodeID uint64

// LayoutKind distinguishes the four traditional container kinds. BSP and
// Dwindle only ever use Horizontal/Vertical (binary splits); the stacked
// kinds are meaningful for the traditional n-ary strategy only.
type LayoutKind int

const (
	KindHorizontal LayoutKind = iota
	KindVertical
	KindHorizontalStack
	KindVerticalStack
)

func (k LayoutKind) Orientation() model.Orientation {
	switch k {
	case KindVertical, KindVerticalStack:
		return model.OrientVertical
	default:
		return model.OrientHorizontal
	}
}

func (k LayoutKind) Stacked() bool {
	return k == KindHorizontalStack || k == KindVerticalStack
}

// GapSettings mirrors the config.{layout.gaps} record consumed by
// calculate_layout. Values are in the same units as Rect.
type GapSettings struct {
	OuterTop, OuterBottom, OuterLeft, OuterRight float64
	InnerHorizontal, InnerVertical               float64
}

// HorizontalPlacement / VerticalPlacement steer where a stacked container's
// stack-line indicator is drawn relative to its members.
type HorizontalPlacement int

const (
	HPlacementLeft HorizontalPlacement = iota
	HPlacementRight
)

type VerticalPlacement int

const (
	VPlacementTop VerticalPlacement = iota
	VPlacementBottom
)

// ResizeClampMin / ResizeClampMax bound every split ratio per spec.
const (
	ResizeClampMin = 0.05
	ResizeClampMax = 0.95
)

func clampRatio(r float64) float64 {
	if r < ResizeClampMin {
		return ResizeClampMin
	}
	if r > ResizeClampMax {
		return ResizeClampMax
	}
	return r
}

// WindowRect pairs a window with its computed on-screen rectangle.
type WindowRect struct {
	Window model.WindowID
	Rect   model.Rect
}

// GroupContainer identifies a stacked container along the current
// selection path, used to drive the stack-line indicator (traditional
// strategy only).
type GroupContainer struct {
	Node     NodeID
	Kind     LayoutKind
	Children []model.WindowID
}

// System is the capability contract every layout strategy implements.
// See spec §4.1. All methods are safe to call with unknown LayoutIDs or
// WindowIDs; they no-op or return zero values rather than panicking,
// matching the "removing an unknown window is a no-op" edge case.
//
// A LayoutID is minted by CreateLayout and is only ever valid for the
// System instance that minted it; the engine facade holds one shared
// System and mints one LayoutID per (space, workspace) from it.
type System interface {
	// Lifecycle
	CreateLayout() model.LayoutID
	CloneLayout(id model.LayoutID) model.LayoutID
	RemoveLayout(id model.LayoutID)

	// Selection cursor
	SelectedWindow(id model.LayoutID) (model.WindowID, bool)
	SelectWindow(id model.LayoutID, w model.WindowID) bool
	AscendSelection(id model.LayoutID) bool
	DescendSelection(id model.LayoutID) bool

	// Mutation
	AddWindowAfterSelection(id model.LayoutID, w model.WindowID)
	RemoveWindow(w model.WindowID)
	RemoveWindowsForApp(pid model.AppPid)
	SetWindowsForApp(id model.LayoutID, pid model.AppPid, desired []model.WindowID)
	SwapWindows(id model.LayoutID, a, b model.WindowID) bool
	MoveSelection(id model.LayoutID, dir model.Direction) bool
	SplitSelection(id model.LayoutID, orientation model.Orientation)
	JoinSelectionWithDirection(id model.LayoutID, dir model.Direction)
	UnjoinSelection(id model.LayoutID)
	ToggleTileOrientation(id model.LayoutID)
	ResizeSelectionBy(id model.LayoutID, delta float64)
	OnWindowResized(id model.LayoutID, w model.WindowID, old, new_, screen model.Rect, gaps GapSettings)
	ToggleFullscreen(id model.LayoutID) []model.WindowID
	ToggleFullscreenWithinGaps(id model.LayoutID) []model.WindowID

	// Query
	CalculateLayout(id model.LayoutID, screen model.Rect, stackOffset float64, gaps GapSettings,
		stackLineThickness float64, horiz HorizontalPlacement, vert VerticalPlacement) []WindowRect

	// Navigation
	MoveFocus(id model.LayoutID, dir model.Direction) (focus *model.WindowID, raise []model.WindowID)
	WindowInDirection(id model.LayoutID, dir model.Direction) (model.WindowID, bool)
	VisibleWindowsInLayout(id model.LayoutID) []model.WindowID
	VisibleWindowsUnderSelection(id model.LayoutID) []model.WindowID

	// Stacking (traditional only; no-op elsewhere)
	ApplyStackingToParentOfSelection(id model.LayoutID, orientation model.Orientation) []model.WindowID
	CollectGroupContainersInSelectionPath(id model.LayoutID) []GroupContainer
}
