// Package drag implements DragManager, the mouse-driven swap/snap state
// machine that interleaves mouse events with frame-changed events (spec
// §4.5).
package drag

import (
	"github.com/riftwm/riftwm/internal/model"
)

// State enumerates the three DragManager variants. Go has no sum types,
// so the Rust enum `Inactive | Active{..} | PendingSwap{..}` becomes a
// Kind discriminant plus the union of both variants' fields on Manager,
// the same translation used for layout.System's commands/events.
type State int

const (
	StateInactive State = iota
	StateActive
	StatePendingSwap
)

// Candidate is one other window the current drag frame might overlap,
// supplied by the caller (the reactor knows the full visible-window set;
// DragManager does not hold its own window store).
type Candidate struct {
	Window model.WindowID
	Rect   model.Rect
}

// Action is what the reactor should do in response to a transition.
type Action int

const (
	ActionNone Action = iota
	ActionSwapAndRecalc
	ActionRecalc
)

// Manager is DragManager.
type Manager struct {
	state State

	window      model.WindowID
	originFrame model.Rect
	currentFrame model.Rect
	settledSpace *model.SpaceID
	layoutDirty bool

	target model.WindowID

	// SwapFraction is window_snapping.drag_swap_fraction: the overlap
	// fraction (of the dragged window's own area) into a neighbour's rect
	// that arms a pending swap.
	SwapFraction float64
}

func NewManager(swapFraction float64) *Manager {
	return &Manager{SwapFraction: swapFraction}
}

func (m *Manager) State() State { return m.state }

func (m *Manager) reset() {
	*m = Manager{SwapFraction: m.SwapFraction}
}

// OnFrameChanged is the composite (mouse_state, frame-changed) event of
// spec §4.5. mouseDown reports whether the mouse button is currently held
// over the window server's drag gesture.
func (m *Manager) OnFrameChanged(mouseDown bool, window model.WindowID, frame model.Rect) {
	switch m.state {
	case StateInactive:
		if !mouseDown {
			return
		}
		m.state = StateActive
		m.window = window
		m.originFrame = frame
		m.currentFrame = frame
	case StateActive:
		if window != m.window {
			return
		}
		if frame.W != m.currentFrame.W || frame.H != m.currentFrame.H {
			m.layoutDirty = true
		}
		m.currentFrame = frame
	case StatePendingSwap:
		if window != m.window {
			return
		}
		m.currentFrame = frame
	}
}

// CheckOverlap arms a pending swap once the active session's current
// frame overlaps a candidate beyond SwapFraction. No-op outside the
// Active state.
func (m *Manager) CheckOverlap(candidates []Candidate) {
	if m.state != StateActive {
		return
	}
	for _, c := range candidates {
		if c.Window == m.window {
			continue
		}
		if m.currentFrame.Overlap(c.Rect) >= m.SwapFraction {
			m.state = StatePendingSwap
			m.target = c.Window
			return
		}
	}
}

// SetSettledSpace records the space the dragged window has last come to
// rest on, the "settled space" of the glossary.
func (m *Manager) SetSettledSpace(space model.SpaceID) {
	if m.state == StateInactive {
		return
	}
	s := space
	m.settledSpace = &s
}

func (m *Manager) SettledSpace() (model.SpaceID, bool) {
	if m.settledSpace == nil {
		return 0, false
	}
	return *m.settledSpace, true
}

// OnMouseUp ends the drag, reporting what the reactor must do.
func (m *Manager) OnMouseUp() (action Action, window, target model.WindowID) {
	switch m.state {
	case StatePendingSwap:
		window, target = m.window, m.target
		action = ActionSwapAndRecalc
	case StateActive:
		if m.layoutDirty {
			action = ActionRecalc
		}
		window = m.window
	default:
		action = ActionNone
	}
	m.reset()
	return action, window, target
}

// OnWindowDestroyed cancels the drag if the destroyed window is
// participating in it (spec §4.5's destruction transition).
func (m *Manager) OnWindowDestroyed(window model.WindowID) {
	if m.state == StateInactive {
		return
	}
	if window == m.window || (m.state == StatePendingSwap && window == m.target) {
		m.reset()
	}
}
