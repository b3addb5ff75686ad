// Package gates implements the three small state machines that gate when
// layout changes and animations may be applied: WorkspaceSwitchManager,
// MissionControlManager, and PendingSpaceChangeManager (spec §4.6).
package gates

import (
	"github.com/riftwm/riftwm/internal/model"
)

// SwitchOrigin distinguishes a workspace switch the user explicitly
// requested from one the reactor triggered on its own (e.g. following a
// window to the workspace it was just assigned to).
type SwitchOrigin int

const (
	OriginManual SwitchOrigin = iota
	OriginAuto
)

// WorkspaceSwitchManager holds a monotonically increasing generation
// counter. Beginning a switch bumps the generation; an animation frame
// produced under generation G is a no-op once the active generation has
// moved past G, which is how workspace-switch cancellation is implicit
// (spec §9, "Generation counters for cancellation").
type WorkspaceSwitchManager struct {
	generation uint64
	switching  bool
	origin     SwitchOrigin
}

// BeginSwitch bumps the generation and marks a switch in progress,
// returning the new generation for the caller to stamp onto any
// animation it starts.
func (m *WorkspaceSwitchManager) BeginSwitch(origin SwitchOrigin) uint64 {
	m.generation++
	m.switching = true
	m.origin = origin
	return m.generation
}

// EndSwitch clears the in-progress flag without touching the generation;
// the generation only ever advances on BeginSwitch.
func (m *WorkspaceSwitchManager) EndSwitch() {
	m.switching = false
}

func (m *WorkspaceSwitchManager) Switching() bool        { return m.switching }
func (m *WorkspaceSwitchManager) Origin() SwitchOrigin    { return m.origin }
func (m *WorkspaceSwitchManager) Generation() uint64      { return m.generation }

// Valid reports whether gen is still the active generation; an animation
// tick stamped with a stale generation should become a no-op (instant
// apply handles the frame directly instead).
func (m *WorkspaceSwitchManager) Valid(gen uint64) bool {
	return gen == m.generation
}

// MissionControlManager toggles a single boolean on enter/exit. While
// active, discovery's stale-window cleanup is suppressed (spec §4.8) and
// any SpaceChanged event is queued by PendingSpaceChangeManager instead
// of applied immediately (spec's invariant: "While mission-control is
// active, no SpaceChanged event mutates screen→space mapping").
type MissionControlManager struct {
	active bool
}

func (m *MissionControlManager) Enter()        { m.active = true }
func (m *MissionControlManager) Exit()         { m.active = false }
func (m *MissionControlManager) Active() bool  { return m.active }

// SpaceChange is the screen→space mapping update a SpaceChanged event
// carries.
type SpaceChange struct {
	Screen model.ScreenID
	Space  model.SpaceID
}

// PendingSpaceChangeManager stores at most one pending SpaceChange per
// screen while mission control is active, re-applying them in arrival
// order once mission control exits.
type PendingSpaceChangeManager struct {
	order   []model.ScreenID
	pending map[model.ScreenID]SpaceChange
}

func NewPendingSpaceChangeManager() *PendingSpaceChangeManager {
	return &PendingSpaceChangeManager{pending: make(map[model.ScreenID]SpaceChange)}
}

// Queue records change, overwriting any change already queued for the
// same screen (only the most recent mapping per screen matters once
// mission control exits) but preserving that screen's position in
// arrival order.
func (m *PendingSpaceChangeManager) Queue(change SpaceChange) {
	if _, ok := m.pending[change.Screen]; !ok {
		m.order = append(m.order, change.Screen)
	}
	m.pending[change.Screen] = change
}

// Drain returns all queued changes in arrival order and clears the queue,
// called on mission-control exit.
func (m *PendingSpaceChangeManager) Drain() []SpaceChange {
	out := make([]SpaceChange, 0, len(m.order))
	for _, screen := range m.order {
		out = append(out, m.pending[screen])
	}
	m.order = nil
	m.pending = make(map[model.ScreenID]SpaceChange)
	return out
}

func (m *PendingSpaceChangeManager) Empty() bool {
	return len(m.order) == 0
}

// TopologyRelayout is the one-shot "topology relayout pending" flag:
// when displays change, the next matching space vector should force a
// refresh and relayout regardless of whether anything else changed.
type TopologyRelayout struct {
	pending bool
}

func (t *TopologyRelayout) Mark()            { t.pending = true }
func (t *TopologyRelayout) Pending() bool    { return t.pending }
func (t *TopologyRelayout) Consume() bool {
	p := t.pending
	t.pending = false
	return p
}
