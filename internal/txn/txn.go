// Package txn implements the transaction and frame-reconciliation
// protocol: how the reactor tells its own geometry requests apart from
// externally caused frame changes, so that moving a window never triggers
// a feedback loop through the window-server's own change notifications.
package txn

import (
	"github.com/riftwm/riftwm/internal/model"
)

// Outcome classifies an inbound frame-changed event against any pending
// request for its WindowServerId, per spec §4.4's decision table.
type Outcome int

const (
	// OutcomeSettled: the event echoes the reactor's own last request and
	// the frame matches the target exactly. The pending record is cleared.
	OutcomeSettled Outcome = iota
	// OutcomeIntermediate: the event echoes the reactor's own last
	// request but the frame has not yet reached the target (an
	// in-flight animation tick on the app's side). Ignore.
	OutcomeIntermediate
	// OutcomeStale: the event predates the reactor's last request
	// (last_seen < last_sent). Ignore entirely; this is expected traffic.
	OutcomeStale
	// OutcomeExternal: there is no pending record for this
	// WindowServerId. Treat as a user-driven drag/resize: update the
	// model and dispatch to the drag/resize path.
	OutcomeExternal
)

// pending mirrors spec §3's PendingFrameRequest record.
type pending struct {
	lastSentTxid model.TransactionID
	targetFrame  model.Rect
}

// Manager owns the per-WindowServerId pending-frame map and the
// monotonic TransactionId counter. One Manager serves the whole reactor;
// TransactionIds are unique per WindowServerId, not globally, per spec's
// "TransactionIds for a given WindowServerId are strictly monotonic".
type Manager struct {
	pendingByWindow map[model.WindowServerID]*pending
	nextTxid        map[model.WindowServerID]model.TransactionID
}

func NewManager() *Manager {
	return &Manager{
		pendingByWindow: make(map[model.WindowServerID]*pending),
		nextTxid:        make(map[model.WindowServerID]model.TransactionID),
	}
}

// BeginRequest stamps an outbound SetWindowFrame request with a fresh
// TransactionId for wsid and records the target frame as pending.
func (m *Manager) BeginRequest(wsid model.WindowServerID, target model.Rect) model.TransactionID {
	m.nextTxid[wsid]++
	txid := m.nextTxid[wsid]
	m.pendingByWindow[wsid] = &pending{lastSentTxid: txid, targetFrame: target}
	return txid
}

// Reconcile classifies an inbound frame-changed event carrying the
// window's reported frame and the last_seen_txid it echoes.
func (m *Manager) Reconcile(wsid model.WindowServerID, lastSeen model.TransactionID, frame model.Rect) Outcome {
	p, ok := m.pendingByWindow[wsid]
	if !ok {
		return OutcomeExternal
	}
	switch {
	case lastSeen < p.lastSentTxid:
		return OutcomeStale
	case lastSeen == p.lastSentTxid && frame.Equal(p.targetFrame):
		delete(m.pendingByWindow, wsid)
		return OutcomeSettled
	case lastSeen == p.lastSentTxid:
		return OutcomeIntermediate
	default:
		// lastSeen > lastSentTxid should not happen (txids are minted
		// only here), but treat it the same as settled-then-stale-clear
		// rather than panicking: clear the stale record and report it as
		// external so the caller re-derives state from the fresh frame.
		delete(m.pendingByWindow, wsid)
		return OutcomeExternal
	}
}

// Invalidate clears any pending request for wsid. Called on mouse-down:
// per spec §4.4, the user taking control of a window invalidates whatever
// request the reactor had in flight for it.
func (m *Manager) Invalidate(wsid model.WindowServerID) {
	delete(m.pendingByWindow, wsid)
}

// Forget drops all bookkeeping for wsid, called on window destruction.
func (m *Manager) Forget(wsid model.WindowServerID) {
	delete(m.pendingByWindow, wsid)
	delete(m.nextTxid, wsid)
}

// HasPending reports whether wsid currently has an outstanding request.
func (m *Manager) HasPending(wsid model.WindowServerID) bool {
	_, ok := m.pendingByWindow[wsid]
	return ok
}
