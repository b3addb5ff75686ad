// Package animation implements AnimationManager: given a previous and
// target set of window rects, it decides between instant and animated
// apply and produces the next animation frame (spec §4.7). Per the
// design notes ("Animation as a function, not a task"), the manager
// holds no clock of its own — the reactor drives it with an explicit
// frame index on each re-entrant timer tick.
package animation

import (
	"math"

	"github.com/riftwm/riftwm/internal/model"
	"github.com/riftwm/riftwm/internal/txn"
)

// Easing is a normalized interpolation curve: f(0) == 0, f(1) == 1.
type Easing func(t float64) float64

func EaseLinear(t float64) float64 { return t }

func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// Easings maps the config's animation_easing string to a curve.
var Easings = map[string]Easing{
	"linear":       EaseLinear,
	"ease-in-out":  EaseInOutQuad,
	"ease-out":     EaseOutCubic,
}

// Config mirrors settings.{animate, animation_duration_ms, animation_fps,
// animation_easing}.
type Config struct {
	Animate    bool
	DurationMs int
	FPS        int
	Easing     Easing
}

// FrameRequest is the outbound SetWindowFrame(window, rect, txid, animate)
// request issued to the window's owning app.
type FrameRequest struct {
	Window  model.WindowID
	Rect    model.Rect
	Txid    model.TransactionID
	Animate bool
}

// Requester is the injected wrapper that actually dispatches a
// FrameRequest to the owning app (spec §6's per-app request channel).
type Requester interface {
	SetWindowFrame(req FrameRequest) error
}

// Transition is one window's previous and target rect for an apply pass.
type Transition struct {
	Window model.WindowID
	Prev   model.Rect
	Target model.Rect
}

// Manager is AnimationManager.
type Manager struct {
	Config    Config
	Txns      *txn.Manager
	Requester Requester

	// WindowServerID resolves a WindowId to the WindowServerId the
	// TransactionManager and outbound request key off of; unresolvable
	// windows are skipped (no window-server handle yet).
	WindowServerID func(model.WindowID) (model.WindowServerID, bool)
}

func NewManager(cfg Config, txns *txn.Manager, requester Requester, wsid func(model.WindowID) (model.WindowServerID, bool)) *Manager {
	return &Manager{Config: cfg, Txns: txns, Requester: requester, WindowServerID: wsid}
}

// TotalFrames is how many animation ticks a full transition spans at the
// configured duration and FPS; at least 1 so a degenerate 0ms/0fps config
// still produces one (effectively instant) frame.
func (m *Manager) TotalFrames() int {
	n := m.Config.DurationMs * m.Config.FPS / 1000
	if n < 1 {
		return 1
	}
	return n
}

func interpolate(prev, target model.Rect, frac float64) model.Rect {
	return model.Rect{
		X: prev.X + (target.X-prev.X)*frac,
		Y: prev.Y + (target.Y-prev.Y)*frac,
		W: prev.W + (target.W-prev.W)*frac,
		H: prev.H + (target.H-prev.H)*frac,
	}
}

// ShouldAnimate decides instant vs animated apply: a workspace switch in
// progress or animation disabled in config forces instant apply.
func (m *Manager) ShouldAnimate(workspaceSwitchInProgress bool) bool {
	return m.Config.Animate && !workspaceSwitchInProgress
}

// Apply issues one animation tick (or the single instant-apply frame)
// for every transition whose prev and target differ, allocating a fresh
// TransactionId per window via the TransactionManager. frameIndex/total
// select the interpolation fraction for an animated apply; both are
// ignored for an instant apply. Returns whether any frame actually
// differed, which drives downstream broadcasts.
func (m *Manager) Apply(animate bool, transitions []Transition, frameIndex, totalFrames int) bool {
	changed := false
	for _, tr := range transitions {
		if tr.Prev.Equal(tr.Target) {
			continue
		}
		changed = true

		rect := tr.Target
		if animate {
			frac := 1.0
			if totalFrames > 0 {
				frac = float64(frameIndex) / float64(totalFrames)
			}
			if frac > 1 {
				frac = 1
			}
			curve := m.Config.Easing
			if curve == nil {
				curve = EaseInOutQuad
			}
			rect = interpolate(tr.Prev, tr.Target, curve(frac))
		}

		wsid, ok := m.WindowServerID(tr.Window)
		if !ok {
			continue
		}
		txid := m.Txns.BeginRequest(wsid, tr.Target)
		if m.Requester != nil {
			_ = m.Requester.SetWindowFrame(FrameRequest{Window: tr.Window, Rect: rect, Txid: txid, Animate: animate})
		}
	}
	return changed
}
