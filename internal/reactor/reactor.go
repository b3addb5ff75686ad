package reactor

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/riftwm/riftwm/internal/animation"
	"github.com/riftwm/riftwm/internal/drag"
	"github.com/riftwm/riftwm/internal/engine"
	"github.com/riftwm/riftwm/internal/gates"
	"github.com/riftwm/riftwm/internal/layout"
	"github.com/riftwm/riftwm/internal/model"
	"github.com/riftwm/riftwm/internal/ports"
	"github.com/riftwm/riftwm/internal/store"
	"github.com/riftwm/riftwm/internal/txn"
)

// Settings is the slice of the loaded config the reactor's own handlers
// consult directly (calculate_layout's rendering knobs plus the two
// mouse/focus coupling flags); everything else (animation curve/duration,
// app rules, key bindings) is already baked into the collaborators or
// internal/engine by the time cmd/riftd builds a Reactor.
type Settings struct {
	FocusFollowsMouse bool
	MouseFollowsFocus bool

	StackOffset        float64
	StackLineThickness float64
	Horiz              layout.HorizontalPlacement
	Vert               layout.VerticalPlacement
}

// EventRecorder is the narrow slice of internal/persist.Journal the
// reactor needs for its additive metrics log (window lifecycle events
// and transaction settlement latency). Declared here rather than
// importing internal/persist directly, since persist already imports
// internal/engine — this keeps the dependency graph a DAG and lets a
// test double satisfy the interface without pulling in sqlite.
type EventRecorder interface {
	RecordWindowEvent(pid int32, index uint32, kind string)
	RecordTxnLatency(txid uint64, latency time.Duration)
}

// Collaborators bundles every injected-wrapper dependency the reactor
// dispatches outbound requests through (spec §6's outbound channels).
// Any field left nil is treated as absent and simply skipped — tests
// exercise the reactor with only the collaborators a given scenario
// needs.
type Collaborators struct {
	Compositor  ports.Compositor
	Raise       ports.RaiseCoordinator
	StackLine   ports.StackLineSink
	MenuBar     ports.MenuBarSink
	Notifier    ports.WindowNotifier
	EventTap    ports.EventTap
	Broadcast   ports.BroadcastBus
	AppRequests func(pid model.AppPid, req any) error
	Journal     EventRecorder
	Save        SaveFunc
}

// Reactor is the event loop. It is the sole mutator of every store and
// subsystem it holds (spec §5, "Single-owner state"); callers serialize
// all access by routing every external event through Step.
type Reactor struct {
	Windows *store.WindowManager
	Apps    *store.AppManager
	Screens *store.SpaceManager
	WSInfo  *store.WindowServerInfoManager

	Engine *engine.Engine
	Txns   *txn.Manager
	Drag   *drag.Manager
	Anim   *animation.Manager

	Switch          *gates.WorkspaceSwitchManager
	MissionControl  *gates.MissionControlManager
	PendingSpaces   *gates.PendingSpaceChangeManager
	Topology        *gates.TopologyRelayout

	Settings Settings

	collab Collaborators
	log    zerolog.Logger

	// pendingRefresh is set while a screen-parameters change is applied.
	// Together with mission control and an active drag it suppresses
	// discovery's stale-window sweep (staleCleanupSuppressed, spec §4.8).
	pendingRefresh bool

	// animSessions holds one in-flight animated transition per space; a
	// session is dropped as soon as its frame count is exhausted or its
	// stamped generation goes stale (spec §9, "generation counters for
	// cancellation").
	animSessions map[model.SpaceID]*animSession

	// lastExit is set by CmdSaveAndExit; cmd/riftd polls LastExit() after
	// every Step and exits once Requested is true.
	lastExit ExitRequest
}

type animSession struct {
	transitions []animation.Transition
	generation  uint64
	total       int
	frame       int
}

// New wires a Reactor from already-constructed subsystems; cmd/riftd is
// responsible for building each of these (loading config, opening the
// persist store, standing up the ui/ipc adapters) and handing the
// finished set here.
func New(eng *engine.Engine, collab Collaborators, log zerolog.Logger) *Reactor {
	return &Reactor{
		Windows: store.NewWindowManager(),
		Apps:    store.NewAppManager(),
		Screens: store.NewSpaceManager(),
		WSInfo:  store.NewWindowServerInfoManager(),

		Engine: eng,
		Txns:   txn.NewManager(),
		// Default swap fraction; cmd/riftd overwrites this via
		// SetDragSwapFraction once window_snapping.drag_swap_fraction is
		// loaded from config.
		Drag: drag.NewManager(0.5),

		Switch:        &gates.WorkspaceSwitchManager{},
		MissionControl: &gates.MissionControlManager{},
		PendingSpaces: gates.NewPendingSpaceChangeManager(),
		Topology:      &gates.TopologyRelayout{},

		collab:       collab,
		log:          log,
		animSessions: make(map[model.SpaceID]*animSession),
	}
}

// SetAnimation installs the AnimationManager once its txn.Manager/
// requester/WindowServerID-resolver dependencies are available; kept as
// a setter rather than a New() parameter because AnimationManager needs
// the reactor's own Txns instance and a resolver closing over Windows.
func (r *Reactor) SetAnimation(a *animation.Manager) { r.Anim = a }

// SetDragSwapFraction replaces Drag with a freshly configured Manager;
// called once at startup from the loaded config's
// window_snapping.drag_swap_fraction.
func (r *Reactor) SetDragSwapFraction(fraction float64) {
	r.Drag = drag.NewManager(fraction)
}

// Step processes exactly one inbox event end to end: dispatch, mutate,
// relayout, emit. It never blocks and never panics on malformed input —
// unknown entities are logged at debug and ignored per spec §7.
func (r *Reactor) Step(ev Event) {
	switch ev.Kind {
	case EventAppLaunched:
		r.handleAppLaunched(ev)
	case EventAppTerminated:
		r.handleAppTerminated(ev)
	case EventApplicationActivated:
		r.handleApplicationActivated(ev)
	case EventWindowsDiscovered:
		r.handleWindowsDiscovered(ev)
	case EventWindowCreated:
		r.handleWindowCreated(ev)
	case EventWindowDestroyed:
		r.handleWindowDestroyed(ev)
	case EventWindowMinimized:
		r.handleWindowMinimized(ev)
	case EventWindowDeminiaturized:
		r.handleWindowDeminiaturized(ev)
	case EventWindowFrameChanged:
		r.handleWindowFrameChanged(ev)
	case EventWindowTitleChanged:
		r.handleWindowTitleChanged(ev)
	case EventMouseMovedOverWindow:
		r.handleMouseMovedOverWindow(ev)
	case EventScreenParametersChanged:
		r.handleScreenParametersChanged(ev)
	case EventActiveSpacesChanged:
		r.handleActiveSpacesChanged(ev)
	case EventSpaceChanged:
		r.handleSpaceChanged(ev)
	case EventMissionControlEntered:
		r.handleMissionControlEntered(ev)
	case EventMissionControlExited:
		r.handleMissionControlExited(ev)
	case EventCommand:
		r.handleCommand(ev)
	case EventQuery:
		r.handleQuery(ev)
	case EventAnimationTick:
		r.handleAnimationTick(ev)
	default:
		r.log.Debug().Int("kind", int(ev.Kind)).Msg("reactor: unknown event kind, ignored")
	}
}

// staleCleanupSuppressed reports whether discovery's stale-window sweep
// should be skipped this step (spec §4.8).
func (r *Reactor) staleCleanupSuppressed() bool {
	return r.MissionControl.Active() || r.Drag.State() != drag.StateInactive || r.pendingRefresh
}

// applyDispatch relays an engine.Dispatch result into a relayout plus
// fulfil, the pairing every LayoutCommand call site needs. A workspace
// switch is marked active for the whole relayout, not just fulfil's
// instant: Settings.Animate defaults true, so without this the switch's
// relayout would take the animated path (Switch.Switching() reads false
// before BeginSwitch has been called), stamp a generation, and start an
// animation session — which BeginSwitch then immediately invalidates on
// the next tick, stranding the new workspace's windows at their first
// interpolation frame instead of their calculated targets. Marking the
// switch active before relayout makes ShouldAnimate return false so the
// new workspace's windows apply to their final frames in this Step.
func (r *Reactor) applyDispatch(space model.SpaceID, resp engine.EventResponse) {
	if resp.WorkspaceChangedTo != nil {
		r.Switch.BeginSwitch(gates.OriginAuto)
		r.relayout(space)
		r.Switch.EndSwitch()
	} else {
		r.relayout(space)
	}
	r.fulfil(space, resp)
}

// fulfil applies an engine.EventResponse's raise/focus instructions
// through the injected collaborators. Shared by command dispatch,
// layout-event consumption, and discovery.
func (r *Reactor) fulfil(space model.SpaceID, resp engine.EventResponse) {
	if len(resp.RaiseWindows) > 0 && r.collab.Raise != nil {
		batches := GroupRaiseBatches(resp.RaiseWindows, resp.FocusWindow)
		if err := r.collab.Raise.Raise(batches, resp.FocusWindow); err != nil {
			r.log.Warn().Err(err).Msg("reactor: raise request failed")
		}
	}
	if resp.FocusWindow != nil {
		r.notifyFocus(*resp.FocusWindow)
	}
}

// notifyFocus draws the focus border and grants key-window status for
// window, absorbing any collaborator error per spec §7's "transient
// send failure" policy.
func (r *Reactor) notifyFocus(window model.WindowID) {
	if r.collab.Compositor != nil {
		if err := r.collab.Compositor.MakeKeyWindow(window); err != nil {
			r.log.Warn().Err(err).Msg("reactor: make-key-window failed")
		}
	}
	if r.collab.Notifier == nil {
		return
	}
	w, ok := r.Windows.Get(window)
	if !ok {
		return
	}
	if err := r.collab.Notifier.NotifyFocusBorder(window, w.Frame); err != nil {
		r.log.Warn().Err(err).Msg("reactor: focus-border notify failed")
	}
}

func (r *Reactor) recordWindowEvent(pid model.AppPid, index uint32, kind string) {
	if r.collab.Journal != nil {
		r.collab.Journal.RecordWindowEvent(int32(pid), index, kind)
	}
}

// relayout recomputes the active workspace's rects for space and either
// applies them instantly or starts an animated transition session
// (spec §4.7). Called after any event that may have changed the tree
// (window add/remove/resize, workspace switch, layout command).
func (r *Reactor) relayout(space model.SpaceID) {
	screen, ok := r.Screens.ScreenForSpace(space)
	if !ok {
		return
	}
	rects := r.Engine.CalculateLayout(space, screen.Frame, r.Settings.StackOffset,
		r.Settings.StackLineThickness, r.Settings.Horiz, r.Settings.Vert)
	if len(rects) == 0 || r.Anim == nil {
		return
	}

	transitions := make([]animation.Transition, 0, len(rects))
	for _, wr := range rects {
		prev := model.Rect{}
		if w, ok := r.Windows.Get(wr.Window); ok {
			prev = w.Frame
		}
		transitions = append(transitions, animation.Transition{Window: wr.Window, Prev: prev, Target: wr.Rect})
	}

	animate := r.Anim.ShouldAnimate(r.Switch.Switching())
	if !animate {
		r.applyFrame(space, transitions, 1, 1)
		return
	}

	total := r.Anim.TotalFrames()
	gen := r.Switch.Generation()
	r.animSessions[space] = &animSession{transitions: transitions, generation: gen, total: total, frame: 1}
	r.applyFrame(space, transitions, 1, total)
}

// handleAnimationTick advances the in-flight session for ev.Space by one
// frame, a no-op if the session has already finished or gone stale
// (spec §4.6's generation-invalidation rule for late animation ticks).
func (r *Reactor) handleAnimationTick(ev Event) {
	session, ok := r.animSessions[ev.Space]
	if !ok {
		return
	}
	if !r.Switch.Valid(session.generation) {
		delete(r.animSessions, ev.Space)
		return
	}
	session.frame++
	r.applyFrame(ev.Space, session.transitions, session.frame, session.total)
	if session.frame >= session.total {
		delete(r.animSessions, ev.Space)
	}
}

func (r *Reactor) applyFrame(space model.SpaceID, transitions []animation.Transition, frameIndex, total int) {
	animate := frameIndex < total
	changed := r.Anim.Apply(animate, transitions, frameIndex, total)
	for _, tr := range transitions {
		w, ok := r.Windows.Get(tr.Window)
		if !ok {
			continue
		}
		if frameIndex >= total {
			w.Frame = tr.Target
		}
		r.Windows.SetFrame(tr.Window, w.Frame)
	}
	if changed && r.collab.Broadcast != nil {
		r.collab.Broadcast.Publish(ports.BroadcastEvent{Kind: "layout_changed", Payload: transitions})
	}
	if screen, ok := r.Screens.ScreenForSpace(space); ok {
		r.updateStackLine(space, screen.ID)
	}
}

// updateStackLine pushes the current stacked-container set for space to
// the stack-line indicator, absorbing collaborator errors.
func (r *Reactor) updateStackLine(space model.SpaceID, screen model.ScreenID) {
	if r.collab.StackLine == nil {
		return
	}
	ws, ok := r.Engine.Workspaces.ActiveWorkspace(space)
	if !ok {
		return
	}
	groups := r.collectGroupContainers(space, ws)
	if err := r.collab.StackLine.UpdateStackLine(ports.GroupContainerUpdate{Space: space, Screen: screen, Groups: groups}); err != nil {
		r.log.Warn().Err(err).Msg("reactor: stack-line update failed")
	}
}

func (r *Reactor) collectGroupContainers(space model.SpaceID, ws model.WorkspaceID) []ports.StackGroup {
	containers := r.Engine.GroupContainers(space, ws)
	out := make([]ports.StackGroup, 0, len(containers))
	for _, c := range containers {
		var active model.WindowID
		if len(c.Children) > 0 {
			active = c.Children[0]
		}
		out = append(out, ports.StackGroup{Windows: c.Children, Active: active})
	}
	return out
}
