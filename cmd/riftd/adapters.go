package main

import (
	"github.com/rs/zerolog"

	"github.com/riftwm/riftwm/internal/animation"
	"github.com/riftwm/riftwm/internal/model"
	"github.com/riftwm/riftwm/internal/ports"
)

// logCompositor implements ports.Compositor by logging the call. There
// is no native window server in this environment (spec.md's own
// non-goal: "does not talk to the native window server directly") —
// this stands in for the peripheral adapter the spec describes, the
// same way the teacher's own server keeps its pane backend behind a
// narrow interface so a headless one can substitute for it in tests.
type logCompositor struct{ log zerolog.Logger }

func (c logCompositor) SwitchSpace(screen model.ScreenID, space model.SpaceID) error {
	c.log.Debug().Uint32("screen", uint32(screen)).Uint64("space", uint64(space)).Msg("compositor: switch space")
	return nil
}

func (c logCompositor) MakeKeyWindow(window model.WindowID) error {
	c.log.Debug().Stringer("window", window).Msg("compositor: make key window")
	return nil
}

func (c logCompositor) MissionControlEnter() error {
	c.log.Debug().Msg("compositor: mission control enter")
	return nil
}

func (c logCompositor) MissionControlExit() error {
	c.log.Debug().Msg("compositor: mission control exit")
	return nil
}

// logRaiseCoordinator implements ports.RaiseCoordinator by logging the
// already-grouped raise batches the reactor computed.
type logRaiseCoordinator struct{ log zerolog.Logger }

func (c logRaiseCoordinator) Raise(batches []ports.RaiseBatch, focus *model.WindowID) error {
	for i, b := range batches {
		c.log.Debug().Int("batch", i).Int("windows", len(b.Windows)).Msg("raise: batch")
	}
	if focus != nil {
		c.log.Debug().Stringer("window", *focus).Msg("raise: focus target")
	}
	return nil
}

// logEventTap implements ports.EventTap by logging the cursor warp.
type logEventTap struct{ log zerolog.Logger }

func (t logEventTap) WarpCursor(x, y float64) error {
	t.log.Debug().Float64("x", x).Float64("y", y).Msg("event tap: warp cursor")
	return nil
}

// appRequestLogger stands in for the per-app observer process spec §6
// dispatches SetWindowFrame/MarkWindowsNeedingInfo/GetVisibleWindows and
// CloseWindowRequest through. Nothing in this environment runs an
// observer per launched app, so every request is logged and dropped;
// the shape still exercises Collaborators.AppRequests end to end.
func appRequestLogger(log zerolog.Logger) func(model.AppPid, any) error {
	return func(pid model.AppPid, req any) error {
		log.Debug().Int32("pid", int32(pid)).Interface("request", req).Msg("app request (no observer backend, logged only)")
		return nil
	}
}

// animRequester adapts the logged AppRequests function to
// animation.Requester, the distinct per-frame interface the animation
// manager dispatches through.
type animRequester struct {
	send func(model.AppPid, any) error
}

func (a animRequester) SetWindowFrame(req animation.FrameRequest) error {
	return a.send(req.Window.Pid, req)
}
