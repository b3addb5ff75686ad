package reactor

import (
	"strconv"

	"github.com/riftwm/riftwm/internal/engine"
	"github.com/riftwm/riftwm/internal/model"
)

// engineCommandFromArgs translates an IPC ExecuteCommand request's verb
// and string args into an engine.Command. This is the one place a
// human-facing command name (what riftctl's "rift cmd move-focus left"
// sends over the wire) is resolved to the engine's CommandKind union;
// an unrecognised verb comes back as a Command with Kind CmdMoveFocus and
// Direction DirLeft (both zero values), so Dispatch moves focus left.
func engineCommandFromArgs(verb string, args []string) engine.Command {
	switch verb {
	case "move-focus":
		return engine.Command{Kind: engine.CmdMoveFocus, Direction: parseDirection(args)}
	case "move-selection":
		return engine.Command{Kind: engine.CmdMoveSelection, Direction: parseDirection(args)}
	case "split-selection":
		return engine.Command{Kind: engine.CmdSplitSelection, Orientation: parseOrientation(args)}
	case "swap-windows":
		return engine.Command{Kind: engine.CmdSwapWindows, Direction: parseDirection(args)}
	case "toggle-tile-orientation":
		return engine.Command{Kind: engine.CmdToggleTileOrientation}
	case "resize-selection":
		return engine.Command{Kind: engine.CmdResizeSelectionBy, Direction: parseDirection(args), Delta: parseDelta(args)}
	case "join-selection":
		return engine.Command{Kind: engine.CmdJoinSelectionWithDirection, Direction: parseDirection(args)}
	case "unjoin-selection":
		return engine.Command{Kind: engine.CmdUnjoinSelection}
	case "toggle-fullscreen":
		return engine.Command{Kind: engine.CmdToggleFullscreen}
	case "toggle-fullscreen-within-gaps":
		return engine.Command{Kind: engine.CmdToggleFullscreenWithinGaps}
	case "workspace-next":
		return engine.Command{Kind: engine.CmdWorkspaceNext}
	case "workspace-prev":
		return engine.Command{Kind: engine.CmdWorkspacePrev}
	case "workspace-switch":
		return engine.Command{Kind: engine.CmdWorkspaceSwitch, TargetWorkspace: parseWorkspaceID(args)}
	case "move-window-to-workspace":
		return engine.Command{Kind: engine.CmdMoveWindowToWorkspace, TargetWorkspace: parseWorkspaceID(args)}
	case "stack":
		return engine.Command{Kind: engine.CmdApplyStacking, Orientation: parseOrientation(args)}
	default:
		return engine.Command{Kind: engine.CmdMoveFocus}
	}
}

func parseDirection(args []string) model.Direction {
	if len(args) == 0 {
		return model.DirLeft
	}
	switch args[0] {
	case "right":
		return model.DirRight
	case "up":
		return model.DirUp
	case "down":
		return model.DirDown
	default:
		return model.DirLeft
	}
}

func parseOrientation(args []string) model.Orientation {
	if len(args) > 0 && args[0] == "vertical" {
		return model.OrientVertical
	}
	return model.OrientHorizontal
}

func parseDelta(args []string) float64 {
	if len(args) < 2 {
		return 0
	}
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0
	}
	return v
}

func parseWorkspaceID(args []string) model.WorkspaceID {
	if len(args) == 0 {
		return 0
	}
	v, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return 0
	}
	return model.WorkspaceID(v)
}
