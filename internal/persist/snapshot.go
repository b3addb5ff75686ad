// Package persist implements a deterministic, version-tagged textual
// snapshot: per workspace its name, window insertion order, selection
// cursor, last-focused window and floating positions (no split ratios,
// orientations or tiled rects), plus an additive sqlite event/metrics
// journal (SPEC_FULL.md §2).
package persist

import (
	"time"

	"github.com/riftwm/riftwm/internal/model"
)

// FormatVersion is bumped whenever Snapshot's shape changes in a way that
// requires restore-time migration.
const FormatVersion = 1

// FloatingPosition is one entry of a workspace's remembered floating
// window geometry (spec's get_workspace_floating_positions).
type FloatingPosition struct {
	Window model.WindowID `json:"window"`
	Rect   model.Rect     `json:"rect"`
}

// WorkspaceSnapshot captures one VirtualWorkspace's persisted state.
// Windows is the order the layout tree is rebuilt from on restore (see
// engine.WorkspaceLayoutState); the rebuilt tree holds the same windows
// but not the saved split ratios or orientations.
type WorkspaceSnapshot struct {
	Name              string             `json:"name"`
	Windows           []model.WindowID   `json:"windows"`
	Selected          *model.WindowID    `json:"selected,omitempty"`
	LastFocusedWindow *model.WindowID    `json:"last_focused_window,omitempty"`
	FloatingPositions []FloatingPosition `json:"floating_positions,omitempty"`
}

// SpaceSnapshot captures one space's ordered workspace list and which one
// was active. ActiveIndex (not a WorkspaceID) is used because
// WorkspaceID is a slot-map key minted fresh every run — position in
// Workspaces is the only thing stable across a save/restore cycle.
type SpaceSnapshot struct {
	ActiveIndex int                 `json:"active_index"`
	Workspaces  []WorkspaceSnapshot `json:"workspaces"`
}

// Snapshot is the whole persisted file. Space ids are themselves
// compositor-assigned and ephemeral (model.SpaceID's doc comment), so a
// Snapshot does not claim which live space each entry belongs to — the
// caller restoring it (cmd/riftd, once it has re-discovered the current
// spaces) supplies that mapping positionally; see Apply.
type Snapshot struct {
	Version   int             `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Hash      string          `json:"hash"`
	Spaces    []SpaceSnapshot `json:"spaces"`
}
