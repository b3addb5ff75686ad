package reactor

import (
	"github.com/riftwm/riftwm/internal/model"
	"github.com/riftwm/riftwm/internal/ports"
)

// GroupRaiseBatches implements spec §8 scenario 5's per-app raise
// grouping: every app's windows raise together as one batch, except the
// app that owns focus, whose windows each raise as their own singleton
// batch — focus's window first, so it ends up on top. Order otherwise
// follows each window's first appearance in windows.
//
// Example: two apps, two windows each, focus on app 2's first window.
// Input order (1,1) (1,2) (2,1) (2,2) with focus (2,1) yields batches
// {(1,1),(1,2)}, {(2,1)}, {(2,2)}.
func GroupRaiseBatches(windows []model.WindowID, focus *model.WindowID) []ports.RaiseBatch {
	if len(windows) == 0 {
		return nil
	}

	var focusPid model.AppPid
	hasFocusApp := false
	if focus != nil {
		focusPid = focus.Pid
		hasFocusApp = true
	}

	order := make([]model.AppPid, 0, len(windows))
	byApp := make(map[model.AppPid][]model.WindowID, len(windows))
	for _, w := range windows {
		if _, seen := byApp[w.Pid]; !seen {
			order = append(order, w.Pid)
		}
		byApp[w.Pid] = append(byApp[w.Pid], w)
	}

	var batches []ports.RaiseBatch
	for _, pid := range order {
		group := byApp[pid]
		if !hasFocusApp || pid != focusPid {
			batches = append(batches, ports.RaiseBatch{Windows: group})
			continue
		}

		// This is the focus app: its focus window raises alone first,
		// then every other one of its windows, each alone.
		batches = append(batches, ports.RaiseBatch{Windows: []model.WindowID{*focus}})
		for _, w := range group {
			if w == *focus {
				continue
			}
			batches = append(batches, ports.RaiseBatch{Windows: []model.WindowID{w}})
		}
	}
	return batches
}
