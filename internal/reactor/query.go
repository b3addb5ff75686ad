package reactor

import (
	"fmt"

	"github.com/riftwm/riftwm/internal/ipc"
	"github.com/riftwm/riftwm/internal/model"
)

// workspaceSummary and friends are the JSON-facing shapes GetWorkspaces/
// GetWindows/etc. reply with; kept local to this file since nothing else
// in the reactor needs them.
type workspaceSummary struct {
	ID     model.WorkspaceID `json:"id"`
	Name   string            `json:"name"`
	Active bool              `json:"active"`
}

type windowSummary struct {
	Pid   model.AppPid `json:"pid"`
	Index uint32       `json:"index"`
	Title string       `json:"title"`
	Frame model.Rect   `json:"frame"`
}

type displaySummary struct {
	Screen model.ScreenID `json:"screen"`
	Frame  model.Rect     `json:"frame"`
	Space  *model.SpaceID `json:"space,omitempty"`
	Name   string         `json:"name"`
}

// handleQuery answers one ipc.Request synchronously and writes the
// result to ev.Reply, spec §6's "each query translates to one reactor
// event with a reply channel". Subscribe/Unsubscribe/*Cli requests never
// reach here — the IPC transport layer that owns the subscriber list
// intercepts them before they're turned into an Event.
func (r *Reactor) handleQuery(ev Event) {
	if ev.Query == nil || ev.Reply == nil {
		return
	}
	req := *ev.Query

	var resp ipc.Response
	switch req.Kind {
	case ipc.ReqGetWorkspaces:
		resp = r.queryWorkspaces(req)
	case ipc.ReqGetDisplays:
		resp = r.queryDisplays()
	case ipc.ReqGetWindows:
		resp = r.queryWindows(req)
	case ipc.ReqGetWindowInfo:
		resp = r.queryWindowInfo(req)
	case ipc.ReqGetLayoutState:
		resp = r.queryLayoutState(req)
	case ipc.ReqGetApplications:
		resp = ipc.Ok(r.Apps.All())
	case ipc.ReqGetMetrics:
		resp = ipc.Ok(map[string]any{})
	case ipc.ReqGetConfig:
		resp = ipc.Ok(r.Settings)
	case ipc.ReqExecuteCommand:
		resp = r.queryExecuteCommand(req)
	default:
		resp = ipc.Fail(fmt.Errorf("reactor: query kind %q not handled here", req.Kind))
	}

	select {
	case ev.Reply <- resp:
	default:
		// Caller gave up waiting; spec §7's backpressure policy says
		// never block the reactor over a slow/abandoned reply channel.
	}
}

func (r *Reactor) queryWorkspaces(req ipc.Request) ipc.Response {
	if req.SpaceID == nil {
		return ipc.Fail(fmt.Errorf("reactor: GetWorkspaces requires space_id"))
	}
	active, _ := r.Engine.Workspaces.ActiveWorkspace(*req.SpaceID)
	var out []workspaceSummary
	for _, ws := range r.Engine.Workspaces.ListWorkspaces(*req.SpaceID) {
		out = append(out, workspaceSummary{ID: ws.ID, Name: ws.Name, Active: ws.ID == active})
	}
	return ipc.Ok(out)
}

func (r *Reactor) queryDisplays() ipc.Response {
	var out []displaySummary
	for _, s := range r.Screens.All() {
		out = append(out, displaySummary{Screen: s.ID, Frame: s.Frame, Space: s.Space, Name: s.Name})
	}
	return ipc.Ok(out)
}

func (r *Reactor) queryWindows(req ipc.Request) ipc.Response {
	var ids []model.WindowID
	if req.SpaceID != nil {
		ws, ok := r.Engine.Workspaces.ActiveWorkspace(*req.SpaceID)
		if !ok {
			return ipc.Ok([]windowSummary{})
		}
		vw, ok := r.Engine.Workspaces.Workspace(*req.SpaceID, ws)
		if !ok {
			return ipc.Ok([]windowSummary{})
		}
		for w := range vw.Managed {
			ids = append(ids, w)
		}
	} else {
		ids = r.Windows.All()
	}

	out := make([]windowSummary, 0, len(ids))
	for _, id := range ids {
		w, ok := r.Windows.Get(id)
		if !ok {
			continue
		}
		out = append(out, windowSummary{Pid: id.Pid, Index: id.Index, Title: w.Title, Frame: w.Frame})
	}
	return ipc.Ok(out)
}

func (r *Reactor) queryWindowInfo(req ipc.Request) ipc.Response {
	if req.WindowID == nil {
		return ipc.Fail(fmt.Errorf("reactor: GetWindowInfo requires window_id"))
	}
	w, ok := r.Windows.Get(*req.WindowID)
	if !ok {
		return ipc.Fail(fmt.Errorf("reactor: unknown window %v", *req.WindowID))
	}
	return ipc.Ok(w)
}

func (r *Reactor) queryLayoutState(req ipc.Request) ipc.Response {
	if req.SpaceID == nil {
		return ipc.Fail(fmt.Errorf("reactor: GetLayoutState requires space_id"))
	}
	ws, ok := r.Engine.Workspaces.ActiveWorkspace(*req.SpaceID)
	if !ok {
		return ipc.Fail(fmt.Errorf("reactor: space %v has no active workspace", *req.SpaceID))
	}
	return ipc.Ok(r.Engine.GroupContainers(*req.SpaceID, ws))
}

func (r *Reactor) queryExecuteCommand(req ipc.Request) ipc.Response {
	if req.SpaceID == nil {
		return ipc.Fail(fmt.Errorf("reactor: ExecuteCommand requires space_id"))
	}
	resp := r.Engine.Dispatch(*req.SpaceID, engineCommandFromArgs(req.Command, req.Args))
	r.applyDispatch(*req.SpaceID, resp)
	return ipc.Ok(nil)
}
