// Package workspace implements VirtualWorkspaceManager: per-space sets of
// named workspaces, app-rule-driven assignment, focus memory, and
// floating-window position memory (spec §4.2).
package workspace

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/riftwm/riftwm/internal/model"
)

// WorkspaceSelector picks a destination workspace by position or by name;
// exactly one of Index/Name is meaningful, per an app rule's config.
type WorkspaceSelector struct {
	Index *int
	Name  string
}

// AppRule is one entry of the configured virtual_workspaces.app_rules
// list. Every predicate that is non-empty must match (AND semantics); an
// empty predicate is a wildcard. Rules are tried in declaration order and
// the first full match wins — spec.md §9's open question on tie-break
// order is resolved this way, following the original source.
type AppRule struct {
	BundleGlob       string
	AppNameSubstring string
	TitlePattern     string
	TitleIsRegex     bool
	Role             string
	Subrole          string
	Workspace        WorkspaceSelector
	Floating         bool
	Manage           bool
}

// WindowInfo is the subset of WindowState an app rule matches against.
type WindowInfo struct {
	BundleID string
	AppName  string
	Title    string
	Role     string
	Subrole  string
}

func (r AppRule) matches(w WindowInfo) bool {
	if r.BundleGlob != "" {
		ok, err := path.Match(r.BundleGlob, w.BundleID)
		if err != nil || !ok {
			return false
		}
	}
	if r.AppNameSubstring != "" && !containsFold(w.AppName, r.AppNameSubstring) {
		return false
	}
	if r.TitlePattern != "" {
		if r.TitleIsRegex {
			re, err := regexp.Compile(r.TitlePattern)
			if err != nil || !re.MatchString(w.Title) {
				return false
			}
		} else if !containsFold(w.Title, r.TitlePattern) {
			return false
		}
	}
	if r.Role != "" && r.Role != w.Role {
		return false
	}
	if r.Subrole != "" && r.Subrole != w.Subrole {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// VirtualWorkspace mirrors spec §3's VirtualWorkspace record.
type VirtualWorkspace struct {
	ID                model.WorkspaceID
	Name              string
	LayoutID          model.LayoutID
	Managed           map[model.WindowID]bool
	LastFocusedWindow *model.WindowID
	FloatingPositions map[model.WindowID]model.Rect
}

// AppRuleResult reports whether assign_window_with_app_info managed the
// window (and into which workspace) or left it unmanaged.
type AppRuleResult struct {
	Managed   bool
	Workspace model.WorkspaceID
	Floating  bool
}

type spaceWorkspaces struct {
	order  []model.WorkspaceID
	byID   map[model.WorkspaceID]*VirtualWorkspace
	active model.WorkspaceID
}

type windowAssignment struct {
	space model.SpaceID
	ws    model.WorkspaceID
}

// Manager is VirtualWorkspaceManager. LayoutFactory mints a fresh LayoutID
// when a workspace is lazily created; the manager itself holds no
// layout.System, it only tracks which LayoutID belongs to which
// workspace (internal/engine owns the System instances).
type Manager struct {
	spaces       map[model.SpaceID]*spaceWorkspaces
	nextWorkspace model.WorkspaceID
	Rules        []AppRule

	windowSpace map[model.WindowID]windowAssignment
	unmanaged   map[model.WindowID]bool

	LayoutFactory func() model.LayoutID
}

func NewManager(rules []AppRule, layoutFactory func() model.LayoutID) *Manager {
	return &Manager{
		spaces:        make(map[model.SpaceID]*spaceWorkspaces),
		Rules:         rules,
		windowSpace:   make(map[model.WindowID]windowAssignment),
		unmanaged:     make(map[model.WindowID]bool),
		LayoutFactory: layoutFactory,
	}
}

// EnsureSpace lazily creates workspace slots for space up to count
// (default_workspace_count), naming unnamed ones "Workspace N".
func (m *Manager) EnsureSpace(space model.SpaceID, count int, names []string) {
	sw, ok := m.spaces[space]
	if !ok {
		sw = &spaceWorkspaces{byID: make(map[model.WorkspaceID]*VirtualWorkspace)}
		m.spaces[space] = sw
	}
	for len(sw.order) < count {
		m.nextWorkspace++
		id := m.nextWorkspace
		name := fmt.Sprintf("Workspace %d", len(sw.order)+1)
		if i := len(sw.order); i < len(names) && names[i] != "" {
			name = names[i]
		}
		ws := &VirtualWorkspace{
			ID:                id,
			Name:              name,
			LayoutID:          m.LayoutFactory(),
			Managed:           make(map[model.WindowID]bool),
			FloatingPositions: make(map[model.WindowID]model.Rect),
		}
		sw.byID[id] = ws
		sw.order = append(sw.order, id)
		if sw.active == 0 {
			sw.active = id
		}
	}
}

// ListWorkspaces returns (id, name) pairs in stable declaration order.
func (m *Manager) ListWorkspaces(space model.SpaceID) []struct {
	ID   model.WorkspaceID
	Name string
} {
	sw, ok := m.spaces[space]
	if !ok {
		return nil
	}
	out := make([]struct {
		ID   model.WorkspaceID
		Name string
	}, 0, len(sw.order))
	for _, id := range sw.order {
		out = append(out, struct {
			ID   model.WorkspaceID
			Name string
		}{id, sw.byID[id].Name})
	}
	return out
}

func (m *Manager) ActiveWorkspace(space model.SpaceID) (model.WorkspaceID, bool) {
	sw, ok := m.spaces[space]
	if !ok || sw.active == 0 {
		return 0, false
	}
	return sw.active, true
}

func (m *Manager) SetActiveWorkspace(space model.SpaceID, ws model.WorkspaceID) bool {
	sw, ok := m.spaces[space]
	if !ok {
		return false
	}
	if _, ok := sw.byID[ws]; !ok {
		return false
	}
	sw.active = ws
	return true
}

func (m *Manager) Workspace(space model.SpaceID, ws model.WorkspaceID) (*VirtualWorkspace, bool) {
	sw, ok := m.spaces[space]
	if !ok {
		return nil, false
	}
	v, ok := sw.byID[ws]
	return v, ok
}

// AssignWindowWithAppInfo runs the app-rule matcher and either assigns the
// window to a workspace (Managed) or marks it Unmanaged, per spec §4.2's
// assignment algorithm.
func (m *Manager) AssignWindowWithAppInfo(window model.WindowID, space model.SpaceID, info WindowInfo) AppRuleResult {
	sw, ok := m.spaces[space]
	if !ok {
		return AppRuleResult{Managed: false}
	}

	for _, rule := range m.Rules {
		if !rule.matches(info) {
			continue
		}
		if !rule.Manage {
			m.markUnmanaged(window)
			return AppRuleResult{Managed: false}
		}
		target, ok := m.resolveSelector(sw, rule.Workspace)
		if !ok {
			target = sw.active
		}
		m.assign(space, sw, window, target)
		return AppRuleResult{Managed: true, Workspace: target, Floating: rule.Floating}
	}

	// No rule matched: assign to the active workspace, tiled.
	m.assign(space, sw, window, sw.active)
	return AppRuleResult{Managed: true, Workspace: sw.active}
}

func (m *Manager) resolveSelector(sw *spaceWorkspaces, sel WorkspaceSelector) (model.WorkspaceID, bool) {
	if sel.Name != "" {
		for _, id := range sw.order {
			if sw.byID[id].Name == sel.Name {
				return id, true
			}
		}
		return 0, false
	}
	if sel.Index != nil {
		idx := *sel.Index
		if idx >= 0 && idx < len(sw.order) {
			return sw.order[idx], true
		}
		return 0, false
	}
	return 0, false
}

func (m *Manager) assign(space model.SpaceID, sw *spaceWorkspaces, window model.WindowID, ws model.WorkspaceID) {
	m.detach(window)
	if v, ok := sw.byID[ws]; ok {
		v.Managed[window] = true
	}
	m.windowSpace[window] = windowAssignment{space: space, ws: ws}
	delete(m.unmanaged, window)
}

func (m *Manager) markUnmanaged(window model.WindowID) {
	m.detach(window)
	m.unmanaged[window] = true
}

// detach removes window from whatever workspace (and floating set) it
// currently belongs to, enforcing "a window is present in at most one
// (space, workspace) mapping".
func (m *Manager) detach(window model.WindowID) {
	prev, ok := m.windowSpace[window]
	if !ok {
		return
	}
	if sw, ok := m.spaces[prev.space]; ok {
		if v, ok := sw.byID[prev.ws]; ok {
			delete(v.Managed, window)
			delete(v.FloatingPositions, window)
			if v.LastFocusedWindow != nil && *v.LastFocusedWindow == window {
				v.LastFocusedWindow = nil
			}
		}
	}
	delete(m.windowSpace, window)
}

// AssignWindowToWorkspace is the explicit-move operation.
func (m *Manager) AssignWindowToWorkspace(space model.SpaceID, window model.WindowID, ws model.WorkspaceID) bool {
	sw, ok := m.spaces[space]
	if !ok {
		return false
	}
	if _, ok := sw.byID[ws]; !ok {
		return false
	}
	m.assign(space, sw, window, ws)
	return true
}

func (m *Manager) WorkspaceForWindow(space model.SpaceID, window model.WindowID) (model.WorkspaceID, bool) {
	a, ok := m.windowSpace[window]
	if !ok || a.space != space {
		return 0, false
	}
	return a.ws, true
}

func (m *Manager) IsUnmanaged(window model.WindowID) bool {
	return m.unmanaged[window]
}

func (m *Manager) LastFocusedWindow(space model.SpaceID, ws model.WorkspaceID) (model.WindowID, bool) {
	v, ok := m.Workspace(space, ws)
	if !ok || v.LastFocusedWindow == nil {
		return model.WindowID{}, false
	}
	return *v.LastFocusedWindow, true
}

func (m *Manager) SetLastFocusedWindow(space model.SpaceID, ws model.WorkspaceID, window model.WindowID) {
	if v, ok := m.Workspace(space, ws); ok {
		w := window
		v.LastFocusedWindow = &w
	}
}

func (m *Manager) SetFloatingPosition(space model.SpaceID, ws model.WorkspaceID, window model.WindowID, rect model.Rect) {
	if v, ok := m.Workspace(space, ws); ok {
		v.FloatingPositions[window] = rect
	}
}

// GetWorkspaceFloatingPositions returns the positions to restore when
// floating windows reappear on a workspace switch.
func (m *Manager) GetWorkspaceFloatingPositions(space model.SpaceID, ws model.WorkspaceID) []struct {
	Window model.WindowID
	Rect   model.Rect
} {
	v, ok := m.Workspace(space, ws)
	if !ok {
		return nil
	}
	out := make([]struct {
		Window model.WindowID
		Rect   model.Rect
	}, 0, len(v.FloatingPositions))
	for w, r := range v.FloatingPositions {
		out = append(out, struct {
			Window model.WindowID
			Rect   model.Rect
		}{w, r})
	}
	return out
}

// RemoveWindow drops a destroyed window from whatever workspace it was in.
func (m *Manager) RemoveWindow(window model.WindowID) {
	m.detach(window)
	delete(m.unmanaged, window)
}

// Spaces lists every space EnsureSpace has been called for, sorted for
// deterministic snapshot ordering.
func (m *Manager) Spaces() []model.SpaceID {
	out := make([]model.SpaceID, 0, len(m.spaces))
	for s := range m.spaces {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
