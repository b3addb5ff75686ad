// Package store holds the reactor's plain data stores: window state, app
// handles, screens/space ids, and compositor window-server metadata. None
// of these types run logic of their own; the reactor is the sole mutator,
// per spec.md §5's single-owner model.
package store

import (
	"time"

	"github.com/riftwm/riftwm/internal/model"
)

// WindowManager owns WindowId -> WindowState. Entries are created on
// discovery and destroyed on last-window-of-app removal or an explicit
// destroyed event.
type WindowManager struct {
	windows map[model.WindowID]*model.WindowState
}

func NewWindowManager() *WindowManager {
	return &WindowManager{windows: make(map[model.WindowID]*model.WindowState)}
}

func (m *WindowManager) Upsert(w model.WindowState) {
	m.windows[w.ID] = &w
}

func (m *WindowManager) Get(id model.WindowID) (model.WindowState, bool) {
	w, ok := m.windows[id]
	if !ok {
		return model.WindowState{}, false
	}
	return *w, true
}

func (m *WindowManager) Remove(id model.WindowID) {
	delete(m.windows, id)
}

func (m *WindowManager) RemoveForApp(pid model.AppPid) []model.WindowID {
	var removed []model.WindowID
	for id := range m.windows {
		if id.Pid == pid {
			removed = append(removed, id)
		}
	}
	for _, id := range removed {
		delete(m.windows, id)
	}
	return removed
}

func (m *WindowManager) WindowsForApp(pid model.AppPid) []model.WindowID {
	var out []model.WindowID
	for id := range m.windows {
		if id.Pid == pid {
			out = append(out, id)
		}
	}
	return out
}

func (m *WindowManager) SetFrame(id model.WindowID, frame model.Rect) {
	if w, ok := m.windows[id]; ok {
		w.Frame = frame
	}
}

func (m *WindowManager) SetWindowServerID(id model.WindowID, wsid model.WindowServerID) {
	if w, ok := m.windows[id]; ok {
		w.WindowServerID = &wsid
	}
}

func (m *WindowManager) Touch(id model.WindowID, now time.Time) {
	if w, ok := m.windows[id]; ok {
		w.LastVerified = now
	}
}

// All reports every tracked window, for the IPC GetWindows query.
func (m *WindowManager) All() []model.WindowID {
	out := make([]model.WindowID, 0, len(m.windows))
	for id := range m.windows {
		out = append(out, id)
	}
	return out
}

func (m *WindowManager) ByWindowServerID(wsid model.WindowServerID) (model.WindowID, bool) {
	for id, w := range m.windows {
		if w.WindowServerID != nil && *w.WindowServerID == wsid {
			return id, true
		}
	}
	return model.WindowID{}, false
}

// AppManager owns AppPid -> AppState. SendFunc is the reactor's non-blocking
// dispatch handle to that app's observer task (see internal/ports); it is
// stored here rather than on AppState to keep AppState a plain record.
type SendFunc func(req any) error

type appEntry struct {
	state model.AppState
	send  SendFunc
}

type AppManager struct {
	apps map[model.AppPid]*appEntry
}

func NewAppManager() *AppManager {
	return &AppManager{apps: make(map[model.AppPid]*appEntry)}
}

func (m *AppManager) Launch(info model.AppInfo, send SendFunc) {
	m.apps[info.Pid] = &appEntry{state: model.AppState{Info: info}, send: send}
}

func (m *AppManager) Terminate(pid model.AppPid) {
	delete(m.apps, pid)
}

func (m *AppManager) Get(pid model.AppPid) (model.AppState, bool) {
	e, ok := m.apps[pid]
	if !ok {
		return model.AppState{}, false
	}
	return e.state, true
}

func (m *AppManager) Send(pid model.AppPid, req any) error {
	e, ok := m.apps[pid]
	if !ok {
		return nil
	}
	return e.send(req)
}

func (m *AppManager) All() []model.AppInfo {
	out := make([]model.AppInfo, 0, len(m.apps))
	for _, e := range m.apps {
		out = append(out, e.state.Info)
	}
	return out
}

// SpaceManager owns the current screens and their screen->space mapping.
// Screens are replaced wholesale on a display-parameters-changed event.
type SpaceManager struct {
	screens map[model.ScreenID]*model.Screen
}

func NewSpaceManager() *SpaceManager {
	return &SpaceManager{screens: make(map[model.ScreenID]*model.Screen)}
}

func (m *SpaceManager) ReplaceScreens(screens []model.Screen) {
	m.screens = make(map[model.ScreenID]*model.Screen, len(screens))
	for i := range screens {
		s := screens[i]
		m.screens[s.ID] = &s
	}
}

func (m *SpaceManager) Screen(id model.ScreenID) (model.Screen, bool) {
	s, ok := m.screens[id]
	if !ok {
		return model.Screen{}, false
	}
	return *s, true
}

func (m *SpaceManager) All() []model.Screen {
	out := make([]model.Screen, 0, len(m.screens))
	for _, s := range m.screens {
		out = append(out, *s)
	}
	return out
}

func (m *SpaceManager) SetSpace(id model.ScreenID, space *model.SpaceID) {
	if s, ok := m.screens[id]; ok {
		s.Space = space
	}
}

func (m *SpaceManager) ScreenForSpace(space model.SpaceID) (model.Screen, bool) {
	for _, s := range m.screens {
		if s.Space != nil && *s.Space == space {
			return *s, true
		}
	}
	return model.Screen{}, false
}

// WindowServerInfo is the compositor-side metadata the reactor tracks per
// WindowServerId: the compositor layer (0 means on-screen/manageable) and
// whether the window is currently on-screen at all.
type WindowServerInfo struct {
	Layer    int
	OnScreen bool
}

// WindowServerInfoManager owns WindowServerId -> WindowServerInfo.
type WindowServerInfoManager struct {
	info map[model.WindowServerID]WindowServerInfo
}

func NewWindowServerInfoManager() *WindowServerInfoManager {
	return &WindowServerInfoManager{info: make(map[model.WindowServerID]WindowServerInfo)}
}

func (m *WindowServerInfoManager) Set(id model.WindowServerID, info WindowServerInfo) {
	m.info[id] = info
}

func (m *WindowServerInfoManager) Get(id model.WindowServerID) (WindowServerInfo, bool) {
	info, ok := m.info[id]
	return info, ok
}

func (m *WindowServerInfoManager) Remove(id model.WindowServerID) {
	delete(m.info, id)
}

// IsLayerZero reports whether id is known and sits at compositor layer 0,
// the manageability precondition from the glossary.
func (m *WindowServerInfoManager) IsLayerZero(id model.WindowServerID) bool {
	info, ok := m.info[id]
	return ok && info.Layer == 0
}
