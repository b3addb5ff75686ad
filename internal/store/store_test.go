package store

import (
	"testing"

	"github.com/riftwm/riftwm/internal/model"
)

func TestWindowManagerLifecycle(t *testing.T) {
	wm := NewWindowManager()
	id := model.WindowID{Pid: 1, Index: 0}
	wm.Upsert(model.WindowState{ID: id, Title: "term"})

	got, ok := wm.Get(id)
	if !ok || got.Title != "term" {
		t.Fatalf("expected window to be retrievable, got %+v ok=%v", got, ok)
	}

	wm.SetFrame(id, model.Rect{W: 100, H: 100})
	got, _ = wm.Get(id)
	if got.Frame.W != 100 {
		t.Fatalf("expected frame to be updated, got %+v", got.Frame)
	}

	wm.Remove(id)
	if _, ok := wm.Get(id); ok {
		t.Fatal("expected window to be gone after Remove")
	}
}

func TestWindowManagerRemoveForApp(t *testing.T) {
	wm := NewWindowManager()
	wm.Upsert(model.WindowState{ID: model.WindowID{Pid: 1, Index: 0}})
	wm.Upsert(model.WindowState{ID: model.WindowID{Pid: 1, Index: 1}})
	wm.Upsert(model.WindowState{ID: model.WindowID{Pid: 2, Index: 0}})

	removed := wm.RemoveForApp(1)
	if len(removed) != 2 {
		t.Fatalf("expected 2 windows removed, got %d", len(removed))
	}
	if len(wm.WindowsForApp(1)) != 0 {
		t.Fatal("expected no windows left for pid 1")
	}
	if len(wm.WindowsForApp(2)) != 1 {
		t.Fatal("expected pid 2's window untouched")
	}
}

func TestWindowManagerByWindowServerID(t *testing.T) {
	wm := NewWindowManager()
	id := model.WindowID{Pid: 1, Index: 0}
	wm.Upsert(model.WindowState{ID: id})
	wm.SetWindowServerID(id, model.WindowServerID(42))

	got, ok := wm.ByWindowServerID(42)
	if !ok || got != id {
		t.Fatalf("expected to find %v by window-server id, got %v ok=%v", id, got, ok)
	}
	if _, ok := wm.ByWindowServerID(99); ok {
		t.Fatal("expected unknown window-server id to miss")
	}
}

func TestAppManagerLifecycle(t *testing.T) {
	am := NewAppManager()
	sent := false
	am.Launch(model.AppInfo{Pid: 1, BundleID: "com.example.app"}, func(req any) error {
		sent = true
		return nil
	})

	if _, ok := am.Get(1); !ok {
		t.Fatal("expected app to be present after Launch")
	}
	if err := am.Send(1, "ping"); err != nil || !sent {
		t.Fatalf("expected Send to reach the registered handle, sent=%v err=%v", sent, err)
	}
	if err := am.Send(99, "ping"); err != nil {
		t.Fatalf("expected Send to an unknown pid to be a no-op, got err=%v", err)
	}

	am.Terminate(1)
	if _, ok := am.Get(1); ok {
		t.Fatal("expected app to be gone after Terminate")
	}
}

func TestSpaceManagerReplaceScreens(t *testing.T) {
	sm := NewSpaceManager()
	space := model.SpaceID(7)
	sm.ReplaceScreens([]model.Screen{
		{ID: 1, Frame: model.Rect{W: 1000, H: 1000}, Space: &space},
		{ID: 2, Frame: model.Rect{X: 1000, W: 1000, H: 1000}},
	})

	s, ok := sm.Screen(1)
	if !ok || s.Space == nil || *s.Space != space {
		t.Fatalf("expected screen 1 to carry space 7, got %+v", s)
	}
	if got, ok := sm.ScreenForSpace(space); !ok || got.ID != 1 {
		t.Fatalf("expected ScreenForSpace to find screen 1, got %+v ok=%v", got, ok)
	}
}

func TestWindowServerInfoManagerLayerZero(t *testing.T) {
	wsm := NewWindowServerInfoManager()
	wsm.Set(1, WindowServerInfo{Layer: 0, OnScreen: true})
	wsm.Set(2, WindowServerInfo{Layer: 1, OnScreen: true})

	if !wsm.IsLayerZero(1) {
		t.Error("expected window-server id 1 to be layer zero")
	}
	if wsm.IsLayerZero(2) {
		t.Error("expected window-server id 2 to not be layer zero")
	}
	if wsm.IsLayerZero(99) {
		t.Error("expected unknown window-server id to not be layer zero")
	}
}
