package persist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/riftwm/riftwm/internal/model"
)

func TestStoreSaveLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.json")
	store := NewStore(path)

	sel := win(1, 0)
	snap := Snapshot{
		Timestamp: time.Unix(0, 0),
		Spaces: []SpaceSnapshot{{
			ActiveIndex: 0,
			Workspaces: []WorkspaceSnapshot{{
				Name:     "code",
				Windows:  []model.WindowID{win(1, 0), win(1, 1)},
				Selected: &sel,
			}},
		}},
	}

	if err := store.Save(snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Version != FormatVersion {
		t.Fatalf("expected version %d, got %d", FormatVersion, loaded.Version)
	}
	if len(loaded.Spaces) != 1 || loaded.Spaces[0].Workspaces[0].Name != "code" {
		t.Fatalf("unexpected loaded snapshot: %+v", loaded)
	}
	if loaded.Spaces[0].Workspaces[0].Selected == nil || *loaded.Spaces[0].Workspaces[0].Selected != sel {
		t.Fatalf("expected selected window to round-trip")
	}
}

func TestStoreLoadRejectsTamperedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.json")
	store := NewStore(path)

	if err := store.Save(Snapshot{Spaces: []SpaceSnapshot{{Workspaces: []WorkspaceSnapshot{{Name: "code"}}}}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	tampered := strings.Replace(string(data), `"code"`, `"tampered"`, 1)
	if err := os.WriteFile(path, []byte(tampered), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := store.Load(); err == nil {
		t.Fatal("expected hash mismatch error on tampered file")
	}
}
