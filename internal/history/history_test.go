package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAccess(t *testing.T) {
	t.Parallel()

	historyFile := filepath.Join(t.TempDir(), "history.json")

	if err := RecordAccess("/projects/ship.json", "Ship", historyFile); err != nil {
		t.Fatalf("RecordAccess failed: %v", err)
	}

	h, err := Load(historyFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(h.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(h.Entries))
	}
	e := h.Entries[0]
	if e.Path != "/projects/ship.json" {
		t.Errorf("Path = %q, want %q", e.Path, "/projects/ship.json")
	}
	if e.Name != "Ship" {
		t.Errorf("Name = %q, want %q", e.Name, "Ship")
	}
	if e.AccessCount != 1 {
		t.Errorf("AccessCount = %d, want 1", e.AccessCount)
	}
	if e.LastAccess.IsZero() {
		t.Error("LastAccess should not be zero")
	}
}

func TestTouch_MovesToFront(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := &History{}
	h.Touch("/a", "A", base)
	h.Touch("/b", "B", base.Add(time.Minute))
	h.Touch("/a", "", base.Add(2*time.Minute))

	if h.MostRecent() != "/a" {
		t.Fatalf("MostRecent() = %q, want /a", h.MostRecent())
	}
	if len(h.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(h.Entries))
	}
	a := h.Entries[0]
	if a.AccessCount != 2 || a.Name != "A" || !a.LastAccess.Equal(base.Add(2*time.Minute)) {
		t.Errorf("entry = %+v, want count 2, name kept, latest time", a)
	}
}

func TestTouch_CapsEntries(t *testing.T) {
	t.Parallel()

	h := &History{}
	now := time.Now()
	for i := range MaxEntries + 5 {
		h.Touch(fmt.Sprintf("/p%d", i), "", now)
	}
	if len(h.Entries) != MaxEntries {
		t.Errorf("len(Entries) = %d, want %d", len(h.Entries), MaxEntries)
	}
	if h.MostRecent() != fmt.Sprintf("/p%d", MaxEntries+4) {
		t.Errorf("MostRecent() = %q", h.MostRecent())
	}
}

func TestLoad_MissingAndCorrupted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	h, err := Load(filepath.Join(dir, "missing.json"))
	if err != nil || len(h.Entries) != 0 {
		t.Errorf("Load(missing) = %+v, %v, want empty", h, err)
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	h, err = Load(corrupt)
	if err != nil || len(h.Entries) != 0 {
		t.Errorf("Load(corrupt) = %+v, %v, want empty", h, err)
	}
}

func TestGetMostRecent(t *testing.T) {
	t.Parallel()

	historyFile := filepath.Join(t.TempDir(), "history.json")

	got, err := GetMostRecent(historyFile)
	if err != nil || got != "" {
		t.Errorf("GetMostRecent() on empty = %q, %v", got, err)
	}

	for _, p := range []string{"/one.json", "/two.json"} {
		if err := RecordAccess(p, "", historyFile); err != nil {
			t.Fatal(err)
		}
	}
	got, err = GetMostRecent(historyFile)
	if err != nil || got != "/two.json" {
		t.Errorf("GetMostRecent() = %q, %v, want /two.json", got, err)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := &History{}
	h.Touch("/a", "A", now)
	h.Touch("/b", "B", now)

	if !h.Remove("/b") {
		t.Error("Remove(/b) = false, want true")
	}
	if h.Remove("/b") {
		t.Error("second Remove(/b) = true, want false")
	}
	if h.MostRecent() != "/a" || len(h.Entries) != 1 {
		t.Errorf("entries = %+v, want only /a", h.Entries)
	}
}
