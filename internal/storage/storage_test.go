package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestFileStorageMissingSlot(t *testing.T) {
	s := NewFileStorageFs(afero.NewMemMapFs(), "/data")

	data, found, err := s.Get("watchlist")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if found || data != nil {
		t.Errorf("expected missing slot, got found=%v data=%q", found, data)
	}
}

func TestFileStorageSetOverwrites(t *testing.T) {
	memFs := afero.NewMemMapFs()
	s := NewFileStorageFs(memFs, "/data")

	if err := s.Set("watchlist", []byte(`[1]`)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := s.Set("watchlist", []byte(`[1,2]`)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	data, found, err := s.Get("watchlist")
	if err != nil || !found {
		t.Fatalf("Get returned found=%v err=%v", found, err)
	}
	if string(data) != `[1,2]` {
		t.Errorf("expected overwritten value, got %q", data)
	}

	if exists, _ := afero.Exists(memFs, "/data/watchlist.json.tmp"); exists {
		t.Error("expected temp file to be renamed away")
	}
}

func TestFileStorageReadOnlyFails(t *testing.T) {
	s := NewFileStorageFs(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/data")

	if err := s.Set("watchlist", []byte(`[]`)); err == nil {
		t.Error("expected Set on read-only filesystem to fail")
	}
}

func TestFileStorageOnDiskWithLock(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s, err := NewFileStorage(dir)
	if err != nil {
		t.Fatalf("NewFileStorage returned error: %v", err)
	}
	defer s.Close()

	if err := s.Set("watchlist", []byte(`[]`)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "watchlist.json"))
	if err != nil {
		t.Fatalf("expected slot file on disk: %v", err)
	}
	if string(raw) != `[]` {
		t.Errorf("unexpected file contents %q", raw)
	}
}

func TestSQLiteStorageRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "moviedb.db")
	s, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStorage returned error: %v", err)
	}

	if _, found, err := s.Get("watchlist"); err != nil || found {
		t.Fatalf("expected empty slot, got found=%v err=%v", found, err)
	}

	if err := s.Set("watchlist", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := s.Set("watchlist", []byte(`[{"id":2}]`)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	// Reopen to verify persistence
	s, err = NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer s.Close()

	data, found, err := s.Get("watchlist")
	if err != nil || !found {
		t.Fatalf("Get returned found=%v err=%v", found, err)
	}
	if string(data) != `[{"id":2}]` {
		t.Errorf("expected last written value, got %q", data)
	}
}

func TestSQLiteStorageClosed(t *testing.T) {
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "moviedb.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage returned error: %v", err)
	}
	s.Close()

	if err := s.Set("watchlist", []byte(`[]`)); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir)
	if err != nil {
		t.Fatalf("NewFileStorage returned error: %v", err)
	}
	defer s.Close()

	changes := make(chan []byte, 4)
	w, err := NewWatcher(s, "watchlist", 20*time.Millisecond, func(data []byte) {
		changes <- data
	}, nil)
	if err != nil {
		t.Fatalf("NewWatcher returned error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer w.Stop()

	// Unrelated files are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte(`x`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("watchlist", []byte(`[{"id":5}]`)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	select {
	case data := <-changes:
		if string(data) != `[{"id":5}]` {
			t.Errorf("unexpected change payload %q", data)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not report the change")
	}
}
