package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Errorf("event path = %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for event on %s", want)
	}
}

func TestWatcherReportsDebouncedEvents(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	cfg.Index.WatchDebounceMs = 10

	scanner := NewScanner(cfg)
	watcher, err := NewWatcher(cfg, scanner)
	if err != nil {
		t.Fatal(err)
	}

	// A fresh write arrives as create then write; the debouncer keeps the
	// last event per path, so accept either callback here.
	upserted := make(chan string, 8)
	removed := make(chan string, 8)
	watcher.SetCallbacks(
		func(path string) { upserted <- path },
		func(path string) { upserted <- path },
		func(path string) { removed <- path },
	)

	if err := watcher.Start(); err != nil {
		t.Fatal(err)
	}
	defer watcher.Stop()

	path := filepath.Join(root, "a.wren")
	if err := os.WriteFile(path, []byte("class A {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, upserted, path)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	waitFor(t, removed, path)
}

func TestWatcherIgnoresNonMatchingFiles(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	cfg.Index.WatchDebounceMs = 10

	scanner := NewScanner(cfg)
	watcher, err := NewWatcher(cfg, scanner)
	if err != nil {
		t.Fatal(err)
	}

	events := make(chan string, 8)
	watcher.SetCallbacks(
		func(path string) { events <- path },
		func(path string) { events <- path },
		func(path string) { events <- path },
	)

	if err := watcher.Start(); err != nil {
		t.Fatal(err)
	}
	defer watcher.Stop()

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-events:
		t.Errorf("unexpected event for %s", path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherDisabledByConfig(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	cfg.Index.WatchMode = false

	scanner := NewScanner(cfg)
	watcher, err := NewWatcher(cfg, scanner)
	if err != nil {
		t.Fatal(err)
	}
	if err := watcher.Start(); err != nil {
		t.Errorf("disabled start should be a no-op, got %v", err)
	}
	if err := watcher.Stop(); err != nil {
		t.Errorf("stop after disabled start: %v", err)
	}
}

func TestWatcherStopIsIdempotentAcrossRestart(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)

	scanner := NewScanner(cfg)
	watcher, err := NewWatcher(cfg, scanner)
	if err != nil {
		t.Fatal(err)
	}
	if err := watcher.Start(); err != nil {
		t.Fatal(err)
	}
	if err := watcher.Stop(); err != nil {
		t.Errorf("stop returned %v", err)
	}
}
