package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherCreation(t *testing.T) {
	tmpDir := t.TempDir()

	watcher, err := NewWatcher(tmpDir, "txt")
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	if watcher.watcher == nil {
		t.Error("expected non-nil fsnotify watcher")
	}
	if watcher.ext != ".txt" {
		t.Errorf("expected normalized ext .txt, got %s", watcher.ext)
	}

	watcher.watcher.Close()
}

func TestWatcherMatches(t *testing.T) {
	tmpDir := t.TempDir()
	watcher, err := NewWatcher(tmpDir, "txt")
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.watcher.Close()

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(tmpDir, "doc.txt"), true},
		{filepath.Join(tmpDir, "doc.md"), false},
		{filepath.Join(tmpDir, "sub", "doc.txt"), false},
		{filepath.Join(os.TempDir(), "elsewhere.txt"), false},
	}

	for _, tt := range tests {
		if got := watcher.matches(tt.path); got != tt.want {
			t.Errorf("matches(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcherEmitsChangeEvents(t *testing.T) {
	tmpDir := t.TempDir()

	watcher, err := NewWatcher(tmpDir, "txt")
	if err != nil {
		t.Fatal(err)
	}
	watcher.debounceTime = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- watcher.Start(ctx)
	}()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(tmpDir, "doc.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-watcher.Events():
		if ev.ID != "doc" {
			t.Errorf("expected ID 'doc', got %q", ev.ID)
		}
		if ev.Op != OpChanged {
			t.Errorf("expected OpChanged, got %v", ev.Op)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Start() returned error: %v", err)
	}
}

func TestWatcherIgnoresOtherExtensions(t *testing.T) {
	tmpDir := t.TempDir()

	watcher, err := NewWatcher(tmpDir, "txt")
	if err != nil {
		t.Fatal(err)
	}
	watcher.debounceTime = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- watcher.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(tmpDir, "other.md"), []byte("nope"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev, ok := <-watcher.Events():
		if ok {
			t.Errorf("unexpected event for non-matching file: %+v", ev)
		}
	case <-time.After(300 * time.Millisecond):
		// No event is the expected outcome.
	}

	cancel()
	<-done
}
