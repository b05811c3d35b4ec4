package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsPythonChanges(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 1)
	w, err := NewWatcher(100*time.Millisecond, []string{"exclude_dir"}, []string{"conftest.py"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	testFile := filepath.Join(tmpDir, "ci.py")
	os.WriteFile(testFile, []byte("x = 1\n"), 0644)

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for file change event")
	}

	// Non-python files never trigger.
	os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("irrelevant"), 0644)
	// Excluded names never trigger.
	os.WriteFile(filepath.Join(tmpDir, "conftest.py"), []byte("x = 1\n"), 0644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			base := filepath.Base(p)
			if base == "notes.txt" || base == "conftest.py" {
				t.Errorf("Ignored file triggered event: %s", p)
			}
		}
	case <-time.After(500 * time.Millisecond):
		// no event is the expected outcome
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	tmpDir := t.TempDir()

	batches := make(chan []string, 4)
	w, err := NewWatcher(150*time.Millisecond, nil, nil, func(paths []string) {
		batches <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		os.WriteFile(filepath.Join(tmpDir, "a.py"), []byte{byte('0' + i)}, 0644)
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case paths := <-batches:
		if len(paths) != 1 {
			t.Errorf("Expected one coalesced path, got %v", paths)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for debounced batch")
	}

	select {
	case paths := <-batches:
		t.Errorf("Burst produced a second batch: %v", paths)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRescanLimiter(t *testing.T) {
	l := NewRescanLimiter(1, 2)

	if !l.Allow() || !l.Allow() {
		t.Fatal("burst capacity should allow two immediate rescans")
	}
	if l.Allow() {
		t.Error("third immediate rescan should be rejected")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait should succeed once a token refills: %v", err)
	}
}
