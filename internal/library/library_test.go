package library

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func createTestLibrary(t *testing.T, files ...string) *Library {
	t.Helper()

	dir := t.TempDir()
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("data"), 0644); err != nil {
			t.Fatalf("Failed to create test file %s: %v", name, err)
		}
	}

	lib, err := New(dir, testLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return lib
}

func TestNewMissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing"), testLogger()); err == nil {
		t.Error("Expected error for missing directory, got nil")
	}
}

func TestListSortedWAVOnly(t *testing.T) {
	lib := createTestLibrary(t, "zebra.wav", "alpha.wav", "notes.txt", "upper.WAV")

	files, err := lib.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	expected := []string{"alpha.wav", "upper.WAV", "zebra.wav"}
	if len(files) != len(expected) {
		t.Fatalf("Expected %d files, got %d: %v", len(expected), len(files), files)
	}
	for i := range expected {
		if files[i] != expected[i] {
			t.Errorf("File %d: expected %s, got %s", i, expected[i], files[i])
		}
	}
}

func TestResolve(t *testing.T) {
	lib := createTestLibrary(t, "tone.wav")

	path, err := lib.Resolve("tone.wav")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if filepath.Base(path) != "tone.wav" {
		t.Errorf("Expected path ending in tone.wav, got %s", path)
	}
}

func TestResolveNotFound(t *testing.T) {
	lib := createTestLibrary(t, "tone.wav")

	tests := []string{
		"missing.wav",
		"",
		"../tone.wav",
		"sub/tone.wav",
		".hidden.wav",
	}

	for _, ref := range tests {
		if _, err := lib.Resolve(ref); !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve(%q): expected ErrNotFound, got %v", ref, err)
		}
	}
}

func TestLoad(t *testing.T) {
	lib := createTestLibrary(t, "tone.wav")

	data, err := lib.Load("tone.wav")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(data) != "data" {
		t.Errorf("Expected file contents 'data', got %q", string(data))
	}

	if _, err := lib.Load("missing.wav"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing file, got %v", err)
	}
}

func TestCount(t *testing.T) {
	lib := createTestLibrary(t, "a.wav", "b.wav", "skip.txt")

	if got := lib.Count(); got != 2 {
		t.Errorf("Expected count 2, got %d", got)
	}
}

func TestWatchDetectsNewFile(t *testing.T) {
	lib := createTestLibrary(t)

	changed := make(chan struct{}, 8)
	w, err := lib.Watch(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(lib.Root(), "new.wav"), []byte("data"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Error("Expected change notification for new WAV file")
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	lib := createTestLibrary(t)

	changed := make(chan struct{}, 8)
	w, err := lib.Watch(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(lib.Root(), "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	select {
	case <-changed:
		t.Error("Did not expect change notification for non-WAV file")
	case <-time.After(200 * time.Millisecond):
	}
}
