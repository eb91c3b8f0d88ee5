package library

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound indicates an unknown sample source reference
var ErrNotFound = errors.New("sample source not found")

// Library is a directory-backed store of WAV sample sources
type Library struct {
	root   string
	logger *slog.Logger
}

// New creates a library rooted at the given directory
func New(root string, logger *slog.Logger) (*Library, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open library directory %s: %w", root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("library path %s is not a directory", root)
	}

	return &Library{
		root:   root,
		logger: logger,
	}, nil
}

// Root returns the library directory
func (l *Library) Root() string {
	return l.root
}

// List returns the sorted base names of all WAV files in the library
func (l *Library) List() ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read library directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)
	return files, nil
}

// Resolve maps a source reference to its path inside the library.
// References naming files outside the library directory resolve to
// ErrNotFound rather than escaping it.
func (l *Library) Resolve(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", ErrNotFound)
	}

	if ref != filepath.Base(ref) || strings.HasPrefix(ref, ".") {
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	}

	path := filepath.Join(l.root, ref)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	}

	return path, nil
}

// Load resolves a reference and reads its contents
func (l *Library) Load(ref string) ([]byte, error) {
	path, err := l.Resolve(ref)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample source %s: %w", ref, err)
	}

	return data, nil
}

// Count returns the number of WAV files in the library
func (l *Library) Count() int {
	files, err := l.List()
	if err != nil {
		return 0
	}
	return len(files)
}
