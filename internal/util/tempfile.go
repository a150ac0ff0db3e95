package util

import (
	"os"
	"sync"
)

// TempTracker records temporary files created during an operation so they can
// be released on every exit path. It is safe for concurrent use, though a
// single repair drives it from one goroutine.
type TempTracker struct {
	mu    sync.Mutex
	paths []string
}

// NewTempTracker creates an empty tracker.
func NewTempTracker() *TempTracker {
	return &TempTracker{}
}

// Create makes a closed temp file in dir with the given prefix and suffix and
// registers it for cleanup.
func (t *TempTracker) Create(dir, prefix, suffix string) (string, error) {
	f, err := os.CreateTemp(dir, prefix+"*"+suffix)
	if err != nil {
		return "", err
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	t.Track(path)
	return path, nil
}

// Track registers an existing path for cleanup.
func (t *TempTracker) Track(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paths = append(t.paths, path)
}

// Untrack removes a path from the tracker without deleting it. Used when a
// temp output has been moved into its final place.
func (t *TempTracker) Untrack(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, p := range t.paths {
		if p == path {
			t.paths = append(t.paths[:i], t.paths[i+1:]...)
			return
		}
	}
}

// Remove deletes a single tracked path now. Missing files are not an error.
func (t *TempTracker) Remove(path string) error {
	t.Untrack(path)
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Cleanup deletes every tracked path, best effort. The first error is
// returned, but cleanup continues past failures.
func (t *TempTracker) Cleanup() error {
	t.mu.Lock()
	paths := t.paths
	t.paths = nil
	t.mu.Unlock()

	var firstErr error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Tracked returns a snapshot of the currently tracked paths.
func (t *TempTracker) Tracked() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.paths))
	copy(out, t.paths)
	return out
}
