// Package registry keeps the in-memory session state: one record per
// tracked file, mutated by detection and repair, read by presentation.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/vidmend/vidmend/internal/analyzer"
	"github.com/vidmend/vidmend/internal/errors"
	"github.com/vidmend/vidmend/internal/logging"
	"github.com/vidmend/vidmend/internal/util"
)

// Registry owns the ordered collection of VideoRecords. All access goes
// through its methods; readers receive snapshots, writers mutate under the
// lock via Update so a record's state change is fully visible before the
// next one begins.
type Registry struct {
	mu      sync.RWMutex
	records []*VideoRecord
	index   map[string]*VideoRecord
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{index: make(map[string]*VideoRecord)}
}

// Add registers a file. Adding a path that is already tracked is a no-op
// returning false. The file's size is captured at add time.
func (g *Registry) Add(path string) (VideoRecord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.index[path]; ok {
		logging.Debug("already tracked", "path", path)
		return *existing, false
	}

	size, _ := util.GetFileSize(path)
	rec := &VideoRecord{
		Path:   path,
		Size:   size,
		Status: StatusUnknown,
	}
	g.records = append(g.records, rec)
	g.index[path] = rec
	return *rec, true
}

// Get returns a snapshot of the record for path.
func (g *Registry) Get(path string) (VideoRecord, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rec, ok := g.index[path]
	if !ok {
		return VideoRecord{}, false
	}
	return *rec, true
}

// List returns snapshots of all records in insertion order.
func (g *Registry) List() []VideoRecord {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]VideoRecord, len(g.records))
	for i, rec := range g.records {
		out[i] = *rec
	}
	return out
}

// Paths returns the tracked file paths in insertion order.
func (g *Registry) Paths() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]string, len(g.records))
	for i, rec := range g.records {
		out[i] = rec.Path
	}
	return out
}

// Len returns the number of tracked records.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.records)
}

// Clear resets the whole session, dropping every record.
func (g *Registry) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.records = nil
	g.index = make(map[string]*VideoRecord)
}

// Update mutates the record for path under the lock. The mutation is
// visible to all readers once Update returns.
func (g *Registry) Update(path string, fn func(*VideoRecord)) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.index[path]
	if !ok {
		return errors.NewNotFoundError(path)
	}
	fn(rec)
	return nil
}

// Transition moves the record for path to a new status, enforcing the
// state machine.
func (g *Registry) Transition(path string, to Status) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.index[path]
	if !ok {
		return errors.NewNotFoundError(path)
	}
	if !CanTransition(rec.Status, to) {
		return errors.NewConfigError(fmt.Sprintf("illegal status transition %s -> %s for %s", rec.Status, to, rec.Path))
	}
	rec.Status = to
	return nil
}

// MarkOK resolves a processing record as compliant, clearing any stale
// error state.
func (g *Registry) MarkOK(path string, issues analyzer.IssueList) error {
	return g.Update(path, func(rec *VideoRecord) {
		rec.Status = StatusOK
		rec.Issues = issues
		rec.ErrorMessage = ""
	})
}

// MarkError resolves a processing record as flagged or failed.
func (g *Registry) MarkError(path, message string, issues analyzer.IssueList) error {
	return g.Update(path, func(rec *VideoRecord) {
		rec.Status = StatusError
		rec.ErrorMessage = message
		rec.Issues = issues
		rec.Fix = nil
	})
}

// MarkFixed resolves a repair, recording the fix attributes as a group.
func (g *Registry) MarkFixed(path, fixedPath, params string, at time.Time) error {
	return g.Update(path, func(rec *VideoRecord) {
		rec.Status = StatusFixed
		rec.ErrorMessage = ""
		rec.Fix = &FixInfo{Path: fixedPath, Time: at, Params: params}
	})
}

// CountByStatus tallies records per status.
func (g *Registry) CountByStatus() map[Status]int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	counts := make(map[Status]int)
	for _, rec := range g.records {
		counts[rec.Status]++
	}
	return counts
}
