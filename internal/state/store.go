// Package state persists parse results and run history in SQLite.
//
// The store lets a run skip files whose content has not changed since the
// last parse with the same input marker.
package state

import (
	"errors"
	"time"
)

// ErrNotOpen is returned by every operation on a store that is not open.
var ErrNotOpen = errors.New("database not opened")

// timeFormat is the on-disk form of all timestamps. It is fixed-width so
// that stored values sort chronologically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// FileState is the cached parse result of one source file.
type FileState struct {
	Path         string
	ContentHash  string
	InputMarker  string
	InputFields  []string
	OutputFields []string
	ParsedAt     time.Time
}

// Matches reports whether the cached entry is still valid for content with
// hash, parsed with marker.
func (f *FileState) Matches(hash, marker string) bool {
	return f != nil && hash != "" && f.ContentHash == hash && f.InputMarker == marker
}

// RunStatus represents the status of a run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Run is one orchestration pass over the SQL root.
type Run struct {
	ID           string
	Status       RunStatus
	StartedAt    time.Time
	CompletedAt  *time.Time
	FilesTotal   int
	FilesParsed  int
	FilesSkipped int
	FilesDeleted int
	Error        string
}
