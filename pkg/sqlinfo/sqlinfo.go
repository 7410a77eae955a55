// Package sqlinfo ties the field extractor and the path resolver to a single
// SQL source file.
//
// A Record is the unit handed to the core: a path relative to the project and
// the file content, if it could be read. The two operations ParseFieldSet and
// ParsePathMetadata are pure; the only state is the per-record path metadata
// memo, which is never shared between records.
package sqlinfo

import (
	"slices"
	"sync"

	"github.com/leapstack-labs/xoniq/pkg/core"
	"github.com/leapstack-labs/xoniq/pkg/fields"
	"github.com/leapstack-labs/xoniq/pkg/pathmeta"
)

// FieldConfig configures field extraction.
type FieldConfig struct {
	InputMarker string
}

// PathConfig configures path metadata resolution.
type PathConfig struct {
	SQLRoot string
}

// Record is one SQL source file. Path and Content never change after
// construction.
type Record struct {
	Path    string
	Content *string

	mu       sync.Mutex
	meta     *core.PathMetadata
	metaRoot string
}

// NewRecord creates a record with content present.
func NewRecord(path, content string) *Record {
	return &Record{Path: path, Content: &content}
}

// NewEmptyRecord creates a record whose content is absent, for example
// because the file could not be read.
func NewEmptyRecord(path string) *Record {
	return &Record{Path: path}
}

// HasContent reports whether content is present.
func (r *Record) HasContent() bool { return r.Content != nil }

// PathMetadata returns the record's path metadata relative to sqlRoot,
// computing it on first use. Asking again with a different root recomputes
// and replaces the memo.
func (r *Record) PathMetadata(sqlRoot string) core.PathMetadata {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.meta == nil || r.metaRoot != sqlRoot {
		meta := pathmeta.Resolve(r.Path, sqlRoot)
		r.meta = &meta
		r.metaRoot = sqlRoot
	}
	return cloneMetadata(*r.meta)
}

// cloneMetadata copies the slices of m so callers cannot alter the memo.
func cloneMetadata(m core.PathMetadata) core.PathMetadata {
	m.PathSegments = slices.Clone(m.PathSegments)
	m.PathSegmentsDesc = slices.Clone(m.PathSegmentsDesc)
	m.FileName.DotSegments = slices.Clone(m.FileName.DotSegments)
	return m
}

// ParseFieldSet extracts the input and output fields of rec. It fails only
// when cfg.InputMarker cannot be compiled; absent content yields empty
// field lists.
func ParseFieldSet(rec *Record, cfg FieldConfig) (core.FieldSet, error) {
	p, err := fields.NewParser(cfg.InputMarker)
	if err != nil {
		return core.FieldSet{}, err
	}
	return p.FieldSet(rec.Content), nil
}

// ParsePathMetadata returns the memoized path metadata of rec.
func ParsePathMetadata(rec *Record, cfg PathConfig) core.PathMetadata {
	return rec.PathMetadata(cfg.SQLRoot)
}
