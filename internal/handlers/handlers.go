// Package handlers provides the built-in record handlers used by the CLI.
package handlers

import (
	"context"
	"sync"

	"github.com/leapstack-labs/xoniq/pkg/core"
)

// Entry is the per-file result produced by the built-in handlers.
type Entry struct {
	Path   string            `json:"path" yaml:"path"`
	Fields core.FieldSet     `json:"fields" yaml:"fields"`
	Meta   core.PathMetadata `json:"meta" yaml:"meta"`
}

// NewEntry builds the entry for one record.
func NewEntry(fs core.FieldSet, meta core.PathMetadata) Entry {
	return Entry{Path: meta.FullPath, Fields: fs, Meta: meta}
}

// Collector keeps the finalized entries of the last pass in memory.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// ProcessRecord implements core.Handler.
func (c *Collector) ProcessRecord(_ context.Context, fs core.FieldSet, meta core.PathMetadata) (Entry, error) {
	return NewEntry(fs, meta), nil
}

// Finalize implements core.Handler. It replaces the entries of any
// previous pass.
func (c *Collector) Finalize(_ context.Context, results []Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = results
	return nil
}

// Entries returns the entries of the last finalized pass.
func (c *Collector) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries
}

// tee fans one pass out to several entry handlers.
type tee []core.Handler[Entry]

// Tee returns a handler that passes every record to each of hs and
// finalizes them in order. The first handler's entry is the result.
func Tee(hs ...core.Handler[Entry]) core.Handler[Entry] {
	return tee(hs)
}

func (t tee) ProcessRecord(ctx context.Context, fs core.FieldSet, meta core.PathMetadata) (Entry, error) {
	var first Entry
	for i, h := range t {
		e, err := h.ProcessRecord(ctx, fs, meta)
		if err != nil {
			return Entry{}, err
		}
		if i == 0 {
			first = e
		}
	}
	if len(t) == 0 {
		return NewEntry(fs, meta), nil
	}
	return first, nil
}

func (t tee) Finalize(ctx context.Context, results []Entry) error {
	for _, h := range t {
		if err := h.Finalize(ctx, results); err != nil {
			return err
		}
	}
	return nil
}
