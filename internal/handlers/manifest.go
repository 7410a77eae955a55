package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/xoniq/pkg/core"
)

// ErrUnknownFormat is returned for a manifest format that is neither JSON
// nor YAML.
var ErrUnknownFormat = errors.New("unknown manifest format")

// Format is a manifest encoding.
type Format string

// Supported manifest formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ResolveFormat returns explicit if set, or the format implied by the
// extension of path.
func ResolveFormat(path, explicit string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(explicit))
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch name {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Document is the manifest written at the end of a pass.
type Document struct {
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	SQLRoot     string    `json:"sql_root" yaml:"sql_root"`
	Files       []Entry   `json:"files" yaml:"files"`
}

// Encode writes doc to w in format f.
func Encode(w io.Writer, f Format, doc Document) error {
	if doc.Files == nil {
		doc.Files = []Entry{}
	}
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Decode reads a manifest in format f.
func Decode(r io.Reader, f Format) (*Document, error) {
	var doc Document
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return &doc, nil
}

// Manifest writes every finalized pass to a file.
type Manifest struct {
	path    string
	format  Format
	sqlRoot string
	now     func() time.Time
	logger  *slog.Logger
}

// ManifestOption configures a Manifest.
type ManifestOption func(*Manifest)

// WithClock sets the clock used for the generated_at timestamp.
func WithClock(now func() time.Time) ManifestOption {
	return func(m *Manifest) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ManifestOption {
	return func(m *Manifest) { m.logger = logger }
}

// NewManifest creates a manifest handler writing to path. format may be
// empty to infer it from the extension of path.
func NewManifest(path, format, sqlRoot string, opts ...ManifestOption) (*Manifest, error) {
	if path == "" {
		return nil, errors.New("manifest path is required")
	}
	f, err := ResolveFormat(path, format)
	if err != nil {
		return nil, err
	}
	m := &Manifest{
		path:    path,
		format:  f,
		sqlRoot: sqlRoot,
		now:     time.Now,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Path returns the output file.
func (m *Manifest) Path() string { return m.path }

// Format returns the output encoding.
func (m *Manifest) Format() Format { return m.format }

// ProcessRecord implements core.Handler.
func (m *Manifest) ProcessRecord(_ context.Context, fs core.FieldSet, meta core.PathMetadata) (Entry, error) {
	return NewEntry(fs, meta), nil
}

// Finalize implements core.Handler. The file is replaced atomically.
func (m *Manifest) Finalize(_ context.Context, results []Entry) error {
	doc := Document{
		GeneratedAt: m.now().UTC(),
		SQLRoot:     m.sqlRoot,
		Files:       results,
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := Encode(tmp, m.format, doc); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	m.logger.Info("manifest written", "path", m.path, "format", string(m.format), "files_total", len(results))
	return nil
}
