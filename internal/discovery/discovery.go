// Package discovery finds the SQL files under a project's SQL directory and
// loads them as records.
package discovery

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/leapstack-labs/xoniq/pkg/sqlinfo"
)

// Options configures a discovery pass.
type Options struct {
	ProjectRoot string   // Record paths are relative to this directory
	SQLDir      string   // Directory to walk
	Extensions  []string // Lowercase, with leading dot
	Logger      *slog.Logger
}

// File is one discovered source file.
type File struct {
	Record  *sqlinfo.Record
	AbsPath string
	Hash    string // Empty when the file could not be read
}

// Result contains the files found, sorted by record path.
type Result struct {
	Files []File

	// Errors (non-fatal)
	Errors []Error

	Duration time.Duration
}

// Error represents a non-fatal error during discovery.
type Error struct {
	Path    string
	Type    string // "walk", "read"
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Type, e.Path, e.Message)
}

// HasErrors returns true if any errors occurred.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Paths returns the record paths in discovery order.
func (r *Result) Paths() []string {
	paths := make([]string, len(r.Files))
	for i, f := range r.Files {
		paths[i] = f.Record.Path
	}
	return paths
}

// Discover walks opts.SQLDir and returns a record for every file with a
// matching extension. A file that cannot be read is still returned, with
// absent content and an entry in Errors.
func Discover(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	absRoot, err := filepath.Abs(opts.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	absDir := opts.SQLDir
	if !filepath.IsAbs(absDir) {
		absDir = filepath.Join(absRoot, absDir)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("sql directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sql directory %s is not a directory", absDir)
	}

	logger.Debug("discovering sql files", "sql_dir", absDir)

	result := &Result{}
	walkErr := filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			result.Errors = append(result.Errors, Error{Path: RelativePath(absRoot, path), Type: "walk", Message: err.Error()})
			if d != nil && d.IsDir() && path != absDir {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !HasExtension(d.Name(), opts.Extensions) {
			return nil
		}
		result.Files = append(result.Files, load(absRoot, path, result, logger))
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	slices.SortFunc(result.Files, func(a, b File) int {
		return strings.Compare(a.Record.Path, b.Record.Path)
	})
	result.Duration = time.Since(start)

	logger.Debug("discovery completed",
		"files_total", len(result.Files),
		"errors", len(result.Errors),
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

func load(absRoot, absPath string, result *Result, logger *slog.Logger) File {
	rel := RelativePath(absRoot, absPath)
	content, err := os.ReadFile(absPath) //nolint:gosec // G304: path comes from WalkDir
	if err != nil {
		logger.Debug("sql file read error", "path", rel, "error", err.Error())
		result.Errors = append(result.Errors, Error{Path: rel, Type: "read", Message: err.Error()})
		return File{Record: sqlinfo.NewEmptyRecord(rel), AbsPath: absPath}
	}
	text := string(content)
	return File{
		Record:  sqlinfo.NewRecord(rel, text),
		AbsPath: absPath,
		Hash:    ComputeHash(text),
	}
}

// RelativePath returns absPath relative to absRoot in slash form. Paths
// outside absRoot are returned in slash form unchanged.
func RelativePath(absRoot, absPath string) string {
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return filepath.ToSlash(absPath)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return filepath.ToSlash(absPath)
	}
	return rel
}

// HasExtension reports whether name ends with one of exts, ignoring case.
func HasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext != "" && slices.Contains(exts, ext)
}

// ComputeHash generates a SHA256 hash of content.
func ComputeHash(content string) string {
	h := sha256.Sum256([]byte(content))
	return hex.EncodeToString(h[:])
}
