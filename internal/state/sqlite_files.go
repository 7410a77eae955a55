package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// GetFile retrieves the cached state of a file. It returns nil and no error
// when the file has no entry.
func (s *SQLiteStore) GetFile(ctx context.Context, path string) (*FileState, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	f := &FileState{Path: path}
	var inputs, outputs, parsedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT content_hash, input_marker, input_fields, output_fields, parsed_at
		 FROM files WHERE path = ?`, path,
	).Scan(&f.ContentHash, &f.InputMarker, &inputs, &outputs, &parsedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", path, err)
	}

	if err := json.Unmarshal([]byte(inputs), &f.InputFields); err != nil {
		return nil, fmt.Errorf("invalid input fields for %s: %w", path, err)
	}
	if err := json.Unmarshal([]byte(outputs), &f.OutputFields); err != nil {
		return nil, fmt.Errorf("invalid output fields for %s: %w", path, err)
	}
	if f.ParsedAt, err = parseTime(parsedAt); err != nil {
		return nil, err
	}
	return f, nil
}

// SaveFile inserts or replaces the cached state of a file. A zero ParsedAt
// is set to the current time.
func (s *SQLiteStore) SaveFile(ctx context.Context, f *FileState) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if f.ParsedAt.IsZero() {
		f.ParsedAt = time.Now().UTC()
	}

	inputs, err := marshalNames(f.InputFields)
	if err != nil {
		return err
	}
	outputs, err := marshalNames(f.OutputFields)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO files (path, content_hash, input_marker, input_fields, output_fields, parsed_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   content_hash = excluded.content_hash,
		   input_marker = excluded.input_marker,
		   input_fields = excluded.input_fields,
		   output_fields = excluded.output_fields,
		   parsed_at = excluded.parsed_at`,
		f.Path, f.ContentHash, f.InputMarker, inputs, outputs, formatTime(f.ParsedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save file %s: %w", f.Path, err)
	}
	return nil
}

// DeleteFile removes the cached state of a file.
func (s *SQLiteStore) DeleteFile(ctx context.Context, path string) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}
	return nil
}

// ListFiles returns the paths of all cached files, sorted.
func (s *SQLiteStore) ListFiles(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, `SELECT path FROM files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan file path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func marshalNames(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	b, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("failed to encode field names: %w", err)
	}
	return string(b), nil
}
