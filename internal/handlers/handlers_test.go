package handlers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/xoniq/internal/testutil"
	"github.com/leapstack-labs/xoniq/pkg/core"
	"github.com/leapstack-labs/xoniq/pkg/fields"
	"github.com/leapstack-labs/xoniq/pkg/pathmeta"
)

func sampleEntries(t *testing.T) []Entry {
	t.Helper()
	p := fields.MustNewParser(":")
	sql := "select id, name as user_name from users where id = :user_id"
	return []Entry{
		NewEntry(p.FieldSet(&sql), pathmeta.Resolve("sqls/users/get.by.id.sql", "sqls")),
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		path     string
		explicit string
		want     Format
		wantErr  bool
	}{
		{path: "out/manifest.json", want: FormatJSON},
		{path: "out/manifest.YAML", want: FormatYAML},
		{path: "out/manifest.yml", want: FormatYAML},
		{path: "out/manifest.txt", explicit: "json", want: FormatJSON},
		{path: "out/manifest.json", explicit: "yaml", want: FormatYAML},
		{path: "out/manifest.txt", wantErr: true},
		{path: "out/manifest", explicit: "toml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+tt.explicit, func(t *testing.T) {
			got, err := ResolveFormat(tt.path, tt.explicit)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	doc := Document{
		GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		SQLRoot:     "sqls",
		Files:       sampleEntries(t),
	}

	for _, f := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, f, doc))

			got, err := Decode(&buf, f)
			require.NoError(t, err)
			assert.True(t, doc.GeneratedAt.Equal(got.GeneratedAt))
			assert.Equal(t, doc.SQLRoot, got.SQLRoot)
			assert.Equal(t, doc.Files, got.Files)
		})
	}
}

func TestEncode_JSONShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, Document{SQLRoot: "sqls", Files: sampleEntries(t)}))

	out := buf.String()
	assert.Contains(t, out, `"path": "users/get.by.id.sql"`)
	assert.Contains(t, out, `"details_desc": [`)
	assert.Contains(t, out, `"dot_segments": [`)
	assert.Contains(t, out, `"path_segments_desc": [`)

	buf.Reset()
	require.NoError(t, Encode(&buf, FormatJSON, Document{}))
	assert.Contains(t, buf.String(), `"files": []`)
}

func TestEncode_UnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, Format("xml"), Document{})
	require.ErrorIs(t, err, ErrUnknownFormat)
	_, err = Decode(&bytes.Buffer{}, Format("xml"))
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestManifest(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "gen", "manifest.yaml")
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	m, err := NewManifest(path, "", "sqls",
		WithClock(func() time.Time { return fixed }),
		WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, m.Format())
	assert.Equal(t, path, m.Path())

	entries := sampleEntries(t)
	e, err := m.ProcessRecord(ctx, entries[0].Fields, entries[0].Meta)
	require.NoError(t, err)
	assert.Equal(t, entries[0], e)

	require.NoError(t, m.Finalize(ctx, []Entry{e}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	doc, err := Decode(f, FormatYAML)
	require.NoError(t, err)
	assert.True(t, fixed.Equal(doc.GeneratedAt))
	assert.Equal(t, "sqls", doc.SQLRoot)
	require.Len(t, doc.Files, 1)
	assert.Equal(t, "users/get.by.id.sql", doc.Files[0].Path)
	assert.Equal(t, []string{"user_id"}, doc.Files[0].Fields.InputNames())

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".manifest-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestNewManifest_Errors(t *testing.T) {
	_, err := NewManifest("", "", "sqls")
	require.Error(t, err)

	_, err = NewManifest("out.txt", "", "sqls")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestCollector(t *testing.T) {
	ctx := context.Background()
	c := NewCollector()
	assert.Empty(t, c.Entries())

	entries := sampleEntries(t)
	e, err := c.ProcessRecord(ctx, entries[0].Fields, entries[0].Meta)
	require.NoError(t, err)
	require.NoError(t, c.Finalize(ctx, []Entry{e}))
	assert.Equal(t, entries, c.Entries())

	require.NoError(t, c.Finalize(ctx, nil))
	assert.Empty(t, c.Entries(), "a new pass replaces previous entries")
}

func TestTee(t *testing.T) {
	ctx := context.Background()
	a, b := NewCollector(), NewCollector()
	h := Tee(a, b)

	entries := sampleEntries(t)
	e, err := h.ProcessRecord(ctx, entries[0].Fields, entries[0].Meta)
	require.NoError(t, err)
	require.NoError(t, h.Finalize(ctx, []Entry{e}))

	assert.Equal(t, entries, a.Entries())
	assert.Equal(t, entries, b.Entries())
}

func TestTee_Errors(t *testing.T) {
	ctx := context.Background()
	failing := core.HandlerFuncs[Entry]{
		Process: func(context.Context, core.FieldSet, core.PathMetadata) (Entry, error) {
			return Entry{}, errors.New("process failed")
		},
		Final: func(context.Context, []Entry) error { return errors.New("finalize failed") },
	}
	c := NewCollector()
	h := Tee(c, failing)

	_, err := h.ProcessRecord(ctx, core.FieldSet{}, core.PathMetadata{})
	require.EqualError(t, err, "process failed")
	require.EqualError(t, h.Finalize(ctx, nil), "finalize failed")

	e, err := Tee().ProcessRecord(ctx, core.FieldSet{}, core.PathMetadata{FullPath: "x.sql"})
	require.NoError(t, err)
	assert.Equal(t, "x.sql", e.Path)
}
