package sqlinfo

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/xoniq/pkg/fields"
	"github.com/leapstack-labs/xoniq/pkg/pathmeta"
)

func TestParseFieldSet(t *testing.T) {
	cfg := FieldConfig{InputMarker: ":"}

	tests := []struct {
		name       string
		content    string
		wantInput  []string
		wantOutput []string
	}{
		{
			name:       "alias and parameter",
			content:    "select a as b from t where id = :user_id",
			wantInput:  []string{"user_id"},
			wantOutput: []string{"b"},
		},
		{
			name:       "nested comma",
			content:    "select count(a,b) as c from t",
			wantInput:  []string{},
			wantOutput: []string{"c"},
		},
		{
			name:       "returning",
			content:    "insert into t(a) values(1) returning a,b",
			wantInput:  []string{},
			wantOutput: []string{"a", "b"},
		},
		{
			name:       "quoted alias",
			content:    `select a as "b" from t`,
			wantInput:  []string{},
			wantOutput: []string{"b"},
		},
		{
			name:       "repeated parameter",
			content:    "select x from t where a = :id or b = :other or c = :id",
			wantInput:  []string{"id", "other"},
			wantOutput: []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := ParseFieldSet(NewRecord("sqls/q.sql", tt.content), cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantInput, fs.InputNames())
			assert.Equal(t, tt.wantOutput, fs.OutputNames())
		})
	}
}

func TestParseFieldSet_AbsentContent(t *testing.T) {
	fs, err := ParseFieldSet(NewEmptyRecord("sqls/missing.sql"), FieldConfig{InputMarker: ":"})
	require.NoError(t, err)
	assert.Empty(t, fs.Input)
	assert.Empty(t, fs.Output)
}

func TestParseFieldSet_BadMarker(t *testing.T) {
	_, err := ParseFieldSet(NewRecord("q.sql", "select :a"), FieldConfig{InputMarker: "("})
	var cfgErr *fields.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestParseFieldSet_Deterministic(t *testing.T) {
	rec := NewRecord("sqls/q.sql", "select u.id, u.name as user_name from users u where u.org = :org_id")
	cfg := FieldConfig{InputMarker: ":"}

	first, err := ParseFieldSet(rec, cfg)
	require.NoError(t, err)
	second, err := ParseFieldSet(rec, cfg)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParsePathMetadata(t *testing.T) {
	rec := NewRecord("sqls/sub/my.query.sql", "select 1 from t")
	meta := ParsePathMetadata(rec, PathConfig{SQLRoot: "sqls"})

	assert.Equal(t, []string{"sub", "my.query.sql"}, meta.PathSegments)
	assert.Equal(t, "my.query.sql", meta.FileName.Full)
	assert.Equal(t, "sql", meta.Extension)
	assert.Equal(t, []string{"my", "query"}, meta.FileName.DotSegments)
}

func TestRecord_PathMetadataMemo(t *testing.T) {
	rec := NewEmptyRecord("sqls/a/b.sql")

	first := rec.PathMetadata("sqls")
	require.NotNil(t, rec.meta)
	cached := rec.meta

	second := rec.PathMetadata("sqls")
	assert.Equal(t, first, second)
	assert.Same(t, cached, rec.meta, "same root should be served from the memo")

	other := rec.PathMetadata("")
	assert.Equal(t, "sqls/a/b.sql", other.FullPath)
	assert.Equal(t, "", rec.metaRoot)
}

func TestRecord_PathMetadataIsolatedFromCaller(t *testing.T) {
	rec := NewEmptyRecord("sqls/a/my.query.sql")
	want := ParsePathMetadata(rec, PathConfig{SQLRoot: "sqls"})

	got := rec.PathMetadata("sqls")
	got.PathSegments[0] = "mutated"
	got.PathSegmentsDesc[0] = "mutated"
	got.FileName.DotSegments[0] = "mutated"

	assert.Equal(t, want, rec.PathMetadata("sqls"))
	assert.Equal(t, pathmeta.Resolve("sqls/a/my.query.sql", "sqls"), rec.PathMetadata("sqls"))
}

func TestRecord_PathMetadataConcurrent(t *testing.T) {
	rec := NewRecord("sqls/x/y.sql", "select 1 from t")
	want := rec.PathMetadata("sqls")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, rec.PathMetadata("sqls"))
		}()
	}
	wg.Wait()
}
