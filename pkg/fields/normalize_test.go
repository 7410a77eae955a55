package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestNormalize_Nil(t *testing.T) {
	assert.Nil(t, Normalize(nil))
}

func TestNormalizeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"no whitespace", "select", "select"},
		{"single spaces untouched", "select a from t", "select a from t"},
		{"newlines and tabs", "select a\n\tfrom t", "select a from t"},
		{"crlf", "select a\r\nfrom t", "select a from t"},
		{"leading and trailing runs collapse", "  select a  ", " select a "},
		{"vertical tab and form feed", "a\v\fb", "a b"},
		{"non-breaking space", "a\u00a0\u00a0b", "a b"},
		{"byte order mark", "\uFEFFselect 1", " select 1"},
		{"only whitespace", "\n\n\t ", " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeString(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	samples := []string{
		"",
		"select a as b\nfrom t\n\nwhere id = :user_id",
		"\t\tinsert into t(a)\r\n values (:a)\n returning  a ,\tb",
		"   ",
		"a   b",
	}

	for _, s := range samples {
		once := Normalize(ptr(s))
		require.NotNil(t, once)
		twice := Normalize(once)
		require.NotNil(t, twice)
		assert.Equal(t, *once, *twice, "normalize should be idempotent for %q", s)
	}
}
