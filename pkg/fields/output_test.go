package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractOutputFields(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "alias",
			sql:  "select a as b from t where id = :user_id",
			want: []string{"b"},
		},
		{
			name: "nested comma stays in one field",
			sql:  "select count(a,b) as c from t",
			want: []string{"c"},
		},
		{
			name: "returning clause",
			sql:  "insert into t(a) values(1) returning a,b",
			want: []string{"a", "b"},
		},
		{
			name: "double quoted alias",
			sql:  `select a as "b" from t`,
			want: []string{"b"},
		},
		{
			name: "single and backtick quoted aliases",
			sql:  "select a as 'b', c as `d` from t",
			want: []string{"b", "d"},
		},
		{
			name: "qualified columns",
			sql:  "select u.name, o.total from users u join orders o on o.user_id = u.id",
			want: []string{"name", "total"},
		},
		{
			name: "schema qualified column",
			sql:  "select public.users.email from public.users",
			want: []string{"email"},
		},
		{
			name: "duplicates retained",
			sql:  "select id, id from t",
			want: []string{"id", "id"},
		},
		{
			name: "case insensitive keywords",
			sql:  "SeLeCt a As B FrOm t",
			want: []string{"B"},
		},
		{
			name: "returning preferred over select",
			sql:  "insert into t(a) select x from s returning id",
			want: []string{"id"},
		},
		{
			name: "returning stops at where",
			sql:  "update t set a = :a returning id, updated_at where true",
			want: []string{"id", "updated_at"},
		},
		{
			name: "returning stops at terminator",
			sql:  "delete from t where id = :id returning id; select x from y",
			want: []string{"id"},
		},
		{
			name: "on keyword needs a word boundary",
			sql:  "update stock set qty = 0 returning sku, on_hand",
			want: []string{"sku", "on_hand"},
		},
		{
			name: "function without alias is kept verbatim",
			sql:  "select count(*) from t",
			want: []string{"count(*)"},
		},
		{
			name: "quoted bare column is unquoted",
			sql:  "select `order`, \"user\" from t",
			want: []string{"order", "user"},
		},
		{
			name: "nested function calls",
			sql:  "select coalesce(max(a), min(b, c)) as m, d from t",
			want: []string{"m", "d"},
		},
		{
			name: "no output clause",
			sql:  "create table t (a int, b int)",
			want: []string{},
		},
		{
			name: "empty select list",
			sql:  "select from t",
			want: []string{},
		},
		{
			name: "empty",
			sql:  "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractOutputFields(ptr(tt.sql))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractOutputFields_Nil(t *testing.T) {
	got := ExtractOutputFields(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name string
		list string
		want []string
	}{
		{"single", "a", []string{"a"}},
		{"trims", " a ,  b ", []string{"a", "b"}},
		{"function args", "a, count(a, b), c", []string{"a", "count(a, b)", "c"}},
		{"deep nesting", "f(g(a,b),c), d", []string{"f(g(a,b),c)", "d"}},
		{"empty expressions dropped", "a,,b,", []string{"a", "b"}},
		{"unmatched close clamps depth", "a), b", []string{"a)", "b"}},
		{"unclosed open keeps remainder", "f(a, b", []string{"f(a, b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitFields(tt.list))
		})
	}

	assert.Empty(t, SplitFields(""))
}

func TestResolveOutputName(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"a AS b", "b"},
		{"a as b", "b"},
		{`a AS "b"`, "b"},
		{"a AS 'b'", "b"},
		{"a AS `b`", "b"},
		{"u.name AS user_name", "user_name"},
		{"u.name", "name"},
		{"db.schema.col", "col"},
		{"name", "name"},
		{"'literal'", "literal"},
		{"count(*)", "count(*)"},
		{"a + b", "a + b"},
		{"  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveOutputName(tt.expr))
		})
	}
}
