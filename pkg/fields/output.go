package fields

import (
	"regexp"
	"strings"
)

var (
	// returningPattern captures the shortest run after RETURNING that ends at
	// a WHERE or ON keyword, a statement terminator, or the end of text.
	returningPattern = regexp.MustCompile(`(?is)\bRETURNING\s+(.*?)(?:\s+(?:WHERE|ON)\b|;|$)`)

	// selectPattern captures the shortest run between SELECT and FROM.
	selectPattern = regexp.MustCompile(`(?is)\bSELECT\s+(.*?)\s+FROM\b`)

	// aliasPattern matches a trailing "AS name", optionally quoted with one
	// matching pair of ', " or `.
	aliasPattern = regexp.MustCompile("(?i)\\s+AS\\s+(?:\"(\\w+)\"|'(\\w+)'|`(\\w+)`|(\\w+))$")

	// qualifiedPattern matches a trailing "qualifier.name".
	qualifiedPattern = regexp.MustCompile(`\w+\.(\w+)$`)
)

const quoteChars = "'\"`"

// ExtractOutputFields returns the output names produced by a normalized
// statement, in clause order with duplicates retained. A RETURNING clause
// takes precedence over SELECT ... FROM. Absent text, or text with neither
// clause, yields an empty slice.
func ExtractOutputFields(normalized *string) []string {
	if normalized == nil {
		return []string{}
	}

	clause := outputClause(*normalized)
	if clause == "" {
		return []string{}
	}

	exprs := SplitFields(clause)
	names := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		names = append(names, ResolveOutputName(expr))
	}
	return names
}

// outputClause returns the trimmed field list of the output clause, or "".
func outputClause(sql string) string {
	if m := returningPattern.FindStringSubmatch(sql); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := selectPattern.FindStringSubmatch(sql); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// SplitFields splits a field list on commas that are not nested inside
// parentheses. Expressions are trimmed and empty ones dropped.
//
// Unbalanced input is handled best-effort: a closing parenthesis with no
// matching opener leaves the depth at zero instead of going negative.
func SplitFields(list string) []string {
	var (
		fields  []string
		current strings.Builder
		depth   int
	)

	flush := func() {
		if f := strings.TrimSpace(current.String()); f != "" {
			fields = append(fields, f)
		}
		current.Reset()
	}

	for _, ch := range list {
		switch ch {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				flush()
				continue
			}
		}
		current.WriteRune(ch)
	}
	flush()

	return fields
}

// ResolveOutputName reduces one field expression to the name it produces.
//
// Priority: an explicit "AS alias" wins, then the column of a qualified
// "table.column", then the expression itself with all quote characters
// removed.
func ResolveOutputName(expr string) string {
	expr = strings.TrimSpace(expr)

	if m := aliasPattern.FindStringSubmatch(expr); m != nil {
		for _, g := range m[1:] {
			if g != "" {
				return g
			}
		}
	}

	if m := qualifiedPattern.FindStringSubmatch(expr); m != nil {
		return m[1]
	}

	return stripQuotes(expr)
}

func stripQuotes(s string) string {
	if !strings.ContainsAny(s, quoteChars) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(quoteChars, r) {
			return -1
		}
		return r
	}, s)
}
