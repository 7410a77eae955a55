package core

import "strings"

// DetailSeparator splits a field name into its detail segments.
const DetailSeparator = "_"

// FieldName is a resolved input or output name together with its
// underscore-delimited details, exposed in both directions so consumers can
// match on naming conventions such as a "hashed_" prefix or an "_id" suffix.
type FieldName struct {
	Full        string   `json:"full" yaml:"full"`
	DetailsAsc  []string `json:"details_asc" yaml:"details_asc"`
	DetailsDesc []string `json:"details_desc" yaml:"details_desc"`
}

// HasPrefix reports whether the first detail segment equals segment.
func (f FieldName) HasPrefix(segment string) bool {
	return len(f.DetailsAsc) > 0 && f.DetailsAsc[0] == segment
}

// HasSuffix reports whether the last detail segment equals segment.
func (f FieldName) HasSuffix(segment string) bool {
	return len(f.DetailsDesc) > 0 && f.DetailsDesc[0] == segment
}

// String returns the full name.
func (f FieldName) String() string { return f.Full }

// FieldSet holds the input parameters a statement consumes and the output
// fields it produces.
//
// Input is unique by Full and ordered by first occurrence. Output keeps clause
// order and is never deduplicated.
type FieldSet struct {
	Input  []FieldName `json:"input" yaml:"input"`
	Output []FieldName `json:"output" yaml:"output"`
}

// InputNames returns the full names of the input fields.
func (s FieldSet) InputNames() []string {
	return fullNames(s.Input)
}

// OutputNames returns the full names of the output fields.
func (s FieldSet) OutputNames() []string {
	return fullNames(s.Output)
}

// IsEmpty reports whether no fields were extracted.
func (s FieldSet) IsEmpty() bool {
	return len(s.Input) == 0 && len(s.Output) == 0
}

func fullNames(names []FieldName) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n.Full
	}
	return out
}

// JoinDetails rebuilds a full name from detail segments.
func JoinDetails(details []string) string {
	return strings.Join(details, DetailSeparator)
}
