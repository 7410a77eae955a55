// Package fields extracts named input parameters and output fields from raw
// SQL text.
//
// The extraction is a lexical heuristic, not a SQL parser. Output fields come
// from the first RETURNING clause, or failing that the first SELECT ... FROM
// clause. Input fields are identifiers prefixed by a configurable marker
// (":" by default). CTEs, subselects used as output sources, multi-statement
// batches and dialect-specific clauses are outside what it recognizes.
//
// Every function here is pure and safe for concurrent use.
package fields
