// Package core defines the shared language of xoniq.
//
// This package contains:
//   - Field entities extracted from SQL text (FieldName, FieldSet)
//   - Path entities derived from a file's location (PathMetadata, FileName)
//   - The Handler strategy consumed by the orchestration loop
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
