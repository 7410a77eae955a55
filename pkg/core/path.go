package core

// PathMetadata describes a SQL file's location relative to the SQL root.
type PathMetadata struct {
	// PathSegments is FullPath split on "/"; the last segment is the file name.
	PathSegments []string `json:"path_segments" yaml:"path_segments"`
	// PathSegmentsDesc is PathSegments reversed.
	PathSegmentsDesc []string `json:"path_segments_desc" yaml:"path_segments_desc"`
	FullPath         string   `json:"full_path" yaml:"full_path"`
	Extension        string   `json:"extension" yaml:"extension"`
	FileName         FileName `json:"file_name" yaml:"file_name"`
}

// FileName describes the final path segment.
type FileName struct {
	Full             string   `json:"full" yaml:"full"`
	WithoutExtension string   `json:"without_extension" yaml:"without_extension"`
	DotSegments      []string `json:"dot_segments" yaml:"dot_segments"`
}

// Dir returns the directory segments, excluding the file name.
func (m PathMetadata) Dir() []string {
	if len(m.PathSegments) == 0 {
		return nil
	}
	return m.PathSegments[:len(m.PathSegments)-1]
}
