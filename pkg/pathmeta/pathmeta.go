// Package pathmeta derives structured metadata from a SQL file's path.
package pathmeta

import (
	"path"
	"slices"
	"strings"

	"github.com/leapstack-labs/xoniq/pkg/core"
)

// Resolve describes relativePath as seen from sqlRoot.
//
// Both separators are accepted. A leading "<sqlRoot>/" is removed once, the
// remainder is split into segments, and the final segment is split on dots.
// A file name without a dot is reported with the whole name as its
// extension and no dot segments.
func Resolve(relativePath, sqlRoot string) core.PathMetadata {
	full := StripRoot(toSlash(relativePath), sqlRoot)

	segments := strings.Split(full, "/")
	desc := slices.Clone(segments)
	slices.Reverse(desc)

	name := segments[len(segments)-1]
	dots := strings.Split(name, ".")
	ext := dots[len(dots)-1]

	return core.PathMetadata{
		PathSegments:     segments,
		PathSegmentsDesc: desc,
		FullPath:         full,
		Extension:        ext,
		FileName: core.FileName{
			Full:             name,
			WithoutExtension: strings.TrimSuffix(name, "."+ext),
			DotSegments:      dots[:len(dots)-1],
		},
	}
}

// StripRoot removes one leading "<sqlRoot>/" from a slash-separated path.
// An empty or "." root leaves the path unchanged.
func StripRoot(p, sqlRoot string) string {
	root := toSlash(sqlRoot)
	if root == "" {
		return p
	}
	root = path.Clean(root)
	if root == "." {
		return p
	}
	root = strings.TrimPrefix(root, "./")
	p = strings.TrimPrefix(p, "./")
	return strings.TrimPrefix(p, root+"/")
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
