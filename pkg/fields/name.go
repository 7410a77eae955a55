package fields

import (
	"slices"
	"strings"

	"github.com/leapstack-labs/xoniq/pkg/core"
)

// ToFieldName splits full on "_" into its detail segments. Any string is
// accepted; a name without underscores has a single segment.
func ToFieldName(full string) core.FieldName {
	asc := strings.Split(full, core.DetailSeparator)
	desc := slices.Clone(asc)
	slices.Reverse(desc)
	return core.FieldName{Full: full, DetailsAsc: asc, DetailsDesc: desc}
}

// ToFieldNames applies ToFieldName to each name, preserving order.
func ToFieldNames(names []string) []core.FieldName {
	out := make([]core.FieldName, len(names))
	for i, n := range names {
		out[i] = ToFieldName(n)
	}
	return out
}
