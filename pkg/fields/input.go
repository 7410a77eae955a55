package fields

import (
	"errors"
	"regexp"
)

// DefaultMarker is the input parameter prefix used when none is configured.
const DefaultMarker = ":"

// identifierPattern is appended to the marker to form the parameter pattern.
const identifierPattern = `([A-Za-z_][A-Za-z0-9_]*)`

// CompileMarker builds the parameter pattern for marker. The marker is used
// as-is: characters with special meaning in regular expressions must be
// escaped by the caller (for example `\$` or `@`).
func CompileMarker(marker string) (*regexp.Regexp, error) {
	if marker == "" {
		return nil, &ConfigurationError{Marker: marker, Cause: errors.New("marker must not be empty")}
	}
	re, err := regexp.Compile(marker + identifierPattern)
	if err != nil {
		return nil, &ConfigurationError{Marker: marker, Cause: err}
	}
	return re, nil
}

// ExtractInputFields returns the parameter names referenced in normalized
// text, unique and in order of first occurrence. It fails only when marker
// is not a usable pattern prefix.
func ExtractInputFields(normalized *string, marker string) ([]string, error) {
	re, err := CompileMarker(marker)
	if err != nil {
		return nil, err
	}
	return scanInputs(re, normalized), nil
}

func scanInputs(re *regexp.Regexp, normalized *string) []string {
	if normalized == nil {
		return []string{}
	}

	matches := re.FindAllStringSubmatch(*normalized, -1)
	seen := make(map[string]bool, len(matches))
	params := make([]string, 0, len(matches))
	for _, m := range matches {
		// The identifier is always the last group, even if the marker
		// carries groups of its own.
		name := m[len(m)-1]
		if seen[name] {
			continue
		}
		seen[name] = true
		params = append(params, name)
	}
	return params
}
