package fields

import "fmt"

// ConfigurationError reports an input marker that cannot be used to build
// the parameter pattern. It is raised when a Parser is constructed, never
// while scanning text.
type ConfigurationError struct {
	Marker string
	Cause  error
}

func (e *ConfigurationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("invalid input marker %q", e.Marker)
	}
	return fmt.Sprintf("invalid input marker %q: %v", e.Marker, e.Cause)
}

func (e *ConfigurationError) Unwrap() error { return e.Cause }
