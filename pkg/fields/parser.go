package fields

import (
	"regexp"

	"github.com/leapstack-labs/xoniq/pkg/core"
)

// Parser extracts field sets with a marker pattern compiled once, so that a
// bad marker surfaces at configuration time rather than per file.
type Parser struct {
	marker string
	inputs *regexp.Regexp
}

// NewParser compiles marker into a Parser. An empty or malformed marker
// returns a *ConfigurationError.
func NewParser(marker string) (*Parser, error) {
	re, err := CompileMarker(marker)
	if err != nil {
		return nil, err
	}
	return &Parser{marker: marker, inputs: re}, nil
}

// MustNewParser is like NewParser but panics on error.
func MustNewParser(marker string) *Parser {
	p, err := NewParser(marker)
	if err != nil {
		panic(err)
	}
	return p
}

// Marker returns the configured input marker.
func (p *Parser) Marker() string { return p.marker }

// InputFields returns the unique parameter names in raw content.
func (p *Parser) InputFields(content *string) []string {
	return scanInputs(p.inputs, Normalize(content))
}

// OutputFields returns the output names produced by raw content.
func (p *Parser) OutputFields(content *string) []string {
	return ExtractOutputFields(Normalize(content))
}

// FieldSet normalizes content once and extracts both field lists.
// Absent content yields empty lists.
func (p *Parser) FieldSet(content *string) core.FieldSet {
	normalized := Normalize(content)
	return core.FieldSet{
		Input:  ToFieldNames(scanInputs(p.inputs, normalized)),
		Output: ToFieldNames(ExtractOutputFields(normalized)),
	}
}
