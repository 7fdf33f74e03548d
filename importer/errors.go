// importer/errors.go
package importer

import "fmt"

// ValidationKind classifies why a raw field failed coercion.
type ValidationKind int

const (
	// MissingField: the key is not present in the raw record at all.
	MissingField ValidationKind = iota
	// EmptyValue: the key is present but empty for a required string field.
	EmptyValue
	// MalformedField: the value does not parse as the expected type.
	MalformedField
	// InvalidChoice: the value parses but is outside the allowed set.
	InvalidChoice
	// UnresolvedReference: a required reference points at nothing in scope.
	UnresolvedReference
)

// ValidationError is the only error class the coercion helpers produce. It
// always carries the field name and the entire offending raw record so the
// problem log can reproduce the input. Any other error propagating out of the
// importer is an engine defect, not bad data.
type ValidationError struct {
	Kind   ValidationKind
	Field  string
	Record RawRecord
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("Key %s does not exist", e.Field)
	case EmptyValue:
		return fmt.Sprintf("Missing required key %s", e.Field)
	case MalformedField:
		return fmt.Sprintf("Malformed %s", e.Field)
	case InvalidChoice, UnresolvedReference:
		return fmt.Sprintf("Invalid %s", e.Field)
	}
	return fmt.Sprintf("Unknown problem with %s", e.Field)
}
