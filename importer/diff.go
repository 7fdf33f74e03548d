// importer/diff.go
package importer

import "github.com/shopspring/decimal"

// Diff-and-upsert core: a field is written only when the candidate value
// differs from the stored one, and the caller persists the entity if and only
// if at least one field changed. A snapshot re-synced unchanged must produce
// zero writes.

// setIfChanged assigns value to *field when it differs, reporting whether a
// change was made. Equality is value equality.
func setIfChanged[T comparable](field *T, value T) bool {
	if *field == value {
		return false
	}
	*field = value
	return true
}

// setIfChangedPtr is the nullable variant: nil and a concrete value are
// distinct states, and two concrete values compare by what they point at, not
// by pointer identity.
func setIfChangedPtr[T comparable](field **T, value *T) bool {
	if *field == nil && value == nil {
		return false
	}
	if *field != nil && value != nil && **field == *value {
		return false
	}
	*field = value
	return true
}

// setIfChangedDecimal compares decimals by numeric value; DECIMAL(15,12)
// round-trips can differ in internal exponent without differing in value.
func setIfChangedDecimal(field *decimal.Decimal, value decimal.Decimal) bool {
	if field.Equal(value) {
		return false
	}
	*field = value
	return true
}
