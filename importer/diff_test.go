// importer/diff_test.go
package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSetIfChanged(t *testing.T) {
	name := "Old Name"
	assert.False(t, setIfChanged(&name, "Old Name"))
	assert.Equal(t, "Old Name", name)

	assert.True(t, setIfChanged(&name, "New Name"))
	assert.Equal(t, "New Name", name)

	count := 3
	assert.True(t, setIfChanged(&count, 4))
	assert.Equal(t, 4, count)
}

func TestSetIfChangedPtr(t *testing.T) {
	var field *string

	// nil -> nil is not a change.
	assert.False(t, setIfChangedPtr(&field, nil))
	assert.Nil(t, field)

	// nil -> value is.
	v := "hello"
	assert.True(t, setIfChangedPtr(&field, &v))
	assert.Equal(t, "hello", *field)

	// Equal values behind distinct pointers are not a change.
	same := "hello"
	assert.False(t, setIfChangedPtr(&field, &same))

	other := "goodbye"
	assert.True(t, setIfChangedPtr(&field, &other))
	assert.Equal(t, "goodbye", *field)

	// value -> nil is a change back to absent.
	assert.True(t, setIfChangedPtr(&field, nil))
	assert.Nil(t, field)
}

func TestSetIfChangedDecimal(t *testing.T) {
	field := decimal.RequireFromString("40.750000000000")

	// Same numeric value, different representation: no change.
	assert.False(t, setIfChangedDecimal(&field, decimal.RequireFromString("40.75")))

	assert.True(t, setIfChangedDecimal(&field, decimal.RequireFromString("40.751")))
	assert.True(t, field.Equal(decimal.RequireFromString("40.751")))
}
