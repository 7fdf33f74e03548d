// importer/servicebody_sync_test.go
package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gewnthar/meetsync/models"
)

func bodyRecord(id, parentID, name string) RawRecord {
	return RawRecord{
		"id":        id,
		"parent_id": parentID,
		"name":      name,
		"type":      models.ServiceBodyArea,
	}
}

func TestImportServiceBodiesForwardParentReference(t *testing.T) {
	imp, store := newTestImporter()
	root := testRoot()

	// The child appears before its parent; pass 2 must still link it.
	records := []RawRecord{
		bodyRecord("20", "10", "Downtown Area"),
		bodyRecord("10", "0", "Mountain Region"),
	}
	require.NoError(t, imp.importServiceBodies(root, records))
	assert.Empty(t, store.problems)

	child, err := imp.ServiceBodies.GetBySourceID(root.ID, 20)
	require.NoError(t, err)
	require.NotNil(t, child)
	parent, err := imp.ServiceBodies.GetBySourceID(root.ID, 10)
	require.NoError(t, err)
	require.NotNil(t, parent)

	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)
	assert.Nil(t, parent.ParentID)
}

func TestImportServiceBodiesMissingParentLogged(t *testing.T) {
	imp, store := newTestImporter()
	root := testRoot()

	records := []RawRecord{bodyRecord("20", "99", "Orphaned Area")}
	require.NoError(t, imp.importServiceBodies(root, records))

	// The body itself is saved; only the link fails.
	body, err := imp.ServiceBodies.GetBySourceID(root.ID, 20)
	require.NoError(t, err)
	require.NotNil(t, body)
	assert.Nil(t, body.ParentID)

	require.Len(t, store.problems, 1)
	assert.Equal(t, "Invalid parent_id", store.problems[0].message)
	assert.NotEmpty(t, store.problems[0].data)
}

func TestImportServiceBodiesInvalidRecordIsolated(t *testing.T) {
	imp, store := newTestImporter()
	root := testRoot()

	records := []RawRecord{
		bodyRecord("10", "0", "Mountain Region"),
		{"id": "11", "parent_id": "0"}, // no name at all
		bodyRecord("12", "0", "River Area"),
	}
	require.NoError(t, imp.importServiceBodies(root, records))

	assert.Len(t, store.bodies, 2)
	require.Len(t, store.problems, 1)
	assert.Equal(t, "Key name does not exist", store.problems[0].message)
}

func TestImportServiceBodiesReapsAbsent(t *testing.T) {
	imp, _ := newTestImporter()
	root := testRoot()

	records := []RawRecord{
		bodyRecord("1", "0", "One"),
		bodyRecord("2", "0", "Two"),
		bodyRecord("3", "0", "Three"),
	}
	require.NoError(t, imp.importServiceBodies(root, records))

	require.NoError(t, imp.importServiceBodies(root, []RawRecord{
		bodyRecord("1", "0", "One"),
		bodyRecord("3", "0", "Three"),
	}))

	gone, err := imp.ServiceBodies.GetBySourceID(root.ID, 2)
	require.NoError(t, err)
	assert.Nil(t, gone)
	kept, err := imp.ServiceBodies.GetBySourceID(root.ID, 1)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestImportServiceBodiesIdempotent(t *testing.T) {
	imp, store := newTestImporter()
	root := testRoot()

	records := []RawRecord{
		bodyRecord("10", "0", "Mountain Region"),
		bodyRecord("20", "10", "Downtown Area"),
	}
	require.NoError(t, imp.importServiceBodies(root, records))
	savesAfterFirst := store.bodySaves

	// Re-syncing the unchanged snapshot must not write anything.
	require.NoError(t, imp.importServiceBodies(root, records))
	assert.Equal(t, savesAfterFirst, store.bodySaves)
}

func TestImportServiceBodiesDiffsSingleField(t *testing.T) {
	imp, store := newTestImporter()
	root := testRoot()

	records := []RawRecord{bodyRecord("10", "0", "Mountain Region")}
	require.NoError(t, imp.importServiceBodies(root, records))
	savesAfterFirst := store.bodySaves

	records[0]["name"] = "Mountain Region NA"
	require.NoError(t, imp.importServiceBodies(root, records))
	assert.Equal(t, savesAfterFirst+1, store.bodySaves)

	body, err := imp.ServiceBodies.GetBySourceID(root.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, "Mountain Region NA", body.Name)
}

func TestImportServiceBodiesSaveFailureLogged(t *testing.T) {
	imp, store := newTestImporter()
	store.failBodySaveNamed = "Cursed Area"
	root := testRoot()

	records := []RawRecord{
		bodyRecord("10", "0", "Fine Area"),
		bodyRecord("11", "0", "Cursed Area"),
	}
	require.NoError(t, imp.importServiceBodies(root, records))

	assert.Len(t, store.bodies, 1)
	require.NotEmpty(t, store.problems)
	assert.Contains(t, store.problems[0].message, "Error saving service body")
}
