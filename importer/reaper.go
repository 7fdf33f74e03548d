// importer/reaper.go
package importer

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gewnthar/meetsync/models"
)

// reapAbsent deletes every stored entity of one type in scope whose source_id
// is missing from the current snapshot. Absence implies deletion — the
// snapshot is always the full upstream set, never an increment.
//
// If the id set cannot be computed (any malformed id), the reap is skipped for
// this run and logged as a problem: "could not determine deletions" must not
// look like "nothing to delete".
func (imp *Importer) reapAbsent(root *models.RootServer, entity string, records []RawRecord,
	idKey string, deleteAbsent func(rootServerID int64, keep []int64) error) {

	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		raw, err := getKey(rec, idKey)
		if err != nil {
			imp.reapFailed(root, entity, err)
			return
		}
		id, convErr := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if convErr != nil {
			imp.reapFailed(root, entity, convErr)
			return
		}
		ids = append(ids, id)
	}

	if err := deleteAbsent(root.ID, ids); err != nil {
		imp.reapFailed(root, entity, err)
	}
}

func (imp *Importer) reapFailed(root *models.RootServer, entity string, err error) {
	message := fmt.Sprintf("Error deleting old %s: %v", entity, err)
	log.Printf("ERROR Importer: %s\n", message)
	imp.logProblem(root, message, nil)
}
