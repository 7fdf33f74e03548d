// services/export_service.go
package services

import (
	"fmt"
	"io"
	"log"

	"github.com/jszwec/csvutil"

	"github.com/gewnthar/meetsync/database"
	"github.com/gewnthar/meetsync/models"
)

// ExportMeetingsCSV writes the NAWS-style CSV export for one root server's
// meetings to w, returning the number of rows written.
func ExportMeetingsCSV(rootServerID int64, w io.Writer) (int, error) {
	rows, err := database.ListMeetingExportRows(rootServerID)
	if err != nil {
		return 0, fmt.Errorf("failed to load meeting export rows: %w", err)
	}
	if err := WriteMeetingsCSV(w, rows); err != nil {
		return 0, err
	}
	log.Printf("Service: Exported %d meetings for root server %d\n", len(rows), rootServerID)
	return len(rows), nil
}

// WriteMeetingsCSV encodes the rows with their csv tags. Headers come from
// the MeetingExportRow tags, so the output stays in lockstep with the model.
func WriteMeetingsCSV(w io.Writer, rows []models.MeetingExportRow) error {
	// csvutil needs a non-nil slice to emit the header line for an empty
	// export.
	if rows == nil {
		rows = []models.MeetingExportRow{}
	}
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal meeting export CSV: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write meeting export CSV: %w", err)
	}
	return nil
}
