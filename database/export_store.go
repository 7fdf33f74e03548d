// database/export_store.go
package database

import (
	"fmt"

	"github.com/gewnthar/meetsync/models"
)

// ListMeetingExportRows gathers one denormalized row per meeting for the CSV
// export: root server and service body names joined in, format key strings
// (in the meeting's language) collapsed into a comma list.
func ListMeetingExportRows(rootServerID int64) ([]models.MeetingExportRow, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	rows, err := DB.Query(`
		SELECT rs.name, m.source_id, sb.name, m.name, m.weekday,
		       TIME_FORMAT(m.start_time, '%H:%i'), TIME_FORMAT(m.duration, '%H:%i'),
		       COALESCE(m.language, ''),
		       COALESCE((
		           SELECT GROUP_CONCAT(tf.key_string ORDER BY tf.key_string SEPARATOR ',')
		           FROM meeting_formats mf
		           JOIN translated_formats tf ON tf.format_id = mf.format_id
		           WHERE mf.meeting_id = m.id AND tf.language = COALESCE(m.language, 'en')
		       ), ''),
		       COALESCE(mi.location_street, ''), COALESCE(mi.location_municipality, ''),
		       COALESCE(mi.location_province, ''), COALESCE(mi.location_postal_code_1, ''),
		       COALESCE(mi.location_nation, ''),
		       m.latitude, m.longitude, COALESCE(mi.world_id, ''),
		       m.published, m.deleted
		FROM meetings m
		JOIN root_servers rs ON rs.id = m.root_server_id
		JOIN service_bodies sb ON sb.id = m.service_body_id
		LEFT JOIN meeting_info mi ON mi.meeting_id = m.id
		WHERE m.root_server_id = ?
		ORDER BY m.source_id
	`, rootServerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query meeting export rows: %w", err)
	}
	defer rows.Close()

	var exportRows []models.MeetingExportRow
	for rows.Next() {
		var r models.MeetingExportRow
		err := rows.Scan(&r.RootServerName, &r.SourceID, &r.ServiceBody, &r.Name,
			&r.Weekday, &r.StartTime, &r.Duration, &r.Language, &r.Formats,
			&r.Street, &r.Municipality, &r.Province, &r.PostalCode, &r.Nation,
			&r.Latitude, &r.Longitude, &r.WorldID, &r.Published, &r.Deleted)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting export row: %w", err)
		}
		exportRows = append(exportRows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meeting export rows: %w", err)
	}
	return exportRows, nil
}
