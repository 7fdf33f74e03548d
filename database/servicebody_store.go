// database/servicebody_store.go
package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/gewnthar/meetsync/models"
)

// ServiceBodyStore implements importer.ServiceBodyStore against MySQL.
type ServiceBodyStore struct {
	db *sql.DB
}

func NewServiceBodyStore(db *sql.DB) *ServiceBodyStore {
	return &ServiceBodyStore{db: db}
}

const serviceBodyColumns = `id, root_server_id, source_id, parent_id, name, type, description, url, helpline, world_id`

func (s *ServiceBodyStore) GetBySourceID(rootServerID, sourceID int64) (*models.ServiceBody, error) {
	row := s.db.QueryRow(`
		SELECT `+serviceBodyColumns+`
		FROM service_bodies
		WHERE root_server_id = ? AND source_id = ?
	`, rootServerID, sourceID)
	return scanServiceBody(row)
}

func scanServiceBody(row *sql.Row) (*models.ServiceBody, error) {
	var b models.ServiceBody
	var parentID sql.NullInt64
	var typ, description, url, helpline, worldID sql.NullString
	err := row.Scan(&b.ID, &b.RootServerID, &b.SourceID, &parentID,
		&b.Name, &typ, &description, &url, &helpline, &worldID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan service body row: %w", err)
	}
	b.ParentID = int64Ptr(parentID)
	b.Type = stringPtr(typ)
	b.Description = stringPtr(description)
	b.URL = stringPtr(url)
	b.Helpline = stringPtr(helpline)
	b.WorldID = stringPtr(worldID)
	return &b, nil
}

// Save inserts the body when it has no local id yet, updates it otherwise.
func (s *ServiceBodyStore) Save(body *models.ServiceBody) error {
	if body.ID == 0 {
		result, err := s.db.Exec(`
			INSERT INTO service_bodies (
				root_server_id, source_id, parent_id, name, type,
				description, url, helpline, world_id
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, body.RootServerID, body.SourceID, nullInt64(body.ParentID), body.Name,
			nullString(body.Type), nullString(body.Description), nullString(body.URL),
			nullString(body.Helpline), nullString(body.WorldID))
		if err != nil {
			return fmt.Errorf("failed to insert service body %d: %w", body.SourceID, err)
		}
		body.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read service body insert id: %w", err)
		}
		return nil
	}

	_, err := s.db.Exec(`
		UPDATE service_bodies
		SET parent_id = ?, name = ?, type = ?, description = ?, url = ?,
		    helpline = ?, world_id = ?
		WHERE id = ?
	`, nullInt64(body.ParentID), body.Name, nullString(body.Type),
		nullString(body.Description), nullString(body.URL), nullString(body.Helpline),
		nullString(body.WorldID), body.ID)
	if err != nil {
		return fmt.Errorf("failed to update service body %d: %w", body.ID, err)
	}
	return nil
}

// DeleteAbsent removes every service body in scope whose source_id is not in
// keepSourceIDs. The schema cascades the delete to descendant bodies and
// their meetings.
func (s *ServiceBodyStore) DeleteAbsent(rootServerID int64, keepSourceIDs []int64) error {
	query, args := deleteAbsentQuery("service_bodies", rootServerID, keepSourceIDs)
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete absent service bodies: %w", err)
	}
	return nil
}

// deleteAbsentQuery builds the reap statement shared by the scoped stores.
// An empty keep set deletes the whole scope — absence implies deletion.
func deleteAbsentQuery(table string, rootServerID int64, keepSourceIDs []int64) (string, []any) {
	if len(keepSourceIDs) == 0 {
		return fmt.Sprintf("DELETE FROM %s WHERE root_server_id = ?", table), []any{rootServerID}
	}
	placeholders := strings.Repeat("?,", len(keepSourceIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(keepSourceIDs)+1)
	args = append(args, rootServerID)
	for _, id := range keepSourceIDs {
		args = append(args, id)
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE root_server_id = ? AND source_id NOT IN (%s)", table, placeholders)
	return query, args
}
