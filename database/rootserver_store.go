// database/rootserver_store.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gewnthar/meetsync/models"
)

const rootServerColumns = `id, source_id, name, url, COALESCE(server_info, ''),
	last_successful_import, num_zones, num_regions, num_areas, num_groups, num_meetings`

// GetRootServers returns every registered root server.
func GetRootServers() ([]models.RootServer, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	rows, err := DB.Query(`SELECT ` + rootServerColumns + ` FROM root_servers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query root servers: %w", err)
	}
	defer rows.Close()

	var servers []models.RootServer
	for rows.Next() {
		server, err := scanRootServer(rows.Scan)
		if err != nil {
			return nil, err
		}
		servers = append(servers, *server)
	}
	return servers, rows.Err()
}

// GetRootServer returns one root server by local id, or nil when unknown.
func GetRootServer(id int64) (*models.RootServer, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	row := DB.QueryRow(`SELECT `+rootServerColumns+` FROM root_servers WHERE id = ?`, id)
	server, err := scanRootServer(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return server, err
}

func scanRootServer(scan func(dest ...any) error) (*models.RootServer, error) {
	var server models.RootServer
	var lastImport sql.NullTime
	err := scan(&server.ID, &server.SourceID, &server.Name, &server.URL, &server.ServerInfo,
		&lastImport, &server.NumZones, &server.NumRegions, &server.NumAreas,
		&server.NumGroups, &server.NumMeetings)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan root server row: %w", err)
	}
	if lastImport.Valid {
		server.LastSuccessfulImport = &lastImport.Time
	}
	return &server, nil
}

// UpsertRootServer registers a root server by URL, updating the name if the
// directory listing changed it. Used by discovery and config seeding.
func UpsertRootServer(name, url string) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	_, err := DB.Exec(`
		INSERT INTO root_servers (name, url) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name)
	`, name, url)
	if err != nil {
		return fmt.Errorf("failed to upsert root server %s: %w", url, err)
	}
	return nil
}

// UpdateRootServerStats recomputes the denormalized counts for one root
// server and stamps the successful import. Called once per successful sync
// run, after the importer finishes.
func UpdateRootServerStats(server *models.RootServer, serverInfo string) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	counts := map[string]*int{
		models.ServiceBodyZone:   &server.NumZones,
		models.ServiceBodyRegion: &server.NumRegions,
		models.ServiceBodyArea:   &server.NumAreas,
		models.ServiceBodyGroup:  &server.NumGroups,
	}
	for bodyType, target := range counts {
		err := DB.QueryRow(`
			SELECT COUNT(*) FROM service_bodies WHERE root_server_id = ? AND type = ?
		`, server.ID, bodyType).Scan(target)
		if err != nil {
			return fmt.Errorf("failed to count %s service bodies: %w", bodyType, err)
		}
	}
	err := DB.QueryRow(`
		SELECT COUNT(*) FROM meetings WHERE root_server_id = ? AND deleted = 0
	`, server.ID).Scan(&server.NumMeetings)
	if err != nil {
		return fmt.Errorf("failed to count meetings: %w", err)
	}

	now := time.Now().UTC()
	server.LastSuccessfulImport = &now
	server.ServerInfo = serverInfo

	_, err = DB.Exec(`
		UPDATE root_servers
		SET server_info = ?, last_successful_import = ?, num_zones = ?,
		    num_regions = ?, num_areas = ?, num_groups = ?, num_meetings = ?
		WHERE id = ?
	`, server.ServerInfo, server.LastSuccessfulImport, server.NumZones,
		server.NumRegions, server.NumAreas, server.NumGroups, server.NumMeetings, server.ID)
	if err != nil {
		return fmt.Errorf("failed to update root server stats: %w", err)
	}

	log.Printf("Updated stats for root server %d: %d meetings, %d areas, %d regions\n",
		server.ID, server.NumMeetings, server.NumAreas, server.NumRegions)
	return nil
}
