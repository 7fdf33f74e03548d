// models/rootserver.go
package models

import "time"

// RootServer is one external meeting-directory source. Every scoped entity
// (service bodies, formats, meetings) belongs to exactly one RootServer, and
// source_id values are only meaningful within that scope.
type RootServer struct {
	ID                   int64      `db:"id" json:"id"`
	SourceID             int64      `db:"source_id" json:"source_id"`
	Name                 string     `db:"name" json:"name"`
	URL                  string     `db:"url" json:"url"`
	ServerInfo           string     `db:"server_info" json:"server_info,omitempty"`
	LastSuccessfulImport *time.Time `db:"last_successful_import" json:"last_successful_import,omitempty"`

	// Denormalized counts, recomputed after each successful import.
	NumZones    int `db:"num_zones" json:"num_zones"`
	NumRegions  int `db:"num_regions" json:"num_regions"`
	NumAreas    int `db:"num_areas" json:"num_areas"`
	NumGroups   int `db:"num_groups" json:"num_groups"`
	NumMeetings int `db:"num_meetings" json:"num_meetings"`
}

// ImportProblem is one append-only log entry for a recoverable failure during
// a sync run. Never updated or deduplicated; accumulates across runs.
type ImportProblem struct {
	ID           int64     `db:"id" json:"id"`
	RootServerID int64     `db:"root_server_id" json:"root_server_id"`
	Message      string    `db:"message" json:"message"`
	Data         string    `db:"data" json:"data,omitempty"` // serialized offending raw record
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
