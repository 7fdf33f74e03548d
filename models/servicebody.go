// models/servicebody.go
package models

// Service body type codes as published by BMLT root servers.
const (
	ServiceBodyGroup  = "GR"
	ServiceBodyGSU    = "GS"
	ServiceBodyLSU    = "LS"
	ServiceBodyArea   = "AS"
	ServiceBodyMetro  = "MA"
	ServiceBodyRegion = "RS"
	ServiceBodyZone   = "ZF"
	ServiceBodyWorld  = "WS"
)

// ServiceBody is one organizational unit in a root server's hierarchy.
// ParentID is the local primary key of the parent body, nil for roots of the
// forest. Deleting a body cascades to descendant bodies and to meetings that
// reference it (enforced by the store schema, not engine logic).
type ServiceBody struct {
	ID           int64   `db:"id" json:"id"`
	RootServerID int64   `db:"root_server_id" json:"root_server_id"`
	SourceID     int64   `db:"source_id" json:"source_id"`
	ParentID     *int64  `db:"parent_id" json:"parent_id,omitempty"`
	Name         string  `db:"name" json:"name"`
	Type         *string `db:"type" json:"type,omitempty"`
	Description  *string `db:"description" json:"description,omitempty"`
	URL          *string `db:"url" json:"url,omitempty"`
	Helpline     *string `db:"helpline" json:"helpline,omitempty"`
	WorldID      *string `db:"world_id" json:"world_id,omitempty"`
}
