// models/format.go
package models

// Format is a canonical meeting-format code scoped to one root server.
// Display text lives on per-language TranslatedFormat children.
type Format struct {
	ID           int64   `db:"id" json:"id"`
	RootServerID int64   `db:"root_server_id" json:"root_server_id"`
	SourceID     int64   `db:"source_id" json:"source_id"`
	Type         *string `db:"type" json:"type,omitempty"`
	WorldID      *string `db:"world_id" json:"world_id,omitempty"`

	// Translations are loaded by the store when a lookup needs them
	// (e.g. key-string format resolution); nil otherwise.
	Translations []TranslatedFormat `db:"-" json:"translations,omitempty"`
}

// TranslatedFormat is the per-language display text of a Format.
// At most one translation exists per (format, language).
type TranslatedFormat struct {
	ID          int64   `db:"id" json:"id"`
	FormatID    int64   `db:"format_id" json:"format_id"`
	KeyString   string  `db:"key_string" json:"key_string"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
	Language    string  `db:"language" json:"language"`
}
