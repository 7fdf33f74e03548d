// database/format_store.go
package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/gewnthar/meetsync/models"
)

// FormatStore implements importer.FormatStore against MySQL.
type FormatStore struct {
	db *sql.DB
}

func NewFormatStore(db *sql.DB) *FormatStore {
	return &FormatStore{db: db}
}

func (s *FormatStore) GetBySourceID(rootServerID, sourceID int64) (*models.Format, error) {
	row := s.db.QueryRow(`
		SELECT id, root_server_id, source_id, type, world_id
		FROM formats
		WHERE root_server_id = ? AND source_id = ?
	`, rootServerID, sourceID)

	var f models.Format
	var typ, worldID sql.NullString
	err := row.Scan(&f.ID, &f.RootServerID, &f.SourceID, &typ, &worldID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan format row: %w", err)
	}
	f.Type = stringPtr(typ)
	f.WorldID = stringPtr(worldID)
	return &f, nil
}

func (s *FormatStore) Save(format *models.Format) error {
	if format.ID == 0 {
		result, err := s.db.Exec(`
			INSERT INTO formats (root_server_id, source_id, type, world_id)
			VALUES (?, ?, ?, ?)
		`, format.RootServerID, format.SourceID, nullString(format.Type), nullString(format.WorldID))
		if err != nil {
			return fmt.Errorf("failed to insert format %d: %w", format.SourceID, err)
		}
		format.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read format insert id: %w", err)
		}
		return nil
	}

	_, err := s.db.Exec(`
		UPDATE formats SET type = ?, world_id = ? WHERE id = ?
	`, nullString(format.Type), nullString(format.WorldID), format.ID)
	if err != nil {
		return fmt.Errorf("failed to update format %d: %w", format.ID, err)
	}
	return nil
}

func (s *FormatStore) DeleteAbsent(rootServerID int64, keepSourceIDs []int64) error {
	query, args := deleteAbsentQuery("formats", rootServerID, keepSourceIDs)
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete absent formats: %w", err)
	}
	return nil
}

// FindBySourceIDs is the shared-id resolution lookup: formats in scope whose
// source_id is in sourceIDs, in source_id order.
func (s *FormatStore) FindBySourceIDs(rootServerID int64, sourceIDs []int64) ([]*models.Format, error) {
	if len(sourceIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(sourceIDs)), ",")
	args := make([]any, 0, len(sourceIDs)+1)
	args = append(args, rootServerID)
	for _, id := range sourceIDs {
		args = append(args, id)
	}

	rows, err := s.db.Query(`
		SELECT id, root_server_id, source_id, type, world_id
		FROM formats
		WHERE root_server_id = ? AND source_id IN (`+placeholders+`)
		ORDER BY source_id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query formats by source ids: %w", err)
	}
	defer rows.Close()
	return collectFormats(rows)
}

// FindByKeyStrings is the key-string resolution lookup: formats in scope
// having a translation in language whose key_string is in keyStrings. The
// join can reach a format through several translations, so DISTINCT keeps
// each format once; the importer de-duplicates overlapping key strings on
// top of this. Translations are preloaded because the de-dup needs them.
func (s *FormatStore) FindByKeyStrings(rootServerID int64, language string, keyStrings []string) ([]*models.Format, error) {
	if len(keyStrings) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keyStrings)), ",")
	args := make([]any, 0, len(keyStrings)+2)
	args = append(args, rootServerID, language)
	for _, ks := range keyStrings {
		args = append(args, ks)
	}

	rows, err := s.db.Query(`
		SELECT DISTINCT f.id, f.root_server_id, f.source_id, f.type, f.world_id
		FROM formats f
		JOIN translated_formats tf ON tf.format_id = f.id
		WHERE f.root_server_id = ? AND tf.language = ? AND tf.key_string IN (`+placeholders+`)
		ORDER BY f.id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query formats by key strings: %w", err)
	}
	defer rows.Close()

	formats, err := collectFormats(rows)
	if err != nil {
		return nil, err
	}
	for _, f := range formats {
		if err := s.loadTranslations(f); err != nil {
			return nil, err
		}
	}
	return formats, nil
}

func collectFormats(rows *sql.Rows) ([]*models.Format, error) {
	var formats []*models.Format
	for rows.Next() {
		var f models.Format
		var typ, worldID sql.NullString
		if err := rows.Scan(&f.ID, &f.RootServerID, &f.SourceID, &typ, &worldID); err != nil {
			return nil, fmt.Errorf("failed to scan format row: %w", err)
		}
		f.Type = stringPtr(typ)
		f.WorldID = stringPtr(worldID)
		formats = append(formats, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating format rows: %w", err)
	}
	return formats, nil
}

func (s *FormatStore) loadTranslations(format *models.Format) error {
	rows, err := s.db.Query(`
		SELECT id, format_id, key_string, name, description, language
		FROM translated_formats
		WHERE format_id = ?
		ORDER BY id
	`, format.ID)
	if err != nil {
		return fmt.Errorf("failed to query translations for format %d: %w", format.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var tf models.TranslatedFormat
		var description sql.NullString
		if err := rows.Scan(&tf.ID, &tf.FormatID, &tf.KeyString, &tf.Name, &description, &tf.Language); err != nil {
			return fmt.Errorf("failed to scan translated format row: %w", err)
		}
		tf.Description = stringPtr(description)
		format.Translations = append(format.Translations, tf)
	}
	return rows.Err()
}

// TranslatedFormatStore implements importer.TranslatedFormatStore.
type TranslatedFormatStore struct {
	db *sql.DB
}

func NewTranslatedFormatStore(db *sql.DB) *TranslatedFormatStore {
	return &TranslatedFormatStore{db: db}
}

func (s *TranslatedFormatStore) GetByLanguage(formatID int64, language string) (*models.TranslatedFormat, error) {
	row := s.db.QueryRow(`
		SELECT id, format_id, key_string, name, description, language
		FROM translated_formats
		WHERE format_id = ? AND language = ?
	`, formatID, language)

	var tf models.TranslatedFormat
	var description sql.NullString
	err := row.Scan(&tf.ID, &tf.FormatID, &tf.KeyString, &tf.Name, &description, &tf.Language)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan translated format row: %w", err)
	}
	tf.Description = stringPtr(description)
	return &tf, nil
}

func (s *TranslatedFormatStore) Save(tf *models.TranslatedFormat) error {
	if tf.ID == 0 {
		result, err := s.db.Exec(`
			INSERT INTO translated_formats (format_id, key_string, name, description, language)
			VALUES (?, ?, ?, ?, ?)
		`, tf.FormatID, tf.KeyString, tf.Name, nullString(tf.Description), tf.Language)
		if err != nil {
			return fmt.Errorf("failed to insert translated format %s/%s: %w", tf.KeyString, tf.Language, err)
		}
		tf.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read translated format insert id: %w", err)
		}
		return nil
	}

	_, err := s.db.Exec(`
		UPDATE translated_formats SET key_string = ?, name = ?, description = ? WHERE id = ?
	`, tf.KeyString, tf.Name, nullString(tf.Description), tf.ID)
	if err != nil {
		return fmt.Errorf("failed to update translated format %d: %w", tf.ID, err)
	}
	return nil
}

func (s *TranslatedFormatStore) DeleteAbsentLanguages(formatID int64, keepLanguages []string) error {
	if len(keepLanguages) == 0 {
		if _, err := s.db.Exec(`DELETE FROM translated_formats WHERE format_id = ?`, formatID); err != nil {
			return fmt.Errorf("failed to delete translations for format %d: %w", formatID, err)
		}
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keepLanguages)), ",")
	args := make([]any, 0, len(keepLanguages)+1)
	args = append(args, formatID)
	for _, lang := range keepLanguages {
		args = append(args, lang)
	}
	_, err := s.db.Exec(`
		DELETE FROM translated_formats
		WHERE format_id = ? AND language NOT IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to delete absent translations for format %d: %w", formatID, err)
	}
	return nil
}
