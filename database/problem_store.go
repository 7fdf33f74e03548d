// database/problem_store.go
package database

import (
	"database/sql"
	"fmt"

	"github.com/gewnthar/meetsync/models"
)

// ProblemStore implements importer.ProblemStore. The log is append-only:
// entries are never updated, deduplicated or pruned by the importer.
type ProblemStore struct {
	db *sql.DB
}

func NewProblemStore(db *sql.DB) *ProblemStore {
	return &ProblemStore{db: db}
}

func (s *ProblemStore) Create(rootServerID int64, message, data string) error {
	// MySQL caps the message column; truncate rather than reject the entry.
	if len(message) > 255 {
		message = message[:255]
	}
	_, err := s.db.Exec(`
		INSERT INTO import_problems (root_server_id, message, data) VALUES (?, ?, ?)
	`, rootServerID, message, nullString(nonEmpty(data)))
	if err != nil {
		return fmt.Errorf("failed to insert import problem: %w", err)
	}
	return nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CountImportProblems returns the total problem-log size for one root server.
func CountImportProblems(rootServerID int64) (int, error) {
	if DB == nil {
		return 0, fmt.Errorf("database connection is not initialized")
	}
	var count int
	err := DB.QueryRow(`
		SELECT COUNT(*) FROM import_problems WHERE root_server_id = ?
	`, rootServerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count import problems: %w", err)
	}
	return count, nil
}

// GetImportProblems returns the most recent problems for one root server,
// newest first.
func GetImportProblems(rootServerID int64, limit int) ([]models.ImportProblem, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := DB.Query(`
		SELECT id, root_server_id, message, COALESCE(data, ''), created_at
		FROM import_problems
		WHERE root_server_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, rootServerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query import problems: %w", err)
	}
	defer rows.Close()

	var problems []models.ImportProblem
	for rows.Next() {
		var p models.ImportProblem
		if err := rows.Scan(&p.ID, &p.RootServerID, &p.Message, &p.Data, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import problem row: %w", err)
		}
		problems = append(problems, p)
	}
	return problems, rows.Err()
}
