// package repositories provides persistence layer implementations for all model types.
//
// Candidate and playlist repositories back the discovery pipeline's stores,
// handling upserts, soft deletes, and sequence generation.
package repositories

import (
	"database/sql"
	"fmt"
)

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers provide human-readable ordering for entities (e.g., candidate #42, playlist #3).
// They are NOT exposed in CLI output but used internally for sorting and debugging.
func NextSequence(db *sql.DB, table string) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	_, err = tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable))
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	err = tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// Stats summarizes the database contents for the stats command.
type Stats struct {
	Candidates     int     // Stored candidates (excluding soft-deleted)
	Playlists      int     // Stored playlists
	AverageScore   float64 // Mean candidate score
	WithBPM        int     // Candidates carrying a trusted tempo
	SearchesLogged int     // Rows in search_history
}

// CollectStats gathers database statistics across tables.
func CollectStats(db *sql.DB) (*Stats, error) {
	stats := &Stats{}

	err := db.QueryRow(`
		SELECT COUNT(*), COALESCE(AVG(score), 0), COALESCE(SUM(CASE WHEN bpm > 0 THEN 1 ELSE 0 END), 0)
		FROM candidates WHERE deleted_at IS NULL
	`).Scan(&stats.Candidates, &stats.AverageScore, &stats.WithBPM)
	if err != nil {
		return nil, fmt.Errorf("failed to collect candidate stats: %w", err)
	}

	err = db.QueryRow(`SELECT COUNT(*) FROM playlists WHERE deleted_at IS NULL`).Scan(&stats.Playlists)
	if err != nil {
		return nil, fmt.Errorf("failed to collect playlist stats: %w", err)
	}

	err = db.QueryRow(`SELECT COUNT(*) FROM search_history`).Scan(&stats.SearchesLogged)
	if err != nil {
		return nil, fmt.Errorf("failed to collect search stats: %w", err)
	}

	return stats, nil
}
