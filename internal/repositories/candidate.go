package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"autodj/internal/models"
	"autodj/internal/shared"
)

// CandidateRepository implements [models.CandidateStore] on SQLite.
//
// Save has upsert semantics on the identity_key unique column: rediscovering
// a track refreshes its metadata and score instead of inserting a duplicate.
type CandidateRepository struct {
	db *sql.DB
}

// NewCandidateRepository creates a new CandidateRepository with the given database connection
func NewCandidateRepository(db *sql.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

const candidateColumns = "id, sequence, identity_key, artist, title, bpm, key, genre, label, url, provenance, score, popularity, discovered_at"

// Save inserts a candidate or, when its identity key already exists, replaces
// the stored record in place. The caller is expected to have merged
// provenance beforehand; the row's ID and sequence survive the upsert.
func (r *CandidateRepository) Save(c *models.Candidate) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if c.ID == "" {
		c.ID = shared.GenerateID()
	}

	sequence, err := NextSequence(r.db, "candidates")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	provenance, err := json.Marshal(c.Provenance)
	if err != nil {
		return fmt.Errorf("failed to encode provenance: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO candidates (id, sequence, identity_key, artist, title, bpm, key, genre, label, url, provenance, score, popularity, discovered_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(identity_key) DO UPDATE SET
			artist = excluded.artist,
			title = excluded.title,
			bpm = excluded.bpm,
			key = excluded.key,
			genre = excluded.genre,
			label = excluded.label,
			url = excluded.url,
			provenance = excluded.provenance,
			score = excluded.score,
			popularity = excluded.popularity,
			discovered_at = excluded.discovered_at,
			updated_at = excluded.updated_at,
			deleted_at = NULL
	`

	_, err = r.db.Exec(query,
		c.ID,
		sequence,
		c.IdentityKey(),
		c.Artist,
		c.Title,
		nullFloat(c.BPM),
		nullString(c.Key),
		nullString(c.Genre),
		nullString(c.Label),
		nullString(c.URL),
		string(provenance),
		c.Score,
		nullFloat(c.Popularity),
		c.DiscoveredAt,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to save candidate: %w", err)
	}

	return nil
}

// Get retrieves a candidate by ID, excluding soft-deleted candidates
func (r *CandidateRepository) Get(id string) (*models.Candidate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM candidates
		WHERE id = ? AND deleted_at IS NULL
	`, candidateColumns)

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByIdentityKey retrieves a candidate by its normalized (artist, title) key
func (r *CandidateRepository) GetByIdentityKey(key string) (*models.Candidate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM candidates
		WHERE identity_key = ? AND deleted_at IS NULL
	`, candidateColumns)

	return r.scanOne(r.db.QueryRow(query, key))
}

// ListByMinScore retrieves candidates with score >= min, best first.
// Ordering mirrors the ranker: score descending, then discovery time, then
// identity key, so listings are stable across calls.
func (r *CandidateRepository) ListByMinScore(min float64) ([]*models.Candidate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM candidates
		WHERE score >= ? AND deleted_at IS NULL
		ORDER BY score DESC, discovered_at ASC, identity_key ASC
	`, candidateColumns)

	rows, err := r.db.Query(query, min)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*models.Candidate
	for rows.Next() {
		c, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return candidates, nil
}

// Delete soft-deletes a candidate by ID
func (r *CandidateRepository) Delete(id string) error {
	query := `
		UPDATE candidates
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrCandidateNotFound, id)
	}

	return nil
}

// LogSearch records one source's discovery outcome in search_history.
func (r *CandidateRepository) LogSearch(source, query string, count int) error {
	_, err := r.db.Exec(
		`INSERT INTO search_history (source, query, results_count) VALUES (?, ?, ?)`,
		source, query, count,
	)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *CandidateRepository) scanOne(row *sql.Row) (*models.Candidate, error) {
	c, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, shared.ErrCandidateNotFound
	}
	return c, err
}

func (r *CandidateRepository) scanRow(rows *sql.Rows) (*models.Candidate, error) {
	return r.scan(rows)
}

func (r *CandidateRepository) scan(row rowScanner) (*models.Candidate, error) {
	var (
		c           models.Candidate
		sequence    int
		identityKey string
		bpm         sql.NullFloat64
		key         sql.NullString
		genre       sql.NullString
		label       sql.NullString
		url         sql.NullString
		provenance  string
		popularity  sql.NullFloat64
	)

	err := row.Scan(
		&c.ID,
		&sequence,
		&identityKey,
		&c.Artist,
		&c.Title,
		&bpm,
		&key,
		&genre,
		&label,
		&url,
		&provenance,
		&c.Score,
		&popularity,
		&c.DiscoveredAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan candidate: %w", err)
	}

	c.KeyTitle, c.KeyArtist, _ = strings.Cut(identityKey, "|")
	c.BPM = bpm.Float64
	c.Key = key.String
	c.Genre = genre.String
	c.Label = label.String
	c.URL = url.String
	c.Popularity = popularity.Float64
	c.SimilarityHint = -1

	if err := json.Unmarshal([]byte(provenance), &c.Provenance); err != nil {
		return nil, fmt.Errorf("failed to decode provenance: %w", err)
	}

	return &c, nil
}

func nullFloat(v float64) any {
	if v <= 0 {
		return nil
	}
	return v
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
