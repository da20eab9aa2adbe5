package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"autodj/internal/models"
	"autodj/internal/shared"
)

// PlaylistRepository implements [models.PlaylistStore] on SQLite.
//
// Entries are stored as an ordered JSON array of rank/candidate-ID pairs;
// loading a playlist resolves each entry against the candidates table. An
// entry whose candidate was deleted since is dropped on load, ranks are
// recompacted.
type PlaylistRepository struct {
	db         *sql.DB
	candidates *CandidateRepository
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db, candidates: NewCandidateRepository(db)}
}

type playlistEntryRecord struct {
	Rank        int    `json:"rank"`
	CandidateID string `json:"candidate_id"`
}

// Create inserts a new playlist with generated ID and sequence
func (r *PlaylistRepository) Create(p *models.Playlist) error {
	if p.ID == "" {
		p.ID = shared.GenerateID()
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	records := make([]playlistEntryRecord, len(p.Entries))
	for i, e := range p.Entries {
		records[i] = playlistEntryRecord{Rank: e.Rank, CandidateID: e.Candidate.ID}
	}
	entries, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO playlists (id, sequence, name, description, entries, avg_bpm, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		p.ID,
		sequence,
		p.Name,
		p.Description,
		string(entries),
		nullFloat(p.AverageBPM()),
		p.CreatedAt,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves a playlist by ID with its entries resolved
func (r *PlaylistRepository) Get(id string) (*models.Playlist, error) {
	query := `
		SELECT id, name, description, entries, created_at
		FROM playlists
		WHERE id = ? AND deleted_at IS NULL
	`

	var (
		p       models.Playlist
		desc    sql.NullString
		entries string
	)
	err := r.db.QueryRow(query, id).Scan(&p.ID, &p.Name, &desc, &entries, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}
	p.Description = desc.String

	if err := r.resolveEntries(&p, entries); err != nil {
		return nil, err
	}
	return &p, nil
}

// List retrieves all playlists, newest first. Entries are resolved for each.
func (r *PlaylistRepository) List() ([]*models.Playlist, error) {
	query := `
		SELECT id, name, description, entries, created_at
		FROM playlists
		WHERE deleted_at IS NULL
		ORDER BY sequence DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.Playlist
	for rows.Next() {
		var (
			p       models.Playlist
			desc    sql.NullString
			entries string
		)
		if err := rows.Scan(&p.ID, &p.Name, &desc, &entries, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		p.Description = desc.String
		if err := r.resolveEntries(&p, entries); err != nil {
			return nil, err
		}
		playlists = append(playlists, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

func (r *PlaylistRepository) resolveEntries(p *models.Playlist, encoded string) error {
	var records []playlistEntryRecord
	if err := json.Unmarshal([]byte(encoded), &records); err != nil {
		return fmt.Errorf("failed to decode entries for playlist %s: %w", p.ID, err)
	}

	for _, rec := range records {
		c, err := r.candidates.Get(rec.CandidateID)
		if err != nil {
			continue
		}
		p.Entries = append(p.Entries, models.PlaylistEntry{Rank: len(p.Entries) + 1, Candidate: *c})
	}
	return nil
}
