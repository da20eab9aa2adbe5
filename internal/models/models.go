package models

// CandidateStore defines the persistence contract for discovered candidates.
//
// Save has upsert semantics keyed by identity key: re-saving a candidate whose
// normalized (artist, title) pair already exists replaces the stored record.
type CandidateStore interface {
	Save(c *Candidate) error                          // Save inserts or replaces a candidate by identity key
	Get(id string) (*Candidate, error)                // Get retrieves a candidate by its ID
	GetByIdentityKey(key string) (*Candidate, error)  // GetByIdentityKey retrieves a candidate by normalized (artist, title)
	ListByMinScore(min float64) ([]*Candidate, error) // ListByMinScore retrieves candidates with score >= min, best first
	Delete(id string) error                           // Delete removes a candidate by its ID
}

// PlaylistStore defines the persistence contract for curated playlists.
type PlaylistStore interface {
	Create(p *Playlist) error         // Create inserts a new playlist
	Get(id string) (*Playlist, error) // Get retrieves a playlist by its ID
	List() ([]*Playlist, error)       // List retrieves all playlists, newest first
}
