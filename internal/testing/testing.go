// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"autodj/internal/models"
)

// MockSource is a test double for [services.Source]. It returns the
// configured candidates or error and records how it was called.
type MockSource struct {
	SourceName string
	Candidates []models.RawCandidate
	Err        error

	Calls     int
	LastLimit int
}

func (m *MockSource) Name() string {
	return m.SourceName
}

func (m *MockSource) Discover(ctx context.Context, profile models.StyleProfile, limit int) ([]models.RawCandidate, error) {
	m.Calls++
	m.LastLimit = limit
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Candidates, nil
}

// MemoryCandidateStore is an in-memory [models.CandidateStore].
type MemoryCandidateStore struct {
	mu      sync.Mutex
	byID    map[string]*models.Candidate
	SaveErr error
	ListErr error
}

func NewMemoryCandidateStore() *MemoryCandidateStore {
	return &MemoryCandidateStore{byID: make(map[string]*models.Candidate)}
}

func (s *MemoryCandidateStore) Save(c *models.Candidate) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *c
	s.byID[c.ID] = &stored
	return nil
}

func (s *MemoryCandidateStore) Get(id string) (*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.byID[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, errors.New("candidate not found")
}

func (s *MemoryCandidateStore) GetByIdentityKey(key string) (*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.byID {
		if c.IdentityKey() == key {
			copied := *c
			return &copied, nil
		}
	}
	return nil, errors.New("candidate not found")
}

func (s *MemoryCandidateStore) ListByMinScore(min float64) ([]*models.Candidate, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Candidate
	for _, c := range s.byID {
		if c.Score >= min {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (s *MemoryCandidateStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

func (s *MemoryCandidateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// MemoryPlaylistStore is an in-memory [models.PlaylistStore].
type MemoryPlaylistStore struct {
	mu        sync.Mutex
	Playlists []*models.Playlist
	CreateErr error
}

func NewMemoryPlaylistStore() *MemoryPlaylistStore {
	return &MemoryPlaylistStore{}
}

func (s *MemoryPlaylistStore) Create(p *models.Playlist) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *p
	s.Playlists = append(s.Playlists, &stored)
	return nil
}

func (s *MemoryPlaylistStore) Get(id string) (*models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.Playlists {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, errors.New("playlist not found")
}

func (s *MemoryPlaylistStore) List() ([]*models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Playlist, 0, len(s.Playlists))
	for i := len(s.Playlists) - 1; i >= 0; i-- {
		copied := *s.Playlists[i]
		out = append(out, &copied)
	}
	return out, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}
