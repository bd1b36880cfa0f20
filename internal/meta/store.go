package meta

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Store persists profiles and run records. LoadProfile returns an error
// matching ErrNotFound for unknown ids.
type Store interface {
	LoadProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
	SaveProfile(ctx context.Context, p *Profile) error
	InsertRun(ctx context.Context, r *RunRecord) error
	RecentRuns(ctx context.Context, profileID uuid.UUID, limit int) ([]RunRecord, error)
}

// MemoryStore is a Store kept in process memory, for runs without a database.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]Profile
	runs     map[uuid.UUID][]RunRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[uuid.UUID]Profile),
		runs:     make(map[uuid.UUID][]RunRecord),
	}
}

func (s *MemoryStore) LoadProfile(_ context.Context, id uuid.UUID) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) SaveProfile(_ context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = *p
	return nil
}

func (s *MemoryStore) InsertRun(_ context.Context, r *RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ProfileID] = append(s.runs[r.ProfileID], *r)
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *MemoryStore) RecentRuns(_ context.Context, profileID uuid.UUID, limit int) ([]RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	runs := append([]RunRecord(nil), s.runs[profileID]...)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].FinishedAt.After(runs[j].FinishedAt) })
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
