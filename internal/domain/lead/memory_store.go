package lead

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps leads in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	leads  []Lead
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Create(_ context.Context, lead *Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead.ID = s.nextID
	s.nextID++
	if lead.UpdatedAt.IsZero() {
		lead.UpdatedAt = lead.SubmittedAt
	}
	s.leads = append(s.leads, lead.Clone())
	return nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Lead, len(s.leads))
	for i, l := range s.leads {
		out[i] = l.Clone()
	}
	return out, nil
}

func (s *MemoryStore) GetByID(_ context.Context, id int64) (*Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrLeadNotFound
	}
	l := s.leads[i].Clone()
	return &l, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id int64, state State) (*Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrLeadNotFound
	}
	if s.leads[i].State != state {
		s.leads[i].State = state
		s.leads[i].UpdatedAt = time.Now().UTC()
	}
	l := s.leads[i].Clone()
	return &l, nil
}

func (s *MemoryStore) CountByState(_ context.Context) (map[State]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[State]int)
	for _, l := range s.leads {
		counts[l.State]++
	}
	return counts, nil
}

// ids are assigned in increasing order, so the slice is sorted by id.
func (s *MemoryStore) indexOf(id int64) int {
	i, found := slices.BinarySearchFunc(s.leads, id, func(l Lead, id int64) int {
		return cmp.Compare(l.ID, id)
	})
	if !found {
		return -1
	}
	return i
}
