package memory

import (
	"context"
	"sort"
	"sync"

	"diamondpad/internal/domain"
	"diamondpad/internal/storage"
)

// LaunchStore is an in-memory implementation of storage.LaunchStore.
type LaunchStore struct {
	mu   sync.RWMutex
	data map[uint64]*domain.Launch // keyed by launch_id
}

// NewLaunchStore creates a new in-memory launch store.
func NewLaunchStore() *LaunchStore {
	return &LaunchStore{
		data: make(map[uint64]*domain.Launch),
	}
}

// Insert adds a new launch. Returns ErrDuplicateKey if launch_id exists.
func (s *LaunchStore) Insert(_ context.Context, l *domain.Launch) error {
	if l == nil || l.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[l.LaunchID]; exists {
		return storage.ErrDuplicateKey
	}

	launchCopy := *l
	s.data[l.LaunchID] = &launchCopy
	return nil
}

// GetByID retrieves a launch by its sequence id. Returns ErrNotFound if not exists.
func (s *LaunchStore) GetByID(_ context.Context, launchID uint64) (*domain.Launch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, exists := s.data[launchID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	launchCopy := *l
	return &launchCopy, nil
}

// GetByCreator retrieves all launches by a creator, ordered by launch_id ASC.
func (s *LaunchStore) GetByCreator(_ context.Context, creator string) ([]*domain.Launch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Launch
	for _, l := range s.data {
		if l.Creator == creator {
			launchCopy := *l
			result = append(result, &launchCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].LaunchID < result[j].LaunchID
	})

	return result, nil
}

// GetByStatus retrieves all launches in a given status, ordered by launch_id ASC.
func (s *LaunchStore) GetByStatus(_ context.Context, status domain.LaunchStatus) ([]*domain.Launch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Launch
	for _, l := range s.data {
		if l.Status == status {
			launchCopy := *l
			result = append(result, &launchCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].LaunchID < result[j].LaunchID
	})

	return result, nil
}

// Update overwrites an existing launch. Returns ErrNotFound if not exists.
func (s *LaunchStore) Update(_ context.Context, l *domain.Launch) error {
	if l == nil || l.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[l.LaunchID]; !exists {
		return storage.ErrNotFound
	}

	launchCopy := *l
	s.data[l.LaunchID] = &launchCopy
	return nil
}

// Verify interface compliance at compile time.
var _ storage.LaunchStore = (*LaunchStore)(nil)
