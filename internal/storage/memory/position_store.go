package memory

import (
	"context"
	"sort"
	"sync"

	"diamondpad/internal/domain"
	"diamondpad/internal/storage"
)

// positionKey identifies a position by its (launch, holder) pair.
type positionKey struct {
	launch string
	holder string
}

// PositionStore is an in-memory implementation of storage.PositionStore.
type PositionStore struct {
	mu   sync.RWMutex
	data map[positionKey]*domain.Position
}

// NewPositionStore creates a new in-memory position store.
func NewPositionStore() *PositionStore {
	return &PositionStore{
		data: make(map[positionKey]*domain.Position),
	}
}

// Insert adds a new position. Returns ErrDuplicateKey if the (launch, holder) pair exists.
func (s *PositionStore) Insert(_ context.Context, p *domain.Position) error {
	if p == nil || p.Launch == "" || p.Holder == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := positionKey{p.Launch, p.Holder}
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	positionCopy := *p
	s.data[key] = &positionCopy
	return nil
}

// Get retrieves the position for a (launch, holder) pair. Returns ErrNotFound if not exists.
func (s *PositionStore) Get(_ context.Context, launch, holder string) (*domain.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[positionKey{launch, holder}]
	if !exists {
		return nil, storage.ErrNotFound
	}

	positionCopy := *p
	return &positionCopy, nil
}

// GetByLaunch retrieves all positions for a launch, ordered by holder ASC.
func (s *PositionStore) GetByLaunch(_ context.Context, launch string) ([]*domain.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Position
	for _, p := range s.data {
		if p.Launch == launch {
			positionCopy := *p
			result = append(result, &positionCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Holder < result[j].Holder
	})

	return result, nil
}

// GetByHolder retrieves all positions held by a wallet, ordered by launch ASC.
func (s *PositionStore) GetByHolder(_ context.Context, holder string) ([]*domain.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Position
	for _, p := range s.data {
		if p.Holder == holder {
			positionCopy := *p
			result = append(result, &positionCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Launch < result[j].Launch
	})

	return result, nil
}

// Update overwrites an existing position. Returns ErrNotFound if not exists.
func (s *PositionStore) Update(_ context.Context, p *domain.Position) error {
	if p == nil || p.Launch == "" || p.Holder == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := positionKey{p.Launch, p.Holder}
	if _, exists := s.data[key]; !exists {
		return storage.ErrNotFound
	}

	positionCopy := *p
	s.data[key] = &positionCopy
	return nil
}

// Verify interface compliance at compile time.
var _ storage.PositionStore = (*PositionStore)(nil)
