package memory

import (
	"context"
	"sync"

	"diamondpad/internal/domain"
	"diamondpad/internal/storage"
)

// ProtocolStore is an in-memory implementation of storage.ProtocolStore.
type ProtocolStore struct {
	mu   sync.RWMutex
	data *domain.Protocol
}

// NewProtocolStore creates a new in-memory protocol store.
func NewProtocolStore() *ProtocolStore {
	return &ProtocolStore{}
}

// Init creates the protocol record. Returns ErrDuplicateKey if already bootstrapped.
func (s *ProtocolStore) Init(_ context.Context, p *domain.Protocol) error {
	if p == nil || p.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data != nil {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	protocolCopy := *p
	s.data = &protocolCopy
	return nil
}

// Get retrieves the protocol record. Returns ErrNotFound if not bootstrapped.
func (s *ProtocolStore) Get(_ context.Context) (*domain.Protocol, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, storage.ErrNotFound
	}

	protocolCopy := *s.data
	return &protocolCopy, nil
}

// Update overwrites the protocol record. Returns ErrNotFound if not bootstrapped.
func (s *ProtocolStore) Update(_ context.Context, p *domain.Protocol) error {
	if p == nil || p.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return storage.ErrNotFound
	}

	protocolCopy := *p
	s.data = &protocolCopy
	return nil
}

// Verify interface compliance at compile time.
var _ storage.ProtocolStore = (*ProtocolStore)(nil)
