package memory

import (
	"context"
	"sort"
	"sync"

	"diamondpad/internal/domain"
	"diamondpad/internal/storage"
)

// BundlerStore is an in-memory implementation of storage.BundlerStore.
type BundlerStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Bundler // keyed by wallet
}

// NewBundlerStore creates a new in-memory bundler store.
func NewBundlerStore() *BundlerStore {
	return &BundlerStore{
		data: make(map[string]*domain.Bundler),
	}
}

// Insert adds a new bundler record. Returns ErrDuplicateKey if the wallet is already flagged.
func (s *BundlerStore) Insert(_ context.Context, b *domain.Bundler) error {
	if b == nil || b.Wallet == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[b.Wallet]; exists {
		return storage.ErrDuplicateKey
	}

	bundlerCopy := *b
	s.data[b.Wallet] = &bundlerCopy
	return nil
}

// Get retrieves the record for a wallet. Returns ErrNotFound if not flagged.
func (s *BundlerStore) Get(_ context.Context, wallet string) (*domain.Bundler, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, exists := s.data[wallet]
	if !exists {
		return nil, storage.ErrNotFound
	}

	bundlerCopy := *b
	return &bundlerCopy, nil
}

// GetAll retrieves all flagged wallets, ordered by flagged_at ASC.
func (s *BundlerStore) GetAll(_ context.Context) ([]*domain.Bundler, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Bundler
	for _, b := range s.data {
		bundlerCopy := *b
		result = append(result, &bundlerCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].FlaggedAt != result[j].FlaggedAt {
			return result[i].FlaggedAt < result[j].FlaggedAt
		}
		return result[i].Wallet < result[j].Wallet
	})

	return result, nil
}

// Update overwrites an existing record. Returns ErrNotFound if not exists.
func (s *BundlerStore) Update(_ context.Context, b *domain.Bundler) error {
	if b == nil || b.Wallet == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[b.Wallet]; !exists {
		return storage.ErrNotFound
	}

	bundlerCopy := *b
	s.data[b.Wallet] = &bundlerCopy
	return nil
}

// Verify interface compliance at compile time.
var _ storage.BundlerStore = (*BundlerStore)(nil)
