package postgres

import (
	"context"
	"fmt"

	"diamondpad/internal/domain"
	"diamondpad/internal/storage"
)

// ProtocolStore implements storage.ProtocolStore using PostgreSQL.
// The protocol table holds exactly one row.
type ProtocolStore struct {
	pool *Pool
}

// NewProtocolStore creates a new ProtocolStore.
func NewProtocolStore(pool *Pool) *ProtocolStore {
	return &ProtocolStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ProtocolStore = (*ProtocolStore)(nil)

// Init creates the protocol record. Returns ErrDuplicateKey if already bootstrapped.
func (s *ProtocolStore) Init(ctx context.Context, p *domain.Protocol) error {
	// The singleton guard column keeps the table at one row regardless of address.
	query := `
		INSERT INTO protocol (
			singleton, address, authority, total_launches, total_holders, total_bundlers_caught, created_at
		) VALUES (TRUE, $1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		p.Address,
		p.Authority,
		int64(p.TotalLaunches),
		int64(p.TotalHolders),
		int64(p.TotalBundlersCaught),
		p.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("init protocol: %w", err)
	}
	return nil
}

// Get retrieves the protocol record. Returns ErrNotFound if not bootstrapped.
func (s *ProtocolStore) Get(ctx context.Context) (*domain.Protocol, error) {
	query := `
		SELECT address, authority, total_launches, total_holders, total_bundlers_caught, created_at
		FROM protocol
		WHERE singleton = TRUE
	`

	var p domain.Protocol
	var launches, holders, bundlers int64

	err := s.pool.QueryRow(ctx, query).Scan(
		&p.Address,
		&p.Authority,
		&launches,
		&holders,
		&bundlers,
		&p.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get protocol: %w", err)
	}

	p.TotalLaunches = uint64(launches)
	p.TotalHolders = uint64(holders)
	p.TotalBundlersCaught = uint64(bundlers)
	return &p, nil
}

// Update overwrites the protocol record. Returns ErrNotFound if not bootstrapped.
func (s *ProtocolStore) Update(ctx context.Context, p *domain.Protocol) error {
	query := `
		UPDATE protocol
		SET authority = $1,
		    total_launches = $2,
		    total_holders = $3,
		    total_bundlers_caught = $4
		WHERE singleton = TRUE
	`

	tag, err := s.pool.Exec(ctx, query,
		p.Authority,
		int64(p.TotalLaunches),
		int64(p.TotalHolders),
		int64(p.TotalBundlersCaught),
	)
	if err != nil {
		return fmt.Errorf("update protocol: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
