package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"diamondpad/internal/domain"
	"diamondpad/internal/storage"
)

// BundlerStore implements storage.BundlerStore using PostgreSQL.
type BundlerStore struct {
	pool *Pool
}

// NewBundlerStore creates a new BundlerStore.
func NewBundlerStore(pool *Pool) *BundlerStore {
	return &BundlerStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BundlerStore = (*BundlerStore)(nil)

// Insert adds a new bundler record. Returns ErrDuplicateKey if the wallet is already flagged.
func (s *BundlerStore) Insert(ctx context.Context, b *domain.Bundler) error {
	query := `
		INSERT INTO bundlers (wallet, flagged_at, evidence, incident_count)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query,
		b.Wallet,
		b.FlaggedAt,
		b.Evidence,
		int32(b.IncidentCount),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert bundler: %w", err)
	}
	return nil
}

// Get retrieves the record for a wallet. Returns ErrNotFound if not flagged.
func (s *BundlerStore) Get(ctx context.Context, wallet string) (*domain.Bundler, error) {
	query := `
		SELECT wallet, flagged_at, evidence, incident_count
		FROM bundlers
		WHERE wallet = $1
	`

	row := s.pool.QueryRow(ctx, query, wallet)
	b, err := scanBundler(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get bundler: %w", err)
	}
	return b, nil
}

// GetAll retrieves all flagged wallets, ordered by flagged_at ASC.
func (s *BundlerStore) GetAll(ctx context.Context) ([]*domain.Bundler, error) {
	query := `
		SELECT wallet, flagged_at, evidence, incident_count
		FROM bundlers
		ORDER BY flagged_at ASC, wallet ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all bundlers: %w", err)
	}
	defer rows.Close()

	var bundlers []*domain.Bundler
	for rows.Next() {
		b, err := scanBundler(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bundler row: %w", err)
		}
		bundlers = append(bundlers, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bundler rows: %w", err)
	}

	return bundlers, nil
}

// Update overwrites an existing record. Returns ErrNotFound if not exists.
func (s *BundlerStore) Update(ctx context.Context, b *domain.Bundler) error {
	query := `
		UPDATE bundlers
		SET flagged_at = $2, evidence = $3, incident_count = $4
		WHERE wallet = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		b.Wallet,
		b.FlaggedAt,
		b.Evidence,
		int32(b.IncidentCount),
	)
	if err != nil {
		return fmt.Errorf("update bundler: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanBundler scans a single row into a Bundler.
func scanBundler(row pgx.Row) (*domain.Bundler, error) {
	var b domain.Bundler
	var incidents int32

	err := row.Scan(
		&b.Wallet,
		&b.FlaggedAt,
		&b.Evidence,
		&incidents,
	)
	if err != nil {
		return nil, err
	}

	b.IncidentCount = uint32(incidents)
	return &b, nil
}
