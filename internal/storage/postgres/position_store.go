package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"diamondpad/internal/domain"
	"diamondpad/internal/storage"
)

// PositionStore implements storage.PositionStore using PostgreSQL.
type PositionStore struct {
	pool *Pool
}

// NewPositionStore creates a new PositionStore.
func NewPositionStore(pool *Pool) *PositionStore {
	return &PositionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PositionStore = (*PositionStore)(nil)

const positionColumns = `
	address, launch_address, holder, balance,
	first_buy_timestamp, last_activity_timestamp, last_claim_timestamp,
	diamond_rank, multiplier_bps, total_rewards_claimed
`

// Insert adds a new position. Returns ErrDuplicateKey if the (launch, holder) pair exists.
func (s *PositionStore) Insert(ctx context.Context, p *domain.Position) error {
	query := `
		INSERT INTO positions (` + positionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, query,
		p.Address,
		p.Launch,
		p.Holder,
		int64(p.Balance),
		p.FirstBuyTimestamp,
		p.LastActivityTimestamp,
		p.LastClaimTimestamp,
		string(p.DiamondRank),
		int32(p.MultiplierBps),
		int64(p.TotalRewardsClaimed),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert position: %w", err)
	}
	return nil
}

// Get retrieves the position for a (launch, holder) pair. Returns ErrNotFound if not exists.
func (s *PositionStore) Get(ctx context.Context, launch, holder string) (*domain.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE launch_address = $1 AND holder = $2`

	row := s.pool.QueryRow(ctx, query, launch, holder)
	p, err := scanPosition(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get position: %w", err)
	}
	return p, nil
}

// GetByLaunch retrieves all positions for a launch, ordered by holder ASC.
func (s *PositionStore) GetByLaunch(ctx context.Context, launch string) ([]*domain.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE launch_address = $1 ORDER BY holder ASC`

	rows, err := s.pool.Query(ctx, query, launch)
	if err != nil {
		return nil, fmt.Errorf("get positions by launch: %w", err)
	}
	defer rows.Close()

	return scanPositions(rows)
}

// GetByHolder retrieves all positions held by a wallet, ordered by launch ASC.
func (s *PositionStore) GetByHolder(ctx context.Context, holder string) ([]*domain.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE holder = $1 ORDER BY launch_address ASC`

	rows, err := s.pool.Query(ctx, query, holder)
	if err != nil {
		return nil, fmt.Errorf("get positions by holder: %w", err)
	}
	defer rows.Close()

	return scanPositions(rows)
}

// Update overwrites an existing position. Returns ErrNotFound if not exists.
func (s *PositionStore) Update(ctx context.Context, p *domain.Position) error {
	query := `
		UPDATE positions
		SET balance = $3,
		    first_buy_timestamp = $4,
		    last_activity_timestamp = $5,
		    last_claim_timestamp = $6,
		    diamond_rank = $7,
		    multiplier_bps = $8,
		    total_rewards_claimed = $9
		WHERE launch_address = $1 AND holder = $2
	`

	tag, err := s.pool.Exec(ctx, query,
		p.Launch,
		p.Holder,
		int64(p.Balance),
		p.FirstBuyTimestamp,
		p.LastActivityTimestamp,
		p.LastClaimTimestamp,
		string(p.DiamondRank),
		int32(p.MultiplierBps),
		int64(p.TotalRewardsClaimed),
	)
	if err != nil {
		return fmt.Errorf("update position: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanPosition scans a single row into a Position.
func scanPosition(row pgx.Row) (*domain.Position, error) {
	var p domain.Position
	var balance, claimed int64
	var multiplier int32
	var rankStr string

	err := row.Scan(
		&p.Address,
		&p.Launch,
		&p.Holder,
		&balance,
		&p.FirstBuyTimestamp,
		&p.LastActivityTimestamp,
		&p.LastClaimTimestamp,
		&rankStr,
		&multiplier,
		&claimed,
	)
	if err != nil {
		return nil, err
	}

	p.Balance = uint64(balance)
	p.DiamondRank = domain.DiamondRank(rankStr)
	p.MultiplierBps = uint16(multiplier)
	p.TotalRewardsClaimed = uint64(claimed)
	return &p, nil
}

// scanPositions scans multiple rows into a slice of Position.
func scanPositions(rows pgx.Rows) ([]*domain.Position, error) {
	var positions []*domain.Position

	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position row: %w", err)
		}
		positions = append(positions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate position rows: %w", err)
	}

	return positions, nil
}
