package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"diamondpad/internal/domain"
	"diamondpad/internal/storage"
)

// LaunchStore implements storage.LaunchStore using PostgreSQL.
type LaunchStore struct {
	pool *Pool
}

// NewLaunchStore creates a new LaunchStore.
func NewLaunchStore(pool *Pool) *LaunchStore {
	return &LaunchStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LaunchStore = (*LaunchStore)(nil)

const launchColumns = `
	launch_id, address, creator, name, symbol, total_supply,
	dev_allocation_bps, dev_vesting_days, lp_lock_days, holder_rewards_bps,
	created_at, status, total_raised, holder_count
`

// Insert adds a new launch. Returns ErrDuplicateKey if launch_id exists.
func (s *LaunchStore) Insert(ctx context.Context, l *domain.Launch) error {
	query := `
		INSERT INTO launches (` + launchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := s.pool.Exec(ctx, query,
		int64(l.LaunchID),
		l.Address,
		l.Creator,
		l.Name,
		l.Symbol,
		int64(l.TotalSupply),
		int32(l.DevAllocationBps),
		int32(l.DevVestingDays),
		int32(l.LpLockDays),
		int32(l.HolderRewardsBps),
		l.CreatedAt,
		string(l.Status),
		int64(l.TotalRaised),
		int64(l.HolderCount),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert launch: %w", err)
	}
	return nil
}

// GetByID retrieves a launch by its sequence id. Returns ErrNotFound if not exists.
func (s *LaunchStore) GetByID(ctx context.Context, launchID uint64) (*domain.Launch, error) {
	query := `SELECT ` + launchColumns + ` FROM launches WHERE launch_id = $1`

	row := s.pool.QueryRow(ctx, query, int64(launchID))
	l, err := scanLaunch(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get launch by id: %w", err)
	}
	return l, nil
}

// GetByCreator retrieves all launches by a creator, ordered by launch_id ASC.
func (s *LaunchStore) GetByCreator(ctx context.Context, creator string) ([]*domain.Launch, error) {
	query := `SELECT ` + launchColumns + ` FROM launches WHERE creator = $1 ORDER BY launch_id ASC`

	rows, err := s.pool.Query(ctx, query, creator)
	if err != nil {
		return nil, fmt.Errorf("get launches by creator: %w", err)
	}
	defer rows.Close()

	return scanLaunches(rows)
}

// GetByStatus retrieves all launches in a given status, ordered by launch_id ASC.
func (s *LaunchStore) GetByStatus(ctx context.Context, status domain.LaunchStatus) ([]*domain.Launch, error) {
	query := `SELECT ` + launchColumns + ` FROM launches WHERE status = $1 ORDER BY launch_id ASC`

	rows, err := s.pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("get launches by status: %w", err)
	}
	defer rows.Close()

	return scanLaunches(rows)
}

// Update overwrites an existing launch. Returns ErrNotFound if not exists.
func (s *LaunchStore) Update(ctx context.Context, l *domain.Launch) error {
	query := `
		UPDATE launches
		SET status = $2, total_raised = $3, holder_count = $4
		WHERE launch_id = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		int64(l.LaunchID),
		string(l.Status),
		int64(l.TotalRaised),
		int64(l.HolderCount),
	)
	if err != nil {
		return fmt.Errorf("update launch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanLaunch scans a single row into a Launch.
func scanLaunch(row pgx.Row) (*domain.Launch, error) {
	var l domain.Launch
	var launchID, totalSupply, totalRaised, holderCount int64
	var devAllocation, devVesting, lpLock, holderRewards int32
	var statusStr string

	err := row.Scan(
		&launchID,
		&l.Address,
		&l.Creator,
		&l.Name,
		&l.Symbol,
		&totalSupply,
		&devAllocation,
		&devVesting,
		&lpLock,
		&holderRewards,
		&l.CreatedAt,
		&statusStr,
		&totalRaised,
		&holderCount,
	)
	if err != nil {
		return nil, err
	}

	l.LaunchID = uint64(launchID)
	l.TotalSupply = uint64(totalSupply)
	l.DevAllocationBps = uint16(devAllocation)
	l.DevVestingDays = uint16(devVesting)
	l.LpLockDays = uint16(lpLock)
	l.HolderRewardsBps = uint16(holderRewards)
	l.Status = domain.LaunchStatus(statusStr)
	l.TotalRaised = uint64(totalRaised)
	l.HolderCount = uint64(holderCount)
	return &l, nil
}

// scanLaunches scans multiple rows into a slice of Launch.
func scanLaunches(rows pgx.Rows) ([]*domain.Launch, error) {
	var launches []*domain.Launch

	for rows.Next() {
		l, err := scanLaunch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan launch row: %w", err)
		}
		launches = append(launches, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate launch rows: %w", err)
	}

	return launches, nil
}
