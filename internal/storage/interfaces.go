package storage

import (
	"context"

	"diamondpad/internal/domain"
)

// ProtocolStore provides access to the singleton protocol record.
type ProtocolStore interface {
	// Init creates the protocol record. Returns ErrDuplicateKey if already bootstrapped.
	Init(ctx context.Context, p *domain.Protocol) error

	// Get retrieves the protocol record. Returns ErrNotFound if not bootstrapped.
	Get(ctx context.Context) (*domain.Protocol, error)

	// Update overwrites the protocol record. Returns ErrNotFound if not bootstrapped.
	Update(ctx context.Context, p *domain.Protocol) error
}

// LaunchStore provides access to launches storage.
type LaunchStore interface {
	// Insert adds a new launch. Returns ErrDuplicateKey if launch_id exists.
	Insert(ctx context.Context, l *domain.Launch) error

	// GetByID retrieves a launch by its sequence id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, launchID uint64) (*domain.Launch, error)

	// GetByCreator retrieves all launches by a creator, ordered by launch_id ASC.
	GetByCreator(ctx context.Context, creator string) ([]*domain.Launch, error)

	// GetByStatus retrieves all launches in a given status, ordered by launch_id ASC.
	GetByStatus(ctx context.Context, status domain.LaunchStatus) ([]*domain.Launch, error)

	// Update overwrites an existing launch. Returns ErrNotFound if not exists.
	Update(ctx context.Context, l *domain.Launch) error
}

// PositionStore provides access to positions storage, keyed by (launch, holder).
type PositionStore interface {
	// Insert adds a new position. Returns ErrDuplicateKey if the
	// (launch, holder) pair exists. This is the create-if-absent primitive
	// for lazy position creation.
	Insert(ctx context.Context, p *domain.Position) error

	// Get retrieves the position for a (launch, holder) pair. Returns ErrNotFound if not exists.
	Get(ctx context.Context, launch, holder string) (*domain.Position, error)

	// GetByLaunch retrieves all positions for a launch, ordered by holder ASC.
	GetByLaunch(ctx context.Context, launch string) ([]*domain.Position, error)

	// GetByHolder retrieves all positions held by a wallet, ordered by launch ASC.
	GetByHolder(ctx context.Context, holder string) ([]*domain.Position, error)

	// Update overwrites an existing position. Returns ErrNotFound if not exists.
	Update(ctx context.Context, p *domain.Position) error
}

// BundlerStore provides access to flagged-wallet storage.
type BundlerStore interface {
	// Insert adds a new bundler record. Returns ErrDuplicateKey if the wallet is already flagged.
	Insert(ctx context.Context, b *domain.Bundler) error

	// Get retrieves the record for a wallet. Returns ErrNotFound if not flagged.
	Get(ctx context.Context, wallet string) (*domain.Bundler, error)

	// GetAll retrieves all flagged wallets, ordered by flagged_at ASC.
	GetAll(ctx context.Context) ([]*domain.Bundler, error)

	// Update overwrites an existing record. Returns ErrNotFound if not exists.
	Update(ctx context.Context, b *domain.Bundler) error
}

// EventStore provides append-only access to the protocol event archive.
type EventStore interface {
	// InsertBulk appends events. The archive is append-only; events are never updated.
	InsertBulk(ctx context.Context, events []*domain.ProtocolEvent) error

	// GetByType retrieves all events of a type, ordered by emitted_at ASC.
	GetByType(ctx context.Context, eventType string) ([]*domain.ProtocolEvent, error)

	// GetByTimeRange retrieves events emitted within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.ProtocolEvent, error)
}
