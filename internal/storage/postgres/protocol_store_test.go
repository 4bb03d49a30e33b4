package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diamondpad/internal/domain"
	"diamondpad/internal/storage"
)

func TestProtocolStore_Init(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProtocolStore(pool)
	ctx := context.Background()

	p := &domain.Protocol{
		Address:   "protocol-addr",
		Authority: "authority-wallet",
		CreatedAt: 1700000000,
	}

	err := store.Init(ctx, p)
	require.NoError(t, err)

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "protocol-addr", got.Address)
	assert.Equal(t, "authority-wallet", got.Authority)
	assert.Equal(t, uint64(0), got.TotalLaunches)
	assert.Equal(t, uint64(0), got.TotalHolders)
	assert.Equal(t, uint64(0), got.TotalBundlersCaught)
	assert.Equal(t, int64(1700000000), got.CreatedAt)
}

func TestProtocolStore_Init_AlreadyBootstrapped(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProtocolStore(pool)
	ctx := context.Background()

	p := &domain.Protocol{Address: "protocol-addr", Authority: "authority-wallet", CreatedAt: 1}
	require.NoError(t, store.Init(ctx, p))

	err := store.Init(ctx, p)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestProtocolStore_Get_NotBootstrapped(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProtocolStore(pool)

	_, err := store.Get(context.Background())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestProtocolStore_Update(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProtocolStore(pool)
	ctx := context.Background()

	p := &domain.Protocol{Address: "protocol-addr", Authority: "authority-wallet", CreatedAt: 1}
	require.NoError(t, store.Init(ctx, p))

	p.TotalLaunches = 3
	p.TotalHolders = 12
	p.TotalBundlersCaught = 1
	require.NoError(t, store.Update(ctx, p))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.TotalLaunches)
	assert.Equal(t, uint64(12), got.TotalHolders)
	assert.Equal(t, uint64(1), got.TotalBundlersCaught)
}

func TestProtocolStore_Update_NotBootstrapped(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProtocolStore(pool)

	err := store.Update(context.Background(), &domain.Protocol{Address: "protocol-addr"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
