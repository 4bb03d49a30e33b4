package memory

import (
	"context"
	"testing"

	"diamondpad/internal/domain"
)

func TestEventStore_InsertBulkAndGetByType(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	events := []*domain.ProtocolEvent{
		{EventType: "LAUNCH_CREATED", Subject: "LaunchAddrA", Payload: `{"launch_id":0}`, EmittedAt: 100},
		{EventType: "POSITION_UPDATED", Subject: "PositionAddrA", Payload: `{"balance":1000}`, EmittedAt: 200},
		{EventType: "LAUNCH_CREATED", Subject: "LaunchAddrB", Payload: `{"launch_id":1}`, EmittedAt: 50},
	}

	if err := store.InsertBulk(ctx, events); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByType(ctx, "LAUNCH_CREATED")
	if err != nil {
		t.Fatalf("GetByType failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	// Ordered by emitted_at ASC
	if got[0].Subject != "LaunchAddrB" {
		t.Errorf("wrong order: first subject %s", got[0].Subject)
	}
}

func TestEventStore_GetByTimeRange(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	store.InsertBulk(ctx, []*domain.ProtocolEvent{
		{EventType: "REWARDS_CLAIMED", Subject: "PositionAddrA", EmittedAt: 100},
		{EventType: "BUNDLER_FLAGGED", Subject: "BundlerWallet111", EmittedAt: 200},
		{EventType: "REWARDS_CLAIMED", Subject: "PositionAddrB", EmittedAt: 300},
	})

	got, err := store.GetByTimeRange(ctx, 100, 200)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events in range, got %d", len(got))
	}
	if got[1].EventType != "BUNDLER_FLAGGED" {
		t.Errorf("wrong order: second type %s", got[1].EventType)
	}
}

func TestEventStore_EmptyRange(t *testing.T) {
	store := NewEventStore()

	got, err := store.GetByTimeRange(context.Background(), 0, 1000)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no events, got %d", len(got))
	}
}
