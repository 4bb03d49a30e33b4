package ledger

import (
	"context"
	"errors"
	"math"
	"testing"

	"diamondpad/internal/domain"
	"diamondpad/internal/event"
	"diamondpad/internal/rank"
	"diamondpad/internal/storage"
)

func TestRecordPosition_FirstBuy(t *testing.T) {
	env := newTestEnv(t)
	env.bootstrap(t)
	ctx := context.Background()

	l, _ := env.svc.CreateLaunch(ctx, validParams())

	p, err := env.svc.RecordPosition(ctx, l.LaunchID, "holder-1", 1000)
	if err != nil {
		t.Fatalf("RecordPosition: %v", err)
	}
	if p.Balance != 1000 {
		t.Errorf("expected balance 1000, got %d", p.Balance)
	}
	if p.FirstBuyTimestamp != env.clock.Now() {
		t.Errorf("expected first_buy_timestamp %d, got %d", env.clock.Now(), p.FirstBuyTimestamp)
	}
	if p.DiamondRank != domain.RankPaper {
		t.Errorf("expected PAPER on day zero, got %s", p.DiamondRank)
	}
	if p.MultiplierBps != 10_000 {
		t.Errorf("expected multiplier 10000, got %d", p.MultiplierBps)
	}

	got, _ := env.svc.GetLaunch(ctx, l.LaunchID)
	if got.HolderCount != 1 {
		t.Errorf("expected holder_count 1, got %d", got.HolderCount)
	}
	if got.TotalRaised != 1000 {
		t.Errorf("expected total_raised 1000, got %d", got.TotalRaised)
	}

	stats, _ := env.svc.Stats(ctx)
	if stats.TotalHolders != 1 {
		t.Errorf("expected total_holders 1, got %d", stats.TotalHolders)
	}

	events := env.recorder.OfType(event.TypePositionUpdated)
	if len(events) != 1 {
		t.Fatalf("expected 1 PositionUpdated event, got %d", len(events))
	}
	payload := events[0].Payload.(event.PositionUpdated)
	if payload.Balance != 1000 || payload.Holder != "holder-1" {
		t.Errorf("unexpected event payload %+v", payload)
	}
}

func TestRecordPosition_SecondBuyKeepsTierClock(t *testing.T) {
	env := newTestEnv(t)
	env.bootstrap(t)
	ctx := context.Background()

	l, _ := env.svc.CreateLaunch(ctx, validParams())

	p1, err := env.svc.RecordPosition(ctx, l.LaunchID, "holder-1", 1000)
	if err != nil {
		t.Fatalf("first buy: %v", err)
	}
	firstBuy := p1.FirstBuyTimestamp

	env.clock.Advance(10 * rank.SecondsPerDay)

	p2, err := env.svc.RecordPosition(ctx, l.LaunchID, "holder-1", 500)
	if err != nil {
		t.Fatalf("second buy: %v", err)
	}
	if p2.Balance != 1500 {
		t.Errorf("expected balance 1500, got %d", p2.Balance)
	}
	if p2.FirstBuyTimestamp != firstBuy {
		t.Errorf("first_buy_timestamp changed on second buy: %d != %d", p2.FirstBuyTimestamp, firstBuy)
	}
	if p2.LastActivityTimestamp != env.clock.Now() {
		t.Errorf("expected last_activity updated to %d, got %d", env.clock.Now(), p2.LastActivityTimestamp)
	}
	if p2.DiamondRank != domain.RankBronze {
		t.Errorf("expected BRONZE at 10 days, got %s", p2.DiamondRank)
	}

	got, _ := env.svc.GetLaunch(ctx, l.LaunchID)
	if got.HolderCount != 1 {
		t.Errorf("holder_count incremented twice for one holder: %d", got.HolderCount)
	}
	if got.TotalRaised != 1500 {
		t.Errorf("expected total_raised 1500, got %d", got.TotalRaised)
	}
}

func TestRecordPosition_DistinctHolders(t *testing.T) {
	env := newTestEnv(t)
	env.bootstrap(t)
	ctx := context.Background()

	l, _ := env.svc.CreateLaunch(ctx, validParams())

	for _, holder := range []string{"holder-1", "holder-2", "holder-3"} {
		if _, err := env.svc.RecordPosition(ctx, l.LaunchID, holder, 100); err != nil {
			t.Fatalf("RecordPosition %s: %v", holder, err)
		}
	}

	got, _ := env.svc.GetLaunch(ctx, l.LaunchID)
	if got.HolderCount != 3 {
		t.Errorf("expected holder_count 3, got %d", got.HolderCount)
	}

	stats, _ := env.svc.Stats(ctx)
	if stats.TotalHolders != 3 {
		t.Errorf("expected total_holders 3, got %d", stats.TotalHolders)
	}
}

func TestRecordPosition_ZeroAmount(t *testing.T) {
	env := newTestEnv(t)
	env.bootstrap(t)
	ctx := context.Background()

	l, _ := env.svc.CreateLaunch(ctx, validParams())

	_, err := env.svc.RecordPosition(ctx, l.LaunchID, "holder-1", 0)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "amount" {
		t.Errorf("expected amount ValidationError, got %v", err)
	}
}

func TestRecordPosition_UnknownLaunch(t *testing.T) {
	env := newTestEnv(t)
	env.bootstrap(t)

	_, err := env.svc.RecordPosition(context.Background(), 42, "holder-1", 100)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordPosition_BalanceOverflow(t *testing.T) {
	env := newTestEnv(t)
	env.bootstrap(t)
	ctx := context.Background()

	l, _ := env.svc.CreateLaunch(ctx, validParams())

	if _, err := env.svc.RecordPosition(ctx, l.LaunchID, "holder-1", math.MaxUint64-10); err != nil {
		t.Fatalf("near-max buy: %v", err)
	}

	_, err := env.svc.RecordPosition(ctx, l.LaunchID, "holder-1", 11)
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}

	// Nothing mutated by the failed buy
	p, _ := env.svc.GetPosition(ctx, l.LaunchID, "holder-1")
	if p.Balance != math.MaxUint64-10 {
		t.Errorf("balance mutated by failed buy: %d", p.Balance)
	}
	got, _ := env.svc.GetLaunch(ctx, l.LaunchID)
	if got.TotalRaised != math.MaxUint64-10 {
		t.Errorf("total_raised mutated by failed buy: %d", got.TotalRaised)
	}
	if got.HolderCount != 1 {
		t.Errorf("holder_count mutated by failed buy: %d", got.HolderCount)
	}
}

func TestRecordPosition_EventCount(t *testing.T) {
	env := newTestEnv(t)
	env.bootstrap(t)
	ctx := context.Background()

	l, _ := env.svc.CreateLaunch(ctx, validParams())

	for i := 0; i < 4; i++ {
		if _, err := env.svc.RecordPosition(ctx, l.LaunchID, "holder-1", 10); err != nil {
			t.Fatalf("RecordPosition: %v", err)
		}
	}

	if n := len(env.recorder.OfType(event.TypePositionUpdated)); n != 4 {
		t.Errorf("expected 4 PositionUpdated events, got %d", n)
	}
}
