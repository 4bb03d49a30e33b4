package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"

	"diamondpad/internal/domain"
	"diamondpad/internal/event"
)

func TestFlagBundler(t *testing.T) {
	env := newTestEnv(t)
	env.bootstrap(t)
	ctx := context.Background()

	b, err := env.svc.FlagBundler(ctx, testAuthority, "bad-wallet", "bundled 14 buys in one slot")
	if err != nil {
		t.Fatalf("FlagBundler: %v", err)
	}
	if b.IncidentCount != 1 {
		t.Errorf("expected incident_count 1, got %d", b.IncidentCount)
	}
	if b.FlaggedAt != env.clock.Now() {
		t.Errorf("expected flagged_at %d, got %d", env.clock.Now(), b.FlaggedAt)
	}

	stats, _ := env.svc.Stats(ctx)
	if stats.TotalBundlersCaught != 1 {
		t.Errorf("expected total_bundlers_caught 1, got %d", stats.TotalBundlersCaught)
	}

	events := env.recorder.OfType(event.TypeBundlerFlagged)
	if len(events) != 1 {
		t.Fatalf("expected 1 BundlerFlagged event, got %d", len(events))
	}
	payload := events[0].Payload.(event.BundlerFlagged)
	if payload.Wallet != "bad-wallet" {
		t.Errorf("unexpected event payload %+v", payload)
	}
}

func TestFlagBundler_Repeat(t *testing.T) {
	env := newTestEnv(t)
	env.bootstrap(t)
	ctx := context.Background()

	if _, err := env.svc.FlagBundler(ctx, testAuthority, "bad-wallet", "first incident"); err != nil {
		t.Fatalf("first flag: %v", err)
	}

	env.clock.Advance(3600)

	b, err := env.svc.FlagBundler(ctx, testAuthority, "bad-wallet", "second incident")
	if err != nil {
		t.Fatalf("repeat flag: %v", err)
	}
	if b.IncidentCount != 2 {
		t.Errorf("expected incident_count 2, got %d", b.IncidentCount)
	}
	if b.Evidence != "second incident" {
		t.Errorf("expected refreshed evidence, got %q", b.Evidence)
	}
	if b.FlaggedAt != env.clock.Now() {
		t.Errorf("expected refreshed flagged_at %d, got %d", env.clock.Now(), b.FlaggedAt)
	}

	// One wallet counts once regardless of repeats
	stats, _ := env.svc.Stats(ctx)
	if stats.TotalBundlersCaught != 1 {
		t.Errorf("expected total_bundlers_caught 1 after repeat, got %d", stats.TotalBundlersCaught)
	}
}

func TestFlagBundler_Unauthorized(t *testing.T) {
	env := newTestEnv(t)
	env.bootstrap(t)
	ctx := context.Background()

	_, err := env.svc.FlagBundler(ctx, "random-wallet", "bad-wallet", "evidence")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	flagged, _ := env.svc.IsFlagged(ctx, "bad-wallet")
	if flagged {
		t.Error("wallet flagged by unauthorized caller")
	}
	stats, _ := env.svc.Stats(ctx)
	if stats.TotalBundlersCaught != 0 {
		t.Errorf("counter mutated by unauthorized call: %d", stats.TotalBundlersCaught)
	}
}

func TestFlagBundler_EvidenceTooLong(t *testing.T) {
	env := newTestEnv(t)
	env.bootstrap(t)
	ctx := context.Background()

	evidence := strings.Repeat("x", domain.MaxEvidenceLen+1)
	_, err := env.svc.FlagBundler(ctx, testAuthority, "bad-wallet", evidence)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "evidence" {
		t.Errorf("expected evidence ValidationError, got %v", err)
	}

	// Exactly at the limit is accepted
	evidence = strings.Repeat("x", domain.MaxEvidenceLen)
	if _, err := env.svc.FlagBundler(ctx, testAuthority, "bad-wallet", evidence); err != nil {
		t.Errorf("expected max-length evidence accepted, got %v", err)
	}
}

func TestIsFlagged(t *testing.T) {
	env := newTestEnv(t)
	env.bootstrap(t)
	ctx := context.Background()

	flagged, err := env.svc.IsFlagged(ctx, "clean-wallet")
	if err != nil {
		t.Fatalf("IsFlagged: %v", err)
	}
	if flagged {
		t.Error("unflagged wallet reported as flagged")
	}

	if _, err := env.svc.FlagBundler(ctx, testAuthority, "bad-wallet", "e"); err != nil {
		t.Fatalf("FlagBundler: %v", err)
	}

	flagged, err = env.svc.IsFlagged(ctx, "bad-wallet")
	if err != nil {
		t.Fatalf("IsFlagged: %v", err)
	}
	if !flagged {
		t.Error("flagged wallet reported as clean")
	}
}
