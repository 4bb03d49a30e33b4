package ledger

import (
	"context"
	"fmt"
	"time"

	"diamondpad/internal/domain"
	"diamondpad/internal/event"
	"diamondpad/internal/observability"
)

// FlagBundler records wallet as a flagged bundler. Only the protocol
// authority may flag. The first flag creates the record with incident_count
// 1 and bumps protocol.total_bundlers_caught; a repeat flag increments
// incident_count and refreshes flagged_at and evidence, but does not touch
// the protocol counter again — one wallet counts as one bundler caught.
func (s *Service) FlagBundler(ctx context.Context, authority, wallet, evidence string) (b *domain.Bundler, err error) {
	defer s.observe("flag_bundler", time.Now(), &err)

	unlock := s.locks.lock(protocolKey)
	defer unlock()

	if wallet == "" {
		return nil, &ValidationError{Field: "wallet", Reason: "must not be empty"}
	}
	if len(evidence) > domain.MaxEvidenceLen {
		return nil, &ValidationError{
			Field:  "evidence",
			Reason: fmt.Sprintf("length %d exceeds maximum %d", len(evidence), domain.MaxEvidenceLen),
		}
	}

	protocol, err := s.getProtocol(ctx)
	if err != nil {
		return nil, err
	}
	if authority != protocol.Authority {
		return nil, ErrUnauthorized
	}

	now := s.clock.Now()

	repeat := false
	b, err = s.bundlers.Get(ctx, wallet)
	if err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("get bundler: %w", err)
		}
		b = &domain.Bundler{
			Wallet:        wallet,
			FlaggedAt:     now,
			Evidence:      evidence,
			IncidentCount: 1,
		}
		if err := s.bundlers.Insert(ctx, b); err != nil {
			return nil, fmt.Errorf("insert bundler: %w", err)
		}
		protocol.TotalBundlersCaught++
		if err := s.protocol.Update(ctx, protocol); err != nil {
			return nil, fmt.Errorf("update protocol counters: %w", err)
		}
	} else {
		repeat = true
		b.IncidentCount++
		b.FlaggedAt = now
		b.Evidence = evidence
		if err := s.bundlers.Update(ctx, b); err != nil {
			return nil, fmt.Errorf("update bundler: %w", err)
		}
	}

	s.log.WithFields(map[string]interface{}{
		"wallet":         wallet,
		"incident_count": b.IncidentCount,
		"repeat":         repeat,
	}).Info("bundler flagged")

	observability.RecordBundlerFlagged(repeat)
	s.emit(ctx, event.NewBundlerFlagged(b))
	return b, nil
}
