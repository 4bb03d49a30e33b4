package ledger

import (
	"context"
	"fmt"
	"time"

	"diamondpad/internal/addr"
	"diamondpad/internal/domain"
	"diamondpad/internal/event"
	"diamondpad/internal/observability"
	"diamondpad/internal/rank"
)

// RecordPosition records a buy of amount tokens by holder against the given
// launch. The position is created lazily on first buy. A buy against a
// zero-balance position is a new-holder event: it sets first_buy_timestamp
// and bumps launch.holder_count and protocol.total_holders.
//
// All arithmetic is checked before any record is written; an overflow aborts
// the operation with every record unchanged.
func (s *Service) RecordPosition(ctx context.Context, launchID uint64, holder string, amount uint64) (p *domain.Position, err error) {
	defer s.observe("record_position", time.Now(), &err)

	unlock := s.locks.lockLaunch(launchID)
	defer unlock()

	if amount == 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if holder == "" {
		return nil, &ValidationError{Field: "holder", Reason: "must not be empty"}
	}

	l, err := s.launches.GetByID(ctx, launchID)
	if err != nil {
		return nil, fmt.Errorf("get launch: %w", err)
	}

	now := s.clock.Now()

	created := false
	p, err = s.positions.Get(ctx, l.Address, holder)
	if err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("get position: %w", err)
		}
		created = true
		p = &domain.Position{
			Address: addr.PositionAddress(l.Address, holder),
			Launch:  l.Address,
			Holder:  holder,
		}
	}

	// A zero balance means new holder, whether the record is fresh or a
	// previous holder fully exited. Only then does the tier clock reset.
	newHolder := p.Balance == 0

	newBalance, err := checkedAdd(p.Balance, amount)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	newRaised, err := checkedAdd(l.TotalRaised, amount)
	if err != nil {
		return nil, fmt.Errorf("total raised: %w", err)
	}

	var protocol *domain.Protocol
	if newHolder {
		unlockProtocol := s.locks.lock(protocolKey)
		defer unlockProtocol()

		protocol, err = s.getProtocol(ctx)
		if err != nil {
			return nil, err
		}
		p.FirstBuyTimestamp = now
		l.HolderCount++
		protocol.TotalHolders++
	}

	p.Balance = newBalance
	p.LastActivityTimestamp = now
	p.DiamondRank = rank.Tier(p.FirstBuyTimestamp, now)
	p.MultiplierBps = rank.MultiplierBps(p.DiamondRank)
	l.TotalRaised = newRaised

	if created {
		err = s.positions.Insert(ctx, p)
	} else {
		err = s.positions.Update(ctx, p)
	}
	if err != nil {
		return nil, fmt.Errorf("write position: %w", err)
	}

	if err := s.launches.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("update launch: %w", err)
	}
	if protocol != nil {
		if err := s.protocol.Update(ctx, protocol); err != nil {
			return nil, fmt.Errorf("update protocol counters: %w", err)
		}
	}

	s.log.WithFields(map[string]interface{}{
		"launch_id":  launchID,
		"holder":     holder,
		"amount":     amount,
		"balance":    p.Balance,
		"rank":       p.DiamondRank,
		"new_holder": newHolder,
	}).Debug("position recorded")

	observability.RecordPositionUpdate(newHolder)
	s.emit(ctx, event.NewPositionUpdated(p, now))
	return p, nil
}
