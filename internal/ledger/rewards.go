package ledger

import (
	"context"
	"fmt"
	"time"

	"diamondpad/internal/domain"
	"diamondpad/internal/event"
	"diamondpad/internal/observability"
	"diamondpad/internal/rank"
)

// baseRewardDivisor gives the 1% base reward rate: base = balance / 100,
// integer division, remainder dropped.
const baseRewardDivisor = 100

// ClaimRewards computes and records a reward claim for holder's position in
// the given launch. holder is the pre-verified caller identity. Returns the
// claimed amount and the updated position.
//
// Rank and multiplier are recomputed from first_buy_timestamp and the
// current clock on every claim; the cached values on the record are never
// trusted. Claims are computed, not funded: nothing here checks a reward
// pool balance, and a deployment moving real value must bolt a
// funding-availability check in front of this operation.
func (s *Service) ClaimRewards(ctx context.Context, launchID uint64, holder string) (amount uint64, p *domain.Position, err error) {
	defer s.observe("claim_rewards", time.Now(), &err)

	unlock := s.locks.lockLaunch(launchID)
	defer unlock()

	l, err := s.launches.GetByID(ctx, launchID)
	if err != nil {
		return 0, nil, fmt.Errorf("get launch: %w", err)
	}

	p, err = s.positions.Get(ctx, l.Address, holder)
	if err != nil {
		return 0, nil, fmt.Errorf("get position: %w", err)
	}

	now := s.clock.Now()

	tier := rank.Tier(p.FirstBuyTimestamp, now)
	multiplier := rank.MultiplierBps(tier)

	base := p.Balance / baseRewardDivisor
	boosted, err := mulDivBps(base, multiplier)
	if err != nil {
		return 0, nil, fmt.Errorf("boosted rewards: %w", err)
	}
	newTotal, err := checkedAdd(p.TotalRewardsClaimed, boosted)
	if err != nil {
		return 0, nil, fmt.Errorf("total rewards claimed: %w", err)
	}

	p.DiamondRank = tier
	p.MultiplierBps = multiplier
	p.TotalRewardsClaimed = newTotal
	p.LastClaimTimestamp = now

	if err := s.positions.Update(ctx, p); err != nil {
		return 0, nil, fmt.Errorf("write position: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"launch_id": launchID,
		"holder":    holder,
		"amount":    boosted,
		"rank":      tier,
	}).Debug("rewards claimed")

	observability.RecordClaim(boosted)
	s.emit(ctx, event.NewRewardsClaimed(p, boosted, now))
	return boosted, p, nil
}
