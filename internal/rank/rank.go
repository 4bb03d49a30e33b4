// Package rank computes loyalty tiers and reward multipliers from holding
// duration. All functions are pure.
package rank

import "diamondpad/internal/domain"

// SecondsPerDay is the day length used for tier truncation.
const SecondsPerDay = 86400

// Tier thresholds in whole days held, inclusive lower bounds.
const (
	DiamondDays  = 180
	PlatinumDays = 90
	GoldDays     = 60
	SilverDays   = 30
	BronzeDays   = 7
)

// DaysHeld returns the whole days between firstBuy and now, truncating
// toward zero. A now earlier than firstBuy yields a negative value, which
// resolves to the lowest tier.
func DaysHeld(firstBuy, now int64) int64 {
	return (now - firstBuy) / SecondsPerDay
}

// Tier maps a holding interval to a loyalty tier. Boundaries are checked in
// descending order so the highest qualifying tier wins.
func Tier(firstBuy, now int64) domain.DiamondRank {
	daysHeld := DaysHeld(firstBuy, now)

	switch {
	case daysHeld >= DiamondDays:
		return domain.RankDiamond
	case daysHeld >= PlatinumDays:
		return domain.RankPlatinum
	case daysHeld >= GoldDays:
		return domain.RankGold
	case daysHeld >= SilverDays:
		return domain.RankSilver
	case daysHeld >= BronzeDays:
		return domain.RankBronze
	default:
		return domain.RankPaper
	}
}

// MultiplierBps returns the fixed reward multiplier for a tier, denominated
// in basis points of 10000 = 1.0x.
func MultiplierBps(rank domain.DiamondRank) uint16 {
	switch rank {
	case domain.RankBronze:
		return 15000 // 1.5x
	case domain.RankSilver:
		return 20000 // 2.0x
	case domain.RankGold:
		return 25000 // 2.5x
	case domain.RankPlatinum:
		return 30000 // 3.0x
	case domain.RankDiamond:
		return 35000 // 3.5x
	default:
		return 10000 // 1.0x
	}
}
