package domain

// DiamondRank is a holder's loyalty classification, derived solely from
// continuous holding duration.
type DiamondRank string

const (
	RankPaper    DiamondRank = "PAPER"
	RankBronze   DiamondRank = "BRONZE"
	RankSilver   DiamondRank = "SILVER"
	RankGold     DiamondRank = "GOLD"
	RankPlatinum DiamondRank = "PLATINUM"
	RankDiamond  DiamondRank = "DIAMOND"
)

// rankOrder defines the total ordering Paper < Bronze < Silver < Gold < Platinum < Diamond.
var rankOrder = map[DiamondRank]int{
	RankPaper:    0,
	RankBronze:   1,
	RankSilver:   2,
	RankGold:     3,
	RankPlatinum: 4,
	RankDiamond:  5,
}

// String returns the string representation of DiamondRank.
func (r DiamondRank) String() string {
	return string(r)
}

// IsValid checks if the rank is a valid value.
func (r DiamondRank) IsValid() bool {
	_, ok := rankOrder[r]
	return ok
}

// Order returns the rank's position in the loyalty ordering, Paper being 0.
func (r DiamondRank) Order() int {
	return rankOrder[r]
}
