package domain

// Position tracks one holder's stake in one launch. Unique per
// (launch, holder) pair; created lazily on first buy, never destroyed.
//
// DiamondRank and MultiplierBps are derived from FirstBuyTimestamp and the
// current time. They are stored for observability but must be recomputed
// before any reward computation; stored values are never trusted.
type Position struct {
	Address               string      // deterministic record address derived from (launch, holder)
	Launch                string      // launch record address
	Holder                string      // holder wallet address
	Balance               uint64      // monotonic non-decreasing; no sell path is modeled
	FirstBuyTimestamp     int64       // set when balance first becomes nonzero (seconds)
	LastActivityTimestamp int64       // updated on every buy (seconds)
	LastClaimTimestamp    int64       // updated on every claim (seconds)
	DiamondRank           DiamondRank // cached derived rank
	MultiplierBps         uint16      // cached reward multiplier, bps of 10000
	TotalRewardsClaimed   uint64      // monotonic non-decreasing
}
