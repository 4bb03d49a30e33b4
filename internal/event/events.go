// Package event defines the notification events emitted by ledger operations
// and the channels that deliver them to observers.
package event

import "diamondpad/internal/domain"

// Event types as they appear on the wire and in the archive.
const (
	TypeLaunchCreated   = "LAUNCH_CREATED"
	TypePositionUpdated = "POSITION_UPDATED"
	TypeRewardsClaimed  = "REWARDS_CLAIMED"
	TypeBundlerFlagged  = "BUNDLER_FLAGGED"
)

// Event is a single notification. Subject is the address of the record the
// event is about. Payload is one of the payload structs below.
type Event struct {
	Type      string      `json:"type"`
	Subject   string      `json:"subject"`
	EmittedAt int64       `json:"emitted_at"`
	Payload   interface{} `json:"payload"`
}

// LaunchCreated is emitted once per successful launch registration.
type LaunchCreated struct {
	LaunchID         uint64 `json:"launch_id"`
	Creator          string `json:"creator"`
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	TotalSupply      uint64 `json:"total_supply"`
	DevAllocationBps uint16 `json:"dev_allocation_bps"`
	DevVestingDays   uint16 `json:"dev_vesting_days"`
}

// PositionUpdated is emitted after every recorded buy.
type PositionUpdated struct {
	Holder        string             `json:"holder"`
	Launch        string             `json:"launch"`
	Balance       uint64             `json:"balance"`
	DiamondRank   domain.DiamondRank `json:"diamond_rank"`
	MultiplierBps uint16             `json:"multiplier_bps"`
}

// RewardsClaimed is emitted after a successful claim.
type RewardsClaimed struct {
	Holder        string             `json:"holder"`
	Launch        string             `json:"launch"`
	Amount        uint64             `json:"amount"`
	DiamondRank   domain.DiamondRank `json:"diamond_rank"`
	MultiplierBps uint16             `json:"multiplier_bps"`
}

// BundlerFlagged is emitted when the authority flags a wallet.
type BundlerFlagged struct {
	Wallet   string `json:"wallet"`
	Evidence string `json:"evidence"`
}

// NewLaunchCreated builds the event for a freshly registered launch.
func NewLaunchCreated(l *domain.Launch) Event {
	return Event{
		Type:      TypeLaunchCreated,
		Subject:   l.Address,
		EmittedAt: l.CreatedAt,
		Payload: LaunchCreated{
			LaunchID:         l.LaunchID,
			Creator:          l.Creator,
			Name:             l.Name,
			Symbol:           l.Symbol,
			TotalSupply:      l.TotalSupply,
			DevAllocationBps: l.DevAllocationBps,
			DevVestingDays:   l.DevVestingDays,
		},
	}
}

// NewPositionUpdated builds the event for a recorded buy.
func NewPositionUpdated(p *domain.Position, now int64) Event {
	return Event{
		Type:      TypePositionUpdated,
		Subject:   p.Address,
		EmittedAt: now,
		Payload: PositionUpdated{
			Holder:        p.Holder,
			Launch:        p.Launch,
			Balance:       p.Balance,
			DiamondRank:   p.DiamondRank,
			MultiplierBps: p.MultiplierBps,
		},
	}
}

// NewRewardsClaimed builds the event for a successful claim.
func NewRewardsClaimed(p *domain.Position, amount uint64, now int64) Event {
	return Event{
		Type:      TypeRewardsClaimed,
		Subject:   p.Address,
		EmittedAt: now,
		Payload: RewardsClaimed{
			Holder:        p.Holder,
			Launch:        p.Launch,
			Amount:        amount,
			DiamondRank:   p.DiamondRank,
			MultiplierBps: p.MultiplierBps,
		},
	}
}

// NewBundlerFlagged builds the event for a flagged wallet.
func NewBundlerFlagged(b *domain.Bundler) Event {
	return Event{
		Type:      TypeBundlerFlagged,
		Subject:   b.Wallet,
		EmittedAt: b.FlaggedAt,
		Payload: BundlerFlagged{
			Wallet:   b.Wallet,
			Evidence: b.Evidence,
		},
	}
}
