package domain

// Launch parameter limits enforced at creation. They hold for a launch's
// entire lifetime; no update path exists.
const (
	MaxDevAllocationBps = 1000 // 10%
	MinDevVestingDays   = 180
	MinLpLockDays       = 365
	MaxNameLen          = 32
	MaxSymbolLen        = 10
)

// LaunchStatus represents a launch's lifecycle state.
type LaunchStatus string

const (
	StatusPending   LaunchStatus = "PENDING"
	StatusActive    LaunchStatus = "ACTIVE"
	StatusGraduated LaunchStatus = "GRADUATED"
	StatusFailed    LaunchStatus = "FAILED"
)

// String returns the string representation of LaunchStatus.
func (s LaunchStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid value.
func (s LaunchStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusGraduated, StatusFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status transition is legal.
// Pending may activate or fail; Active may graduate or fail.
func (s LaunchStatus) CanTransitionTo(next LaunchStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusActive || next == StatusFailed
	case StatusActive:
		return next == StatusGraduated || next == StatusFailed
	}
	return false
}

// Launch is a token launch with enforced safety settings.
// Corresponds to the launches table in PostgreSQL.
type Launch struct {
	LaunchID         uint64       // sequence id, assigned from protocol.total_launches
	Address          string       // deterministic record address derived from LaunchID
	Creator          string       // creator wallet address
	Name             string       // display name, max 32 chars
	Symbol           string       // ticker symbol, max 10 chars
	TotalSupply      uint64       // total token supply
	DevAllocationBps uint16       // max 1000 (10%)
	DevVestingDays   uint16       // min 180 days
	LpLockDays       uint16       // min 365 days
	HolderRewardsBps uint16       // recommended 500-1500 (5-15%)
	CreatedAt        int64        // Unix timestamp in seconds
	Status           LaunchStatus // PENDING | ACTIVE | GRADUATED | FAILED
	TotalRaised      uint64       // cumulative buy amount across all holders
	HolderCount      uint64       // holders with a nonzero balance entry
}
