package domain

// Protocol is the singleton protocol record: administrative identity plus
// process-wide counters. Created once at bootstrap, mutated by every
// launch/flag operation, never destroyed.
type Protocol struct {
	Address             string // singleton record address
	Authority           string // administrative wallet address
	TotalLaunches       uint64 // also the next launch_id to assign
	TotalHolders        uint64 // incremented on every new-holder event
	TotalBundlersCaught uint64 // one per distinct flagged wallet
	CreatedAt           int64  // Unix timestamp in seconds
}
