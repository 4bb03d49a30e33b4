package domain

// MaxEvidenceLen bounds the free-text evidence attached to a flagged wallet.
const MaxEvidenceLen = 256

// Bundler is a wallet flagged for coordinated manipulative buying.
// One record per wallet; repeat flags bump IncidentCount.
type Bundler struct {
	Wallet        string // flagged wallet address
	FlaggedAt     int64  // Unix timestamp of the most recent flag (seconds)
	Evidence      string // free text, max 256 chars
	IncidentCount uint32 // number of times this wallet was flagged
}
