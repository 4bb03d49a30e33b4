package domain

// ProtocolEvent is one notification emitted by a ledger operation, in the
// shape it is archived. Corresponds to the protocol_events table in ClickHouse.
type ProtocolEvent struct {
	EventType string // LAUNCH_CREATED | POSITION_UPDATED | REWARDS_CLAIMED | BUNDLER_FLAGGED
	Subject   string // address of the record the event is about
	Payload   string // JSON-encoded event payload
	EmittedAt int64  // Unix timestamp in seconds
}
