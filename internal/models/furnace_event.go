package models

import "time"

// Event types written to the furnace event log.
const (
	EventRegistered   = "REGISTERED"
	EventUnregistered = "UNREGISTERED"
	EventIgnited      = "IGNITED"
	EventBurnedOut    = "BURNED_OUT"
	EventDeposited    = "DEPOSITED"
	EventExploded     = "EXPLODED"
	EventShutdown     = "SHUTDOWN"
	EventRestart      = "RESTART"
	EventCatalog      = "CATALOG"
)

// FurnaceEvent is a single log entry.
type FurnaceEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
