// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"portfoliobim_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Geocode Domain Events
// =============================================================================

// GeocodeBatchCompleted is published after a batch of place names has been
// resolved against the cache and the external oracle.
type GeocodeBatchCompleted struct {
	BaseEvent
	Requested int `json:"requested"`
	Resolved  int `json:"resolved"`
	LiveCalls int `json:"liveCalls"`
}

func (e GeocodeBatchCompleted) EventName() string { return "geocode.batch.completed" }

// =============================================================================
// Buildings Domain Events
// =============================================================================

// BuildingsRefreshed is published when the normalized working set has been
// rebuilt from the upstream portfolio source.
type BuildingsRefreshed struct {
	BaseEvent
	Accepted int `json:"accepted"`
	Invalid  int `json:"invalid"`
}

func (e BuildingsRefreshed) EventName() string { return "buildings.refreshed" }

// BuildingAttributesSaved is published after a user-submitted attribute
// overlay has been merged locally. RemoteStatus reflects the best-effort
// push to the portfolio source: "synced", "failed" or "skipped".
type BuildingAttributesSaved struct {
	BaseEvent
	BuildingKey  string `json:"buildingKey"`
	ExternalID   string `json:"externalId,omitempty"`
	RemoteStatus string `json:"remoteStatus"`
}

func (e BuildingAttributesSaved) EventName() string { return "buildings.attributes.saved" }
