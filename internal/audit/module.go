// Package audit subscribes to domain events and writes them to the
// structured log. It is not HTTP-facing; it exists so that pipeline
// activity (geocode batches, refreshes, attribute saves) leaves an
// operator-visible trail.
package audit

import (
	"context"

	"portfoliobim_backend/internal/events"
	"portfoliobim_backend/platform/logger"
)

// Module logs domain events as they occur.
type Module struct {
	log *logger.Logger
}

// New creates the audit module.
func New(log *logger.Logger) *Module {
	return &Module{log: log}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.GeocodeBatchCompleted{}.EventName(), m)
	bus.Subscribe(events.BuildingsRefreshed{}.EventName(), m)
	bus.Subscribe(events.BuildingAttributesSaved{}.EventName(), m)

	m.log.Info("audit module registered event handlers")
}

// Handle routes events to the appropriate log line.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.GeocodeBatchCompleted:
		m.log.Info("geocode batch completed",
			"requested", e.Requested,
			"resolved", e.Resolved,
			"liveCalls", e.LiveCalls,
		)
	case events.BuildingsRefreshed:
		m.log.Info("building working set refreshed",
			"accepted", e.Accepted,
			"invalid", e.Invalid,
		)
	case events.BuildingAttributesSaved:
		m.log.Info("building attributes saved",
			"buildingKey", e.BuildingKey,
			"externalId", e.ExternalID,
			"remoteStatus", e.RemoteStatus,
		)
	default:
		m.log.Debug("unhandled event", "event", event.EventName())
	}
	return nil
}
