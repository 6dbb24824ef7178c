package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"portfoliobim_backend/internal/buildings/transport"
	"portfoliobim_backend/internal/events"
	"portfoliobim_backend/platform/logger"
)

// idFieldNames are the conventional field names probed, in order, to find
// an external building id for remote sync.
var idFieldNames = []string{"id", "buildingId", "uuid", "guid", "externalId"}

// RemoteSink pushes a user-submitted overlay to the remote attribute store.
type RemoteSink interface {
	PushAttributes(ctx context.Context, buildingID string, attributes map[string]any) error
}

// Overlay maintains the per-building local attribute overlays and computes
// the merged three-layer attribute view. Local state is authoritative: a
// failed remote sync never rolls a local merge back.
type Overlay struct {
	mu      sync.RWMutex
	records map[string]map[string]any
	sink    RemoteSink
	bus     events.Bus
	log     *logger.Logger
}

// NewOverlay creates an empty overlay store. Overlays are session scoped;
// they reset with the process.
func NewOverlay(sink RemoteSink, bus events.Bus, log *logger.Logger) *Overlay {
	return &Overlay{
		records: make(map[string]map[string]any),
		sink:    sink,
		bus:     bus,
		log:     log,
	}
}

// buildingKey derives the stable overlay key for a working-set index.
func buildingKey(index int) string {
	return fmt.Sprintf("building-%d", index)
}

// Merged computes the attribute view for a building: base fields (minus
// the additionalAttributes sub-object), then the record's own
// additionalAttributes, then the local overlay. Later layers overwrite
// same-named keys.
func (o *Overlay) Merged(index int, building transport.NormalizedBuilding) map[string]any {
	merged := building.Attributes()

	additional, _ := merged["additionalAttributes"].(map[string]any)
	delete(merged, "additionalAttributes")

	for k, v := range additional {
		merged[k] = v
	}

	o.mu.RLock()
	local := o.records[buildingKey(index)]
	o.mu.RUnlock()

	for k, v := range local {
		merged[k] = v
	}

	return merged
}

// Save merges attributes into the local overlay for the building index
// (always succeeds), then best-effort pushes them to the remote store when
// an external id is resolvable. The remote outcome is reported separately
// and never affects the local merge.
func (o *Overlay) Save(ctx context.Context, index int, building transport.NormalizedBuilding, attributes map[string]any) transport.SaveResult {
	key := buildingKey(index)

	o.mu.Lock()
	record := o.records[key]
	if record == nil {
		record = make(map[string]any, len(attributes))
		o.records[key] = record
	}
	for k, v := range attributes {
		record[k] = v
	}
	o.mu.Unlock()

	result := transport.SaveResult{Local: "applied"}

	externalID := resolveExternalID(building)
	switch {
	case externalID == "" || len(attributes) == 0:
		result.Remote = transport.RemoteSkipped
		o.log.Debug("remote attribute sync skipped", "buildingKey", key)
	default:
		if err := o.sink.PushAttributes(ctx, externalID, attributes); err != nil {
			result.Remote = transport.RemoteFailed
			result.RemoteError = err.Error()
			o.log.Warn("remote attribute sync failed, local overlay kept",
				"buildingKey", key, "buildingId", externalID, "error", err)
		} else {
			result.Remote = transport.RemoteSynced
		}
	}

	if o.bus != nil {
		o.bus.Publish(ctx, events.BuildingAttributesSaved{
			BaseEvent:    events.NewBaseEvent(),
			BuildingKey:  key,
			ExternalID:   externalID,
			RemoteStatus: result.Remote,
		})
	}

	return result
}

// Get returns the local overlay for a building index, or an empty map.
func (o *Overlay) Get(index int) map[string]any {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make(map[string]any, len(o.records[buildingKey(index)]))
	for k, v := range o.records[buildingKey(index)] {
		out[k] = v
	}
	return out
}

// Clear removes the local overlay for a building index.
func (o *Overlay) Clear(index int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.records, buildingKey(index))
}

// resolveExternalID probes the conventional id field names on the record.
// An empty result means attribute edits stay local-only.
func resolveExternalID(building transport.NormalizedBuilding) string {
	for _, field := range idFieldNames {
		switch value := building.Extra[field].(type) {
		case string:
			if value != "" {
				return value
			}
		case float64:
			return strconv.FormatFloat(value, 'f', -1, 64)
		}
	}
	return ""
}
