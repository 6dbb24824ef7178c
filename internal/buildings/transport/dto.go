// Package transport defines the wire-level types of the buildings module:
// the raw upstream record shape, the normalized canonical record, and the
// request/response DTOs of the dashboard endpoints.
package transport

import "encoding/json"

// RawBuilding is an opaque, heterogeneous record as returned by the
// portfolio source. Address and geo fields may be nested arbitrarily and
// an "additionalAttributes" sub-object may be present.
type RawBuilding map[string]any

// NormalizedBuilding is the canonical flat record. Lat and Lon are always
// valid floats; every instance derives from exactly one RawBuilding whose
// coordinates parsed successfully. Extra carries the untyped pass-through
// fields so downstream consumers see arbitrary source attributes.
type NormalizedBuilding struct {
	Lat                   float64
	Lon                   float64
	Name                  string
	Address               string
	ConstructionYear      *int
	EnergyEfficiencyClass *string
	PrimaryTypeOfBuilding string
	PrimaryHeatingType    *string
	ParkingSpaces         any
	Extra                 map[string]any
}

// Attributes flattens the record into a single attribute map: pass-through
// fields first, canonical fields overwriting same-named keys. This is the
// shape the original source record is presented in everywhere downstream.
func (b NormalizedBuilding) Attributes() map[string]any {
	out := make(map[string]any, len(b.Extra)+9)
	for k, v := range b.Extra {
		out[k] = v
	}
	out["lat"] = b.Lat
	out["lon"] = b.Lon
	out["name"] = b.Name
	out["address"] = b.Address
	out["constructionYear"] = nilOr(b.ConstructionYear)
	out["energyEfficiencyClass"] = nilOr(b.EnergyEfficiencyClass)
	out["primaryTypeOfBuilding"] = b.PrimaryTypeOfBuilding
	out["primaryHeatingType"] = nilOr(b.PrimaryHeatingType)
	out["parkingSpaces"] = b.ParkingSpaces
	return out
}

// MarshalJSON renders the flattened attribute view.
func (b NormalizedBuilding) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Attributes())
}

func nilOr[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// FilterState is the dashboard's current filter predicate.
type FilterState struct {
	MinYear         int      `json:"minYear"`
	AcceptedClasses []string `json:"acceptedClasses"`
}

// YearRange bounds the construction-year slider.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// BuildingsResponse is the working-set payload.
type BuildingsResponse struct {
	Buildings    []NormalizedBuilding `json:"buildings"`
	InvalidCount int                  `json:"invalidCount"`
	YearRange    YearRange            `json:"yearRange"`
}

// UpdateFilterRequest mutates the filter state. A nil MinYear keeps the
// current value; a nil AcceptedClasses slice keeps the current set.
type UpdateFilterRequest struct {
	MinYear         *int     `json:"minYear" validate:"omitempty,gte=0,lte=9999"`
	AcceptedClasses []string `json:"acceptedClasses" validate:"omitempty,dive,required"`
}

// FilteredResponse is the visible subset after a filter recompute.
type FilteredResponse struct {
	Filter    FilterState          `json:"filter"`
	Buildings []NormalizedBuilding `json:"buildings"`
}

// SaveAttributesRequest carries a user-submitted attribute overlay.
type SaveAttributesRequest struct {
	Attributes map[string]any `json:"attributes" binding:"required"`
}

// Remote sync outcomes for SaveResult.
const (
	RemoteSynced  = "synced"
	RemoteFailed  = "failed"
	RemoteSkipped = "skipped"
)

// SaveResult distinguishes the always-successful local merge from the
// best-effort remote sync, so callers can observe both independently.
type SaveResult struct {
	Local       string `json:"local"`
	Remote      string `json:"remote"`
	RemoteError string `json:"remoteError,omitempty"`
}
