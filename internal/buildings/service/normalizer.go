package service

import (
	"math"
	"strconv"
	"strings"
	"time"

	"portfoliobim_backend/internal/buildings/transport"
	"portfoliobim_backend/platform/logger"
)

// DefaultBuildingType is the sentinel category for records without a
// primary building type.
const DefaultBuildingType = "Sonstige"

// canonicalKeys are the raw fields the normalizer overwrites; everything
// else passes through unchanged.
var canonicalKeys = map[string]struct{}{
	"lat": {}, "lon": {}, "name": {}, "address": {},
	"constructionYear": {}, "energyEfficiencyClass": {},
	"primaryTypeOfBuilding": {}, "primaryHeatingType": {}, "parkingSpaces": {},
}

// NormalizeResult is the outcome of one normalization pass. InvalidCount
// reports dropped records; the year bounds seed the filter slider.
type NormalizeResult struct {
	Buildings    []transport.NormalizedBuilding
	InvalidCount int
	MinYear      int
	MaxYear      int
}

// Normalizer maps raw heterogeneous building records into the canonical
// flat shape, rejecting records without valid coordinates.
type Normalizer struct {
	fallbackMinYear int
	log             *logger.Logger
}

// NewNormalizer creates a normalizer. fallbackMinYear seeds the lower year
// bound when no accepted record carries a construction year.
func NewNormalizer(fallbackMinYear int, log *logger.Logger) *Normalizer {
	return &Normalizer{
		fallbackMinYear: fallbackMinYear,
		log:             log,
	}
}

// Normalize processes the full raw set. Records lacking parseable, finite
// coordinates are dropped and counted, never fatal.
func (n *Normalizer) Normalize(raw []transport.RawBuilding) NormalizeResult {
	result := NormalizeResult{
		Buildings: make([]transport.NormalizedBuilding, 0, len(raw)),
	}

	var years []int

	for _, record := range raw {
		building, ok := n.normalizeOne(record)
		if !ok {
			result.InvalidCount++
			n.log.Warn("building has no valid coordinates", "name", record["name"])
			continue
		}

		result.Buildings = append(result.Buildings, building)
		if building.ConstructionYear != nil {
			years = append(years, *building.ConstructionYear)
		}
	}

	result.MinYear, result.MaxYear = n.yearBounds(years)

	if result.InvalidCount > 0 {
		n.log.Info("buildings dropped for missing coordinates", "count", result.InvalidCount)
	}

	return result
}

func (n *Normalizer) normalizeOne(record transport.RawBuilding) (transport.NormalizedBuilding, bool) {
	address, _ := record["address"].(map[string]any)
	geo, _ := address["geoCoordinate"].(map[string]any)

	lat, latOK := toFloat(geo["latitude"])
	lon, lonOK := toFloat(geo["longitude"])
	if !latOK || !lonOK {
		return transport.NormalizedBuilding{}, false
	}

	building := transport.NormalizedBuilding{
		Lat:                   lat,
		Lon:                   lon,
		Name:                  stringOrEmpty(record["name"]),
		Address:               formatAddress(address),
		ConstructionYear:      toYear(record["constructionYear"]),
		EnergyEfficiencyClass: toStringPtr(record["energyEfficiencyClass"]),
		PrimaryTypeOfBuilding: defaultIfBlank(stringOrEmpty(record["primaryTypeOfBuilding"]), DefaultBuildingType),
		PrimaryHeatingType:    toStringPtr(record["primaryHeatingType"]),
		ParkingSpaces:         record["parkingSpaces"],
		Extra:                 make(map[string]any),
	}

	for k, v := range record {
		if _, canonical := canonicalKeys[k]; canonical {
			continue
		}
		building.Extra[k] = v
	}

	return building, true
}

func (n *Normalizer) yearBounds(years []int) (int, int) {
	if len(years) == 0 {
		return n.fallbackMinYear, time.Now().Year()
	}

	minYear, maxYear := years[0], years[0]
	for _, y := range years[1:] {
		if y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}
	return minYear, maxYear
}

// formatAddress builds the canonical address string: street, house number,
// postal code, city, country with empty defaults, repeated whitespace
// collapsed, trimmed.
func formatAddress(address map[string]any) string {
	formatted := stringOrEmpty(address["streetName"]) + " " +
		stringOrEmpty(address["houseNumber"]) + ", " +
		stringOrEmpty(address["postalCode"]) + ", " +
		stringOrEmpty(address["city"]) + ", " +
		stringOrEmpty(address["country"])

	return strings.TrimSpace(strings.Join(strings.Fields(formatted), " "))
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch value := v.(type) {
	case float64:
		f = value
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toYear(v any) *int {
	switch value := v.(type) {
	case float64:
		year := int(value)
		return &year
	case string:
		year, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil
		}
		return &year
	default:
		return nil
	}
}

func toStringPtr(v any) *string {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func stringOrEmpty(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return ""
	}
}

func defaultIfBlank(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
