package service

import (
	"sort"
	"sync"

	"portfoliobim_backend/internal/buildings/transport"
)

// UnknownClassSentinel stands in for records without an efficiency class.
const UnknownClassSentinel = "k.A."

// rawUnknownMarker is the literal value some source records carry instead
// of a proper class; it is treated the same as a missing class.
const rawUnknownMarker = "k"

// DefaultEfficiencyClasses is the initial accepted set: every known class
// plus the unknown sentinel.
var DefaultEfficiencyClasses = []string{"A", "B", "C", "D", "E", "F", UnknownClassSentinel}

// FilterEngine holds the current filter predicate state. It keeps no
// incremental index: every mutation recomputes the visible subset from the
// complete normalized list via Apply.
type FilterEngine struct {
	mu       sync.RWMutex
	minYear  int
	accepted map[string]struct{}
}

// NewFilterEngine creates an engine accepting every efficiency class and
// the given minimum year.
func NewFilterEngine(minYear int) *FilterEngine {
	accepted := make(map[string]struct{}, len(DefaultEfficiencyClasses))
	for _, class := range DefaultEfficiencyClasses {
		accepted[class] = struct{}{}
	}
	return &FilterEngine{
		minYear:  minYear,
		accepted: accepted,
	}
}

// SetMinYear updates the year threshold.
func (f *FilterEngine) SetMinYear(minYear int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.minYear = minYear
}

// SetAcceptedClasses replaces the accepted efficiency class set.
func (f *FilterEngine) SetAcceptedClasses(classes []string) {
	accepted := make(map[string]struct{}, len(classes))
	for _, class := range classes {
		accepted[class] = struct{}{}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.accepted = accepted
}

// State returns a snapshot of the current predicate.
func (f *FilterEngine) State() transport.FilterState {
	f.mu.RLock()
	defer f.mu.RUnlock()

	classes := make([]string, 0, len(f.accepted))
	for class := range f.accepted {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	return transport.FilterState{
		MinYear:         f.minYear,
		AcceptedClasses: classes,
	}
}

// Apply evaluates the predicate against the full list and returns the
// visible subset. Pure: identical state and input always yield identical
// output, order preserved, input untouched.
func (f *FilterEngine) Apply(buildings []transport.NormalizedBuilding) []transport.NormalizedBuilding {
	f.mu.RLock()
	minYear := f.minYear
	accepted := f.accepted
	f.mu.RUnlock()

	visible := make([]transport.NormalizedBuilding, 0, len(buildings))
	for _, b := range buildings {
		if yearMatch(b, minYear) && efficiencyMatch(b, accepted) {
			visible = append(visible, b)
		}
	}
	return visible
}

// yearMatch: records without a construction year are always visible.
func yearMatch(b transport.NormalizedBuilding, minYear int) bool {
	return b.ConstructionYear == nil || *b.ConstructionYear >= minYear
}

// efficiencyMatch: a missing class (or the raw unknown marker) matches iff
// the unknown sentinel is accepted; otherwise the literal class must be.
func efficiencyMatch(b transport.NormalizedBuilding, accepted map[string]struct{}) bool {
	if b.EnergyEfficiencyClass == nil || *b.EnergyEfficiencyClass == rawUnknownMarker {
		_, ok := accepted[UnknownClassSentinel]
		return ok
	}
	_, ok := accepted[*b.EnergyEfficiencyClass]
	return ok
}
