// Package service implements the data-resolution pipeline of the buildings
// dashboard: normalization, filtering and attribute overlays over the
// upstream portfolio records, plus city geocoding orchestration.
package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"portfoliobim_backend/internal/buildings/transport"
	"portfoliobim_backend/internal/events"
	"portfoliobim_backend/internal/geocode"
	"portfoliobim_backend/platform/apperr"
	"portfoliobim_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// Source is the upstream portfolio backend.
type Source interface {
	FetchBuildings(ctx context.Context) ([]transport.RawBuilding, error)
	FetchCityNames(ctx context.Context) ([]string, error)
}

// CityResolver resolves place names to coordinates (cache-first, rate
// limited, strictly sequential).
type CityResolver interface {
	Resolve(ctx context.Context, names []string) []geocode.ResolvedPlace
}

// SchemaProperty is a property descriptor from the schema source, annotated
// with the caller's access right ("read" or "write").
type SchemaProperty struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Example     string `json:"example,omitempty"`
	AccessRight string `json:"accessRight"`
}

// SchemaSource supplies the annotated class properties. Implementations
// degrade to an empty list on upstream failure.
type SchemaSource interface {
	Properties(ctx context.Context) []SchemaProperty
}

// Service owns the dashboard session state: the normalized working set,
// the filter engine, the attribute overlays and the resolved city list.
type Service struct {
	source     Source
	normalizer *Normalizer
	filter     *FilterEngine
	overlay    *Overlay
	resolver   CityResolver
	schema     SchemaSource
	bus        events.Bus
	log        *logger.Logger

	mu           sync.RWMutex
	working      []transport.NormalizedBuilding
	invalidCount int
	yearRange    transport.YearRange
	cityNames    []string
	loaded       bool
}

// New creates the dashboard service.
func New(source Source, normalizer *Normalizer, filter *FilterEngine, overlay *Overlay, resolver CityResolver, schema SchemaSource, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		source:     source,
		normalizer: normalizer,
		filter:     filter,
		overlay:    overlay,
		resolver:   resolver,
		schema:     schema,
		bus:        bus,
		log:        log,
	}
}

// Buildings returns the normalized working set, refreshing from upstream
// on first use or when forced.
func (s *Service) Buildings(ctx context.Context, force bool) (transport.BuildingsResponse, error) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if !loaded || force {
		if err := s.refresh(ctx); err != nil {
			return transport.BuildingsResponse{}, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return transport.BuildingsResponse{
		Buildings:    s.working,
		InvalidCount: s.invalidCount,
		YearRange:    s.yearRange,
	}, nil
}

// refresh refetches buildings and city names concurrently, then rebuilds
// the normalized working set and reseeds the filter's year threshold.
func (s *Service) refresh(ctx context.Context) error {
	var (
		raw   []transport.RawBuilding
		names []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raw, err = s.source.FetchBuildings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		names, err = s.source.FetchCityNames(gctx)
		if err != nil {
			// City list failure must not block the building set.
			s.log.Warn("city list unavailable", "error", err)
			names = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return apperr.Wrap(apperr.KindUpstream, "portfolio source unavailable", err).WithOp("buildings.refresh")
	}

	result := s.normalizer.Normalize(raw)

	s.mu.Lock()
	s.working = result.Buildings
	s.invalidCount = result.InvalidCount
	s.yearRange = transport.YearRange{Min: result.MinYear, Max: result.MaxYear}
	s.cityNames = names
	s.loaded = true
	s.mu.Unlock()

	s.filter.SetMinYear(result.MinYear)

	if s.bus != nil {
		s.bus.Publish(ctx, events.BuildingsRefreshed{
			BaseEvent: events.NewBaseEvent(),
			Accepted:  len(result.Buildings),
			Invalid:   result.InvalidCount,
		})
	}

	s.log.Info("building working set refreshed",
		"accepted", len(result.Buildings),
		"invalid", result.InvalidCount,
		"cities", len(names),
	)

	return nil
}

// Visible recomputes the filtered subset from the complete working set.
func (s *Service) Visible(ctx context.Context) (transport.FilteredResponse, error) {
	if _, err := s.Buildings(ctx, false); err != nil {
		return transport.FilteredResponse{}, err
	}

	s.mu.RLock()
	working := s.working
	s.mu.RUnlock()

	return transport.FilteredResponse{
		Filter:    s.filter.State(),
		Buildings: s.filter.Apply(working),
	}, nil
}

// UpdateFilter mutates the filter state and recomputes the full visible
// subset. Nil fields keep their current value.
func (s *Service) UpdateFilter(ctx context.Context, req transport.UpdateFilterRequest) (transport.FilteredResponse, error) {
	if req.MinYear != nil {
		s.filter.SetMinYear(*req.MinYear)
	}
	if req.AcceptedClasses != nil {
		s.filter.SetAcceptedClasses(req.AcceptedClasses)
	}

	return s.Visible(ctx)
}

// Cities resolves the upstream city names to coordinates. Resolution is
// sequential and cache-first; unresolvable names are silently absent.
func (s *Service) Cities(ctx context.Context) ([]geocode.ResolvedPlace, error) {
	if _, err := s.Buildings(ctx, false); err != nil {
		return nil, err
	}

	s.mu.RLock()
	names := s.cityNames
	s.mu.RUnlock()

	return s.resolver.Resolve(ctx, names), nil
}

// MergedAttributes returns the three-layer attribute view for a building.
func (s *Service) MergedAttributes(ctx context.Context, index int) (map[string]any, error) {
	building, err := s.buildingAt(ctx, index)
	if err != nil {
		return nil, err
	}
	return s.overlay.Merged(index, building), nil
}

// SaveAttributes applies a user-submitted overlay: local merge always,
// remote sync best-effort when an external id resolves.
func (s *Service) SaveAttributes(ctx context.Context, index int, attributes map[string]any) (transport.SaveResult, error) {
	building, err := s.buildingAt(ctx, index)
	if err != nil {
		return transport.SaveResult{}, err
	}
	return s.overlay.Save(ctx, index, building, attributes), nil
}

// ClearAttributes drops the local overlay for a building.
func (s *Service) ClearAttributes(ctx context.Context, index int) error {
	if _, err := s.buildingAt(ctx, index); err != nil {
		return err
	}
	s.overlay.Clear(index)
	return nil
}

// MissingProperties lists schema properties not yet present on the merged
// record, writable ones first, then alphabetically.
func (s *Service) MissingProperties(ctx context.Context, index int) ([]SchemaProperty, error) {
	merged, err := s.MergedAttributes(ctx, index)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(merged))
	for key := range merged {
		existing[strings.ToLower(key)] = struct{}{}
	}

	missing := make([]SchemaProperty, 0)
	for _, prop := range s.schema.Properties(ctx) {
		if _, ok := existing[strings.ToLower(prop.Name)]; ok {
			continue
		}
		missing = append(missing, prop)
	}

	sort.SliceStable(missing, func(i, j int) bool {
		if missing[i].AccessRight != missing[j].AccessRight {
			return missing[i].AccessRight == "write"
		}
		return missing[i].Name < missing[j].Name
	})

	return missing, nil
}

func (s *Service) buildingAt(ctx context.Context, index int) (transport.NormalizedBuilding, error) {
	if _, err := s.Buildings(ctx, false); err != nil {
		return transport.NormalizedBuilding{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.working) {
		return transport.NormalizedBuilding{}, apperr.NotFound("building not found")
	}
	return s.working[index], nil
}
