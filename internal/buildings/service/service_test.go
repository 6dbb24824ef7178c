package service

import (
	"context"
	"errors"
	"testing"

	"portfoliobim_backend/internal/buildings/transport"
	"portfoliobim_backend/internal/geocode"
	"portfoliobim_backend/platform/apperr"
	"portfoliobim_backend/platform/logger"
)

// fakeSource scripts the upstream portfolio backend.
type fakeSource struct {
	buildings    []transport.RawBuilding
	buildingsErr error
	cities       []string
	citiesErr    error

	fetchCalls int
}

func (f *fakeSource) FetchBuildings(ctx context.Context) ([]transport.RawBuilding, error) {
	f.fetchCalls++
	return f.buildings, f.buildingsErr
}

func (f *fakeSource) FetchCityNames(ctx context.Context) ([]string, error) {
	return f.cities, f.citiesErr
}

// fakeCityResolver echoes names back as resolved places.
type fakeCityResolver struct {
	resolved []string
}

func (f *fakeCityResolver) Resolve(ctx context.Context, names []string) []geocode.ResolvedPlace {
	f.resolved = names
	out := make([]geocode.ResolvedPlace, 0, len(names))
	for _, name := range names {
		out = append(out, geocode.ResolvedPlace{Name: name, Lat: 51, Lon: 13})
	}
	return out
}

type fakeSchemaSource struct {
	props []SchemaProperty
}

func (f *fakeSchemaSource) Properties(ctx context.Context) []SchemaProperty {
	return f.props
}

func newTestService(src *fakeSource, schema SchemaSource) (*Service, *fakeCityResolver) {
	log := logger.New("development")
	if schema == nil {
		schema = &fakeSchemaSource{}
	}
	resolver := &fakeCityResolver{}
	svc := New(
		src,
		NewNormalizer(1900, log),
		NewFilterEngine(1900),
		NewOverlay(&fakeSink{}, nil, log),
		resolver,
		schema,
		nil,
		log,
	)
	return svc, resolver
}

func testRecords() []transport.RawBuilding {
	old := rawRecord(51.05, 13.74)
	old["name"] = "old"
	old["constructionYear"] = float64(1960)
	old["energyEfficiencyClass"] = "F"
	old["id"] = "bld-1"

	recent := rawRecord(52.52, 13.40)
	recent["name"] = "recent"
	recent["constructionYear"] = float64(2015)
	recent["energyEfficiencyClass"] = "A"

	invalid := transport.RawBuilding{"name": "broken"}

	return []transport.RawBuilding{old, recent, invalid}
}

func TestService_BuildingsLoadsLazilyOnce(t *testing.T) {
	src := &fakeSource{buildings: testRecords(), cities: []string{"Dresden"}}
	svc, _ := newTestService(src, nil)

	first, err := svc.Buildings(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Buildings(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if src.fetchCalls != 1 {
		t.Fatalf("expected a single upstream fetch, got %d", src.fetchCalls)
	}
	if len(first.Buildings) != 2 || first.InvalidCount != 1 {
		t.Fatalf("unexpected working set: %d accepted / %d invalid", len(first.Buildings), first.InvalidCount)
	}
	if first.YearRange.Min != 1960 || first.YearRange.Max != 2015 {
		t.Fatalf("unexpected year range: %+v", first.YearRange)
	}
}

func TestService_ForceRefreshRefetches(t *testing.T) {
	src := &fakeSource{buildings: testRecords()}
	svc, _ := newTestService(src, nil)

	if _, err := svc.Buildings(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Buildings(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if src.fetchCalls != 2 {
		t.Fatalf("expected forced refetch, got %d fetches", src.fetchCalls)
	}
}

func TestService_UpstreamFailureIsUpstreamError(t *testing.T) {
	src := &fakeSource{buildingsErr: errors.New("connection refused")}
	svc, _ := newTestService(src, nil)

	_, err := svc.Buildings(context.Background(), false)
	if err == nil {
		t.Fatal("expected error")
	}
	if apperr.GetKind(err) != apperr.KindUpstream {
		t.Fatalf("expected upstream error kind, got %v", apperr.GetKind(err))
	}
}

func TestService_CityListFailureIsSoft(t *testing.T) {
	src := &fakeSource{buildings: testRecords(), citiesErr: errors.New("not found")}
	svc, resolver := newTestService(src, nil)

	if _, err := svc.Buildings(context.Background(), false); err != nil {
		t.Fatalf("city list failure must not block buildings: %v", err)
	}

	cities, err := svc.Cities(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cities) != 0 || len(resolver.resolved) != 0 {
		t.Fatalf("expected empty city list, got %+v", cities)
	}
}

func TestService_CitiesResolveUpstreamNames(t *testing.T) {
	src := &fakeSource{buildings: testRecords(), cities: []string{"Dresden", "Berlin"}}
	svc, resolver := newTestService(src, nil)

	cities, err := svc.Cities(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cities) != 2 || resolver.resolved[0] != "Dresden" {
		t.Fatalf("unexpected resolution: %+v", cities)
	}
}

func TestService_VisibleAppliesFilter(t *testing.T) {
	src := &fakeSource{buildings: testRecords()}
	svc, _ := newTestService(src, nil)

	minYear := 2000
	resp, err := svc.UpdateFilter(context.Background(), transport.UpdateFilterRequest{MinYear: &minYear})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Buildings) != 1 || resp.Buildings[0].Name != "recent" {
		t.Fatalf("unexpected visible set: %+v", resp.Buildings)
	}
	if resp.Filter.MinYear != 2000 {
		t.Fatalf("unexpected filter state: %+v", resp.Filter)
	}
}

func TestService_RefreshReseedsFilterMinYear(t *testing.T) {
	src := &fakeSource{buildings: testRecords()}
	svc, _ := newTestService(src, nil)

	resp, err := svc.Visible(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Filter.MinYear != 1960 {
		t.Fatalf("expected filter seeded from data min year, got %d", resp.Filter.MinYear)
	}
	if len(resp.Buildings) != 2 {
		t.Fatalf("expected full set visible initially, got %d", len(resp.Buildings))
	}
}

func TestService_SaveAttributesOutOfRange(t *testing.T) {
	src := &fakeSource{buildings: testRecords()}
	svc, _ := newTestService(src, nil)

	_, err := svc.SaveAttributes(context.Background(), 99, map[string]any{"roofType": "flat"})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not-found for out-of-range index, got %v", err)
	}
}

func TestService_SaveAndMergeRoundTrip(t *testing.T) {
	src := &fakeSource{buildings: testRecords()}
	svc, _ := newTestService(src, nil)

	result, err := svc.SaveAttributes(context.Background(), 0, map[string]any{"roofType": "flat"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Local != "applied" {
		t.Fatalf("unexpected save result: %+v", result)
	}

	merged, err := svc.MergedAttributes(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged["roofType"] != "flat" || merged["name"] != "old" {
		t.Fatalf("unexpected merged view: %+v", merged)
	}

	if err := svc.ClearAttributes(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	merged, _ = svc.MergedAttributes(context.Background(), 0)
	if _, present := merged["roofType"]; present {
		t.Fatal("expected overlay cleared")
	}
}

func TestService_MissingPropertiesSortedWriteFirst(t *testing.T) {
	schema := &fakeSchemaSource{props: []SchemaProperty{
		{Name: "zoneCode", AccessRight: "read"},
		{Name: "roofType", AccessRight: "write"},
		{Name: "Name", AccessRight: "write"}, // present on record (case-insensitive)
		{Name: "ownerName", AccessRight: "write"},
	}}
	src := &fakeSource{buildings: testRecords()}
	svc, _ := newTestService(src, schema)

	missing, err := svc.MissingProperties(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"ownerName", "roofType", "zoneCode"}
	if len(missing) != len(want) {
		t.Fatalf("expected %d missing properties, got %+v", len(want), missing)
	}
	for i, name := range want {
		if missing[i].Name != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, missing[i].Name)
		}
	}
}
