package schema

import (
	"context"
	"errors"
	"testing"

	"portfoliobim_backend/platform/logger"
)

// fakeSchemaSource scripts the two upstream calls.
type fakeSchemaSource struct {
	props     []classProperty
	propsErr  error
	rights    []accessRight
	rightsErr error

	propCalls int
}

func (f *fakeSchemaSource) FetchClassProperties(ctx context.Context, classURI string) ([]classProperty, error) {
	f.propCalls++
	return f.props, f.propsErr
}

func (f *fakeSchemaSource) FetchAccessRights(ctx context.Context, classURI string) ([]accessRight, error) {
	return f.rights, f.rightsErr
}

func newTestSchemaService(src source) *Service {
	return NewService(src, "class-uri", "rights-uri", logger.New("development"))
}

func TestSchemaService_AnnotatesAccessRights(t *testing.T) {
	src := &fakeSchemaSource{
		props: []classProperty{
			{Name: "roofType", Description: "Roof construction"},
			{Name: "zoneCode"},
			{Name: "unlisted"},
		},
		rights: []accessRight{
			{Name: "roofType", Right: 1},
			{Name: "zoneCode", Right: 2},
		},
	}
	svc := newTestSchemaService(src)

	props := svc.Properties(context.Background())

	if len(props) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(props))
	}
	byName := map[string]string{}
	for _, p := range props {
		byName[p.Name] = p.AccessRight
	}
	if byName["roofType"] != "write" {
		t.Fatalf("expected writable roofType, got %q", byName["roofType"])
	}
	if byName["zoneCode"] != "read" {
		t.Fatalf("expected read-only zoneCode, got %q", byName["zoneCode"])
	}
	if byName["unlisted"] != "read" {
		t.Fatalf("expected unlisted property to default read-only, got %q", byName["unlisted"])
	}
}

func TestSchemaService_RightsFailureDefaultsReadOnly(t *testing.T) {
	src := &fakeSchemaSource{
		props:     []classProperty{{Name: "roofType"}},
		rightsErr: errors.New("rights source down"),
	}
	svc := newTestSchemaService(src)

	props := svc.Properties(context.Background())

	if len(props) != 1 || props[0].AccessRight != "read" {
		t.Fatalf("expected read-only fallback, got %+v", props)
	}
}

func TestSchemaService_PropertiesFailureServesEmptyAndRetries(t *testing.T) {
	src := &fakeSchemaSource{propsErr: errors.New("schema source down")}
	svc := newTestSchemaService(src)

	if props := svc.Properties(context.Background()); len(props) != 0 {
		t.Fatalf("expected empty list on failure, got %+v", props)
	}

	// Recovery: the failed load must not be cached.
	src.propsErr = nil
	src.props = []classProperty{{Name: "roofType"}}

	if props := svc.Properties(context.Background()); len(props) != 1 {
		t.Fatalf("expected retry after failure, got %+v", props)
	}
}

func TestSchemaService_SuccessfulLoadIsCached(t *testing.T) {
	src := &fakeSchemaSource{props: []classProperty{{Name: "roofType"}}}
	svc := newTestSchemaService(src)

	svc.Properties(context.Background())
	svc.Properties(context.Background())

	if src.propCalls != 1 {
		t.Fatalf("expected a single upstream load, got %d", src.propCalls)
	}
}

func TestSchemaService_DescriptionMatchesCaseInsensitively(t *testing.T) {
	src := &fakeSchemaSource{props: []classProperty{
		{Name: "RoofType", Description: "Roof construction"},
	}}
	svc := newTestSchemaService(src)

	if got := svc.Description(context.Background(), "rooftype"); got != "Roof construction" {
		t.Fatalf("unexpected description: %q", got)
	}
	if got := svc.Description(context.Background(), "unknown"); got != "" {
		t.Fatalf("expected empty description for unknown property, got %q", got)
	}
}
