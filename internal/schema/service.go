package schema

import (
	"context"
	"strings"
	"sync"

	"portfoliobim_backend/platform/logger"
)

// source abstracts the two upstream calls for testing.
type source interface {
	FetchClassProperties(ctx context.Context, classURI string) ([]classProperty, error)
	FetchAccessRights(ctx context.Context, classURI string) ([]accessRight, error)
}

// Service loads the class property schema once per process and annotates
// it with access rights. Upstream failure degrades to an empty property
// list (and all-read-only rights), never an error: the dashboard must not
// fail because the schema source is down.
type Service struct {
	source         source
	classURI       string
	rightsClassURI string
	log            *logger.Logger

	mu     sync.Mutex
	props  []Property
	loaded bool
}

// NewService creates the schema service.
func NewService(src source, classURI, rightsClassURI string, log *logger.Logger) *Service {
	return &Service{
		source:         src,
		classURI:       classURI,
		rightsClassURI: rightsClassURI,
		log:            log,
	}
}

// Properties returns the annotated class properties, loading them on first
// use. A failed load is retried on the next call instead of being cached.
func (s *Service) Properties(ctx context.Context) []Property {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.props
	}

	props, err := s.load(ctx)
	if err != nil {
		s.log.Warn("schema source unavailable, serving empty property list", "error", err)
		return []Property{}
	}

	s.props = props
	s.loaded = true
	return s.props
}

// Description returns the description for a property name, matched
// case-insensitively. Empty string when unknown.
func (s *Service) Description(ctx context.Context, name string) string {
	for _, prop := range s.Properties(ctx) {
		if strings.EqualFold(prop.Name, name) {
			return prop.Description
		}
	}
	return ""
}

func (s *Service) load(ctx context.Context) ([]Property, error) {
	// Rights failure is softer than schema failure: properties are still
	// useful, they just all default to read-only.
	rights := map[string]int{}
	if fetched, err := s.source.FetchAccessRights(ctx, s.rightsClassURI); err == nil {
		for _, r := range fetched {
			rights[r.Name] = r.Right
		}
	} else {
		s.log.Warn("access rights unavailable, defaulting to read-only", "error", err)
	}

	raw, err := s.source.FetchClassProperties(ctx, s.classURI)
	if err != nil {
		return nil, err
	}

	props := make([]Property, 0, len(raw))
	for _, p := range raw {
		props = append(props, Property{
			Name:        p.Name,
			Description: p.Description,
			Example:     p.Example,
			AccessRight: rightFor(rights, p.Name),
		})
	}

	s.log.Info("schema properties loaded", "count", len(props))
	return props, nil
}

// rightFor maps the raw right code to an access level. Unlisted properties
// default to read-only.
func rightFor(rights map[string]int, name string) string {
	right, ok := rights[name]
	if !ok || right == readOnlyRight {
		return "read"
	}
	return "write"
}
