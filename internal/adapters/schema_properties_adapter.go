// Package adapters contains anti-corruption layer adapters that bridge
// bounded contexts without creating direct dependencies between them.
package adapters

import (
	"context"

	"portfoliobim_backend/internal/buildings/service"
	"portfoliobim_backend/internal/schema"
)

// SchemaPropertiesAdapter exposes the schema service as the buildings
// module's SchemaSource. The buildings module only depends on its own
// interface; this adapter does the translation.
type SchemaPropertiesAdapter struct {
	service *schema.Service
}

// NewSchemaPropertiesAdapter creates the adapter. A nil service (schema
// module disabled) yields an adapter that serves an empty property list.
func NewSchemaPropertiesAdapter(svc *schema.Service) *SchemaPropertiesAdapter {
	return &SchemaPropertiesAdapter{service: svc}
}

// Properties returns the annotated class properties in the buildings
// module's terms.
func (a *SchemaPropertiesAdapter) Properties(ctx context.Context) []service.SchemaProperty {
	if a.service == nil {
		return []service.SchemaProperty{}
	}

	props := a.service.Properties(ctx)
	out := make([]service.SchemaProperty, 0, len(props))
	for _, p := range props {
		out = append(out, service.SchemaProperty{
			Name:        p.Name,
			Description: p.Description,
			Example:     p.Example,
			AccessRight: p.AccessRight,
		})
	}
	return out
}

var _ service.SchemaSource = (*SchemaPropertiesAdapter)(nil)
