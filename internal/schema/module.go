// Package schema provides the property-schema bounded context module.
package schema

import (
	apphttp "portfoliobim_backend/internal/http"
	"portfoliobim_backend/platform/config"
	"portfoliobim_backend/platform/httpkit"
	"portfoliobim_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Config combines the config interfaces the schema module needs.
type Config interface {
	config.SchemaConfig
	config.PortfolioSourceConfig
}

// Module wires the schema HTTP route.
type Module struct {
	service *Service
	enabled bool
}

// NewModule creates and initializes the schema module.
// Returns a disabled module if no schema API is configured (graceful
// degradation: the dashboard then serves an empty property list).
func NewModule(cfg Config, log *logger.Logger) *Module {
	if !cfg.IsSchemaEnabled() {
		log.Info("schema module disabled: SCHEMA_API_URL not configured")
		return &Module{enabled: false}
	}

	client := NewClient(cfg.GetSchemaAPIURL(), cfg.GetPortfolioAPIURL(), log)
	svc := NewService(client, cfg.GetSchemaClassURI(), cfg.GetAccessRightsClassURI(), log)

	log.Info("schema module initialized")

	return &Module{
		service: svc,
		enabled: true,
	}
}

// Service returns the schema service, or nil if the module is disabled.
func (m *Module) Service() *Service {
	if m == nil || !m.enabled {
		return nil
	}
	return m.service
}

// IsEnabled returns true if the schema module is configured and enabled.
func (m *Module) IsEnabled() bool {
	return m != nil && m.enabled
}

func (m *Module) Name() string {
	return "schema"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/schema")
	group.GET("/properties", m.listProperties)
}

// listProperties handles GET /api/v1/schema/properties. Always 200: an
// unreachable schema source yields an empty list, not an error.
func (m *Module) listProperties(c *gin.Context) {
	if !m.enabled {
		httpkit.OK(c, []Property{})
		return
	}
	httpkit.OK(c, m.service.Properties(c.Request.Context()))
}

var _ apphttp.Module = (*Module)(nil)
