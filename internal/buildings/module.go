// Package buildings provides the dashboard bounded context module.
package buildings

import (
	"portfoliobim_backend/internal/buildings/client"
	"portfoliobim_backend/internal/buildings/handler"
	"portfoliobim_backend/internal/buildings/service"
	"portfoliobim_backend/internal/events"
	apphttp "portfoliobim_backend/internal/http"
	"portfoliobim_backend/platform/config"
	"portfoliobim_backend/platform/logger"
	"portfoliobim_backend/platform/validator"
)

// Config combines the config interfaces the buildings module needs.
type Config interface {
	config.PortfolioSourceConfig
	config.FilterConfig
}

// Module wires the dashboard HTTP routes and owns the pipeline services.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the buildings module. The city
// resolver and schema source are injected by the composition root so the
// geocode and schema modules stay decoupled.
func NewModule(cfg Config, resolver service.CityResolver, schema service.SchemaSource, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	src := client.New(cfg.GetPortfolioAPIURL(), log)
	normalizer := service.NewNormalizer(cfg.GetFallbackMinYear(), log)
	filter := service.NewFilterEngine(cfg.GetFallbackMinYear())
	overlay := service.NewOverlay(src, bus, log)
	svc := service.New(src, normalizer, filter, overlay, resolver, schema, bus, log)

	return &Module{
		handler: handler.NewHandler(svc, val),
		service: svc,
	}
}

// Service returns the dashboard service for cross-module use.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Name() string {
	return "buildings"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/dashboard")
	group.GET("/buildings", m.handler.ListBuildings)
	group.POST("/buildings/refresh", m.handler.RefreshBuildings)
	group.GET("/buildings/visible", m.handler.VisibleBuildings)
	group.PUT("/buildings/filter", m.handler.UpdateFilter)
	group.GET("/cities", m.handler.ListCities)
	group.GET("/buildings/:index/attributes", m.handler.GetAttributes)
	group.POST("/buildings/:index/attributes", m.handler.SaveAttributes)
	group.DELETE("/buildings/:index/attributes", m.handler.ClearAttributes)
	group.GET("/buildings/:index/attributes/missing", m.handler.MissingProperties)
}

var _ apphttp.Module = (*Module)(nil)
