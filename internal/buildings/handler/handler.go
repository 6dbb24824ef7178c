// Package handler exposes the dashboard HTTP endpoints.
package handler

import (
	"net/http"
	"strconv"

	"portfoliobim_backend/internal/buildings/service"
	"portfoliobim_backend/internal/buildings/transport"
	"portfoliobim_backend/platform/httpkit"
	"portfoliobim_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler wires the dashboard routes to the buildings service.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func NewHandler(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListBuildings handles GET /api/v1/dashboard/buildings
func (h *Handler) ListBuildings(c *gin.Context) {
	resp, err := h.svc.Buildings(c.Request.Context(), false)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// RefreshBuildings handles POST /api/v1/dashboard/buildings/refresh
func (h *Handler) RefreshBuildings(c *gin.Context) {
	resp, err := h.svc.Buildings(c.Request.Context(), true)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// VisibleBuildings handles GET /api/v1/dashboard/buildings/visible
func (h *Handler) VisibleBuildings(c *gin.Context) {
	resp, err := h.svc.Visible(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// UpdateFilter handles PUT /api/v1/dashboard/buildings/filter
func (h *Handler) UpdateFilter(c *gin.Context) {
	var req transport.UpdateFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid filter payload", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid filter payload", nil)
		return
	}

	resp, err := h.svc.UpdateFilter(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// ListCities handles GET /api/v1/dashboard/cities
func (h *Handler) ListCities(c *gin.Context) {
	cities, err := h.svc.Cities(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, cities)
}

// GetAttributes handles GET /api/v1/dashboard/buildings/:index/attributes
func (h *Handler) GetAttributes(c *gin.Context) {
	index, ok := h.buildingIndex(c)
	if !ok {
		return
	}

	merged, err := h.svc.MergedAttributes(c.Request.Context(), index)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, merged)
}

// SaveAttributes handles POST /api/v1/dashboard/buildings/:index/attributes
func (h *Handler) SaveAttributes(c *gin.Context) {
	index, ok := h.buildingIndex(c)
	if !ok {
		return
	}

	var req transport.SaveAttributesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "attributes object is required", nil)
		return
	}

	result, err := h.svc.SaveAttributes(c.Request.Context(), index, req.Attributes)
	if httpkit.HandleError(c, err) {
		return
	}

	// A failed remote sync is recoverable: the local overlay stands, so
	// the save itself still succeeded.
	httpkit.OK(c, result)
}

// ClearAttributes handles DELETE /api/v1/dashboard/buildings/:index/attributes
func (h *Handler) ClearAttributes(c *gin.Context) {
	index, ok := h.buildingIndex(c)
	if !ok {
		return
	}

	if err := h.svc.ClearAttributes(c.Request.Context(), index); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// MissingProperties handles GET /api/v1/dashboard/buildings/:index/attributes/missing
func (h *Handler) MissingProperties(c *gin.Context) {
	index, ok := h.buildingIndex(c)
	if !ok {
		return
	}

	props, err := h.svc.MissingProperties(c.Request.Context(), index)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, props)
}

func (h *Handler) buildingIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		httpkit.Error(c, http.StatusBadRequest, "building index must be a non-negative integer", nil)
		return 0, false
	}
	return index, true
}
