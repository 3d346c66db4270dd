package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ithomeportal/unilink-energy/internal/models"
	"github.com/ithomeportal/unilink-energy/internal/services"
)

// EmissionsSource serves the dashboard, usually through the result cache.
type EmissionsSource interface {
	Get(ctx context.Context) services.EmissionsResult
	Invalidate()
}

type EmissionsHandler struct {
	source EmissionsSource
}

func NewEmissionsHandler(source EmissionsSource) *EmissionsHandler {
	return &EmissionsHandler{source: source}
}

// GetEmissions godoc
// @Summary Get the emissions dashboard
// @Description Returns summary, per-state, monthly and top-route CO2 figures. Falls back to a demo dataset when shipment data is unavailable.
// @Tags emissions
// @Produce json
// @Success 200 {object} models.EmissionsResponse
// @Router /emissions [get]
func (h *EmissionsHandler) GetEmissions(c *gin.Context) {
	c.JSON(http.StatusOK, toResponse(h.source.Get(c.Request.Context())))
}

// Refresh godoc
// @Summary Recompute the emissions dashboard
// @Description Drops the cached dashboard and recomputes it from the shipment store
// @Tags emissions
// @Produce json
// @Success 200 {object} models.EmissionsResponse
// @Router /emissions/refresh [post]
func (h *EmissionsHandler) Refresh(c *gin.Context) {
	h.source.Invalidate()
	c.JSON(http.StatusOK, toResponse(h.source.Get(c.Request.Context())))
}

// SearchStates godoc
// @Summary Search state aggregates
// @Description Fuzzy match on state code or name, best match first
// @Tags emissions
// @Produce json
// @Param q query string false "State code or name"
// @Success 200 {object} models.StateSearchResponse
// @Router /emissions/states [get]
func (h *EmissionsHandler) SearchStates(c *gin.Context) {
	query := c.Query("q")
	res := h.source.Get(c.Request.Context())

	var states []models.StateEmissions
	if res.Data != nil {
		states = services.SearchStates(res.Data.StateEmissions, query)
	}
	if states == nil {
		states = []models.StateEmissions{}
	}

	c.JSON(http.StatusOK, models.StateSearchResponse{
		Success: true,
		Query:   query,
		States:  states,
	})
}

func toResponse(res services.EmissionsResult) models.EmissionsResponse {
	resp := models.EmissionsResponse{
		Success: true,
		Data:    res.Data,
		Cached:  res.Cached,
		Demo:    res.Demo,
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	return resp
}
