package handler

import (
	"github.com/bazarlab/marketplace-service/internal/location"
	"github.com/bazarlab/marketplace-service/internal/location/dto"
	"github.com/bazarlab/marketplace-service/internal/response"
	"github.com/bazarlab/marketplace-service/pkg/logger"
	"github.com/bazarlab/marketplace-service/pkg/middleware"
	"github.com/bazarlab/marketplace-service/pkg/validator"
	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	uc     location.UseCase
	logger logger.ZapLogger
}

func NewLocationHandler(uc location.UseCase, log logger.ZapLogger) *LocationHandler {
	return &LocationHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *LocationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/locations", h.ListLocations)
}

// ListLocations returns the children of parent_id, the roots without it,
// and an empty list when parent_id is not a valid id.
func (h *LocationHandler) ListLocations(c *gin.Context) {
	filters := &dto.LocationFilters{Locale: middleware.GetLocale(c)}
	if parentID, ok := c.GetQuery("parent_id"); ok && parentID != "" {
		if validator.ValidateVar(parentID, "uuid") != nil {
			response.OK(c, []dto.LocationNode{})
			return
		}
		filters.ParentID = &parentID
	}

	nodes, err := h.uc.ListLocations(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, nodes)
}
