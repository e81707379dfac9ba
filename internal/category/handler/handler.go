package handler

import (
	"github.com/bazarlab/marketplace-service/internal/apperr"
	"github.com/bazarlab/marketplace-service/internal/category"
	"github.com/bazarlab/marketplace-service/internal/category/dto"
	"github.com/bazarlab/marketplace-service/internal/response"
	"github.com/bazarlab/marketplace-service/pkg/logger"
	"github.com/bazarlab/marketplace-service/pkg/middleware"
	"github.com/bazarlab/marketplace-service/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.ListCategories)
	rg.GET("/categories/:id/attributes", h.GetCategoryAttributes)
}

type listCategoriesQuery struct {
	ParentID string `form:"parent_id" validate:"omitempty,uuid"`
}

// ListCategories serves one level when parent_id is a valid id and the full
// tree otherwise, including when parent_id is malformed.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var q listCategoriesQuery
	_ = c.ShouldBindQuery(&q)

	filters := &dto.CategoryFilters{Locale: middleware.GetLocale(c)}
	if q.ParentID != "" && validator.ValidateStruct(q) == nil {
		filters.ParentID = &q.ParentID
	}

	nodes, err := h.uc.ListCategories(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, nodes)
}

func (h *CategoryHandler) GetCategoryAttributes(c *gin.Context) {
	id := c.Param("id")
	if validator.ValidateVar(id, "uuid") != nil {
		response.Error(c, h.logger, apperr.NotFound("category"))
		return
	}

	nodes, err := h.uc.GetCategoryAttributes(c.Request.Context(), id, middleware.GetLocale(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, nodes)
}
