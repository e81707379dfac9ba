package handler

import (
	"context"
	"net/http"

	"github.com/bazarlab/marketplace-service/internal/apperr"
	"github.com/bazarlab/marketplace-service/internal/auth"
	"github.com/bazarlab/marketplace-service/internal/listing"
	"github.com/bazarlab/marketplace-service/internal/listing/dto"
	"github.com/bazarlab/marketplace-service/internal/model"
	"github.com/bazarlab/marketplace-service/internal/response"
	"github.com/bazarlab/marketplace-service/pkg/logger"
	"github.com/bazarlab/marketplace-service/pkg/validator"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListingHandler struct {
	uc     listing.UseCase
	logger logger.ZapLogger
}

func NewListingHandler(uc listing.UseCase, log logger.ZapLogger) *ListingHandler {
	return &ListingHandler{
		uc:     uc,
		logger: log,
	}
}

// RegisterRoutes mounts read routes on public and write routes on authed.
func (h *ListingHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/listings/:id", h.GetListing)
	public.GET("/users/:user_id/listings", h.ListUserListings)

	authed.POST("/listings", h.CreateListing)
	authed.PATCH("/listings/:id", h.UpdateListing)
	authed.DELETE("/listings/:id", h.DeleteListing)
	authed.POST("/listings/:id/refresh", h.RefreshListing)
	authed.POST("/listings/:id/deactivate", h.DeactivateListing)
	authed.POST("/listings/:id/activate", h.ActivateListing)
	authed.GET("/my/listings", h.ListMyListings)
}

// listingID returns the path id, writing a 404 when it cannot name a
// listing.
func (h *ListingHandler) listingID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if validator.ValidateVar(id, "uuid") != nil {
		response.Error(c, h.logger, apperr.NotFound("listing"))
		return "", false
	}
	return id, true
}

func (h *ListingHandler) CreateListing(c *gin.Context) {
	input := &dto.WriteListingInput{UserID: auth.GetUserID(c)}
	if err := decodeWritePayload(c.Request.Body, input); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	l, err := h.uc.CreateListing(c.Request.Context(), input)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, l)
}

func (h *ListingHandler) UpdateListing(c *gin.Context) {
	id, ok := h.listingID(c)
	if !ok {
		return
	}
	input := &dto.WriteListingInput{ListingID: id, UserID: auth.GetUserID(c)}
	if err := decodeWritePayload(c.Request.Body, input); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	l, err := h.uc.UpdateListing(c.Request.Context(), input)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, l)
}

func (h *ListingHandler) GetListing(c *gin.Context) {
	id, ok := h.listingID(c)
	if !ok {
		return
	}
	l, err := h.uc.GetListing(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, l)
}

func (h *ListingHandler) DeleteListing(c *gin.Context) {
	id, ok := h.listingID(c)
	if !ok {
		return
	}
	if err := h.uc.DeleteListing(c.Request.Context(), auth.GetUserID(c), id); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.NoContent(c)
}

func (h *ListingHandler) RefreshListing(c *gin.Context) {
	id, ok := h.listingID(c)
	if !ok {
		return
	}
	l, err := h.uc.RefreshListing(c.Request.Context(), auth.GetUserID(c), id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, dto.RefreshResult{Status: "refreshed", RefreshedAt: l.RefreshedAt})
}

func (h *ListingHandler) DeactivateListing(c *gin.Context) {
	h.changeStatus(c, "deactivated", h.uc.DeactivateListing)
}

func (h *ListingHandler) ActivateListing(c *gin.Context) {
	h.changeStatus(c, "activated", h.uc.ActivateListing)
}

func (h *ListingHandler) changeStatus(c *gin.Context, label string, op func(ctx context.Context, userID, id string) (*model.Listing, error)) {
	id, ok := h.listingID(c)
	if !ok {
		return
	}
	l, err := op(c.Request.Context(), auth.GetUserID(c), id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResult{Status: label, NewStatus: l.Status})
}

type listQuery struct {
	Category string `form:"category"`
	Sort     string `form:"sort" validate:"omitempty,oneof=newest oldest price_asc price_desc"`
	Page     int    `form:"page" validate:"gte=0"`
	PageSize int    `form:"page_size" validate:"gte=0"`
}

// filters reads paging and sorting leniently: malformed values fall back
// to defaults instead of failing the request.
func (h *ListingHandler) filters(c *gin.Context) *dto.ListingFilters {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		q = listQuery{Category: c.Query("category"), Sort: c.Query("sort")}
	}
	if validator.ValidateStruct(q) != nil {
		q.Sort, q.Page, q.PageSize = "", 0, 0
	}

	f := &dto.ListingFilters{
		CategorySlug: q.Category,
		Sort:         q.Sort,
		Page:         q.Page,
		PageSize:     q.PageSize,
	}
	if f.Sort == "" {
		f.Sort = dto.SortNewest
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	return f
}

func (h *ListingHandler) ListMyListings(c *gin.Context) {
	f := h.filters(c)
	f.UserID = auth.GetUserID(c)
	h.list(c, f)
}

// ListUserListings is the public profile feed: active listings only.
func (h *ListingHandler) ListUserListings(c *gin.Context) {
	f := h.filters(c)
	f.UserID = c.Param("user_id")
	f.Status = model.ListingStatusActive
	h.list(c, f)
}

func (h *ListingHandler) list(c *gin.Context, f *dto.ListingFilters) {
	listings, count, err := h.uc.ListListings(c.Request.Context(), f)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, response.Page{Count: count, Results: listings})
}
