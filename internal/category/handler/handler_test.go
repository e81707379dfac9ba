package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bazarlab/marketplace-service/internal/apperr"
	"github.com/bazarlab/marketplace-service/internal/category/dto"
	"github.com/bazarlab/marketplace-service/pkg/i18n"
	"github.com/bazarlab/marketplace-service/pkg/logger"
	"github.com/bazarlab/marketplace-service/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validID = "6f1c2b8e-3a4d-4e5f-9a0b-1c2d3e4f5a6b"

type fakeUseCase struct {
	filters *dto.CategoryFilters
	attrID  string
	locale  string
}

func (f *fakeUseCase) ListCategories(_ context.Context, filters *dto.CategoryFilters) ([]dto.CategoryNode, error) {
	f.filters = filters
	return []dto.CategoryNode{{ID: "x", Name: "X", Children: []dto.CategoryNode{}}}, nil
}

func (f *fakeUseCase) GetCategoryAttributes(_ context.Context, id, locale string) ([]dto.AttributeNode, error) {
	f.attrID, f.locale = id, locale
	if id != validID {
		return nil, apperr.NotFound("category")
	}
	return []dto.AttributeNode{{Key: "area", Type: "number", Options: []string{}}}, nil
}

func (f *fakeUseCase) InvalidateCache(context.Context) error { return nil }

func setup() (*gin.Engine, *fakeUseCase) {
	gin.SetMode(gin.TestMode)
	i18n.Init()
	uc := &fakeUseCase{}
	r := gin.New()
	r.Use(middleware.Locale())
	NewCategoryHandler(uc, logger.NewNop()).RegisterRoutes(r.Group("/api/v1"))
	return r, uc
}

func get(r *gin.Engine, url string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListCategoriesFullTree(t *testing.T) {
	r, uc := setup()

	w := get(r, "/api/v1/categories", map[string]string{"Accept-Language": "uz-UZ"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, uc.filters.ParentID)
	assert.Equal(t, "uz", uc.filters.Locale)
	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []any{}, body[0]["children"])
}

func TestListCategoriesByParent(t *testing.T) {
	r, uc := setup()

	w := get(r, "/api/v1/categories?parent_id="+validID+"&lang=ru", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.filters.ParentID)
	assert.Equal(t, validID, *uc.filters.ParentID)
	assert.Equal(t, "ru", uc.filters.Locale)
}

func TestListCategoriesMalformedParentFallsBackToTree(t *testing.T) {
	r, uc := setup()

	w := get(r, "/api/v1/categories?parent_id=not-a-uuid", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, uc.filters.ParentID)
}

func TestGetCategoryAttributes(t *testing.T) {
	r, uc := setup()

	w := get(r, "/api/v1/categories/"+validID+"/attributes?lang=uz", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "uz", uc.locale)
	assert.JSONEq(t, `[{"id":"","key":"area","type":"number","label":"","options":[],"is_required":false,"category_id":""}]`, w.Body.String())
}

func TestGetCategoryAttributesNotFound(t *testing.T) {
	r, uc := setup()

	w := get(r, "/api/v1/categories/9f1c2b8e-3a4d-4e5f-9a0b-1c2d3e4f5a6b/attributes", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	uc.attrID = ""
	w = get(r, "/api/v1/categories/abc/attributes", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, uc.attrID, "malformed ids never reach the usecase")
}
