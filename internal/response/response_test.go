package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bazarlab/marketplace-service/internal/apperr"
	"github.com/bazarlab/marketplace-service/pkg/i18n"
	"github.com/bazarlab/marketplace-service/pkg/logger"
	"github.com/bazarlab/marketplace-service/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	i18n.Init()
}

func serve(t *testing.T, err error, url string) (int, map[string]string) {
	t.Helper()
	r := gin.New()
	r.Use(middleware.Locale())
	r.GET("/", func(c *gin.Context) { Error(c, logger.NewNop(), err) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestErrorValidation(t *testing.T) {
	ve := &apperr.ValidationError{}
	ve.Add(apperr.NewFieldError("title", i18n.MsgRequired, nil))
	ve.Add(apperr.NewFieldError("finish", i18n.MsgInvalidChoice, map[string]any{"Allowed": "matte, glossy"}))

	code, body := serve(t, ve, "/?lang=uz")

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Len(t, body, 2)
	assert.Contains(t, body["finish"], "matte, glossy")
	assert.NotEqual(t, i18n.MsgRequired, body["title"])
}

func TestErrorNotFoundUsesField(t *testing.T) {
	code, body := serve(t, apperr.NotFoundField("category", "category_id"), "/")

	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, "category_id")
}

func TestErrorNotFoundDetail(t *testing.T) {
	code, body := serve(t, apperr.NotFound("listing"), "/")

	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, "detail")
}

func TestErrorInternalHidesCause(t *testing.T) {
	code, body := serve(t, errors.New("pq: connection refused"), "/")

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.NotContains(t, body["detail"], "pq")
}
