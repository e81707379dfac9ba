package response

import (
	"errors"
	"net/http"

	"github.com/bazarlab/marketplace-service/internal/apperr"
	"github.com/bazarlab/marketplace-service/pkg/i18n"
	"github.com/bazarlab/marketplace-service/pkg/logger"
	"github.com/bazarlab/marketplace-service/pkg/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Page struct {
	Count   int `json:"count"`
	Results any `json:"results"`
}

func OK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

func Created(c *gin.Context, body any) {
	c.JSON(http.StatusCreated, body)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error writes err as a localized JSON body. Validation errors become a
// field → message object, not-found errors a 404, anything else a 500 with
// the cause logged but not exposed.
func Error(c *gin.Context, log logger.ZapLogger, err error) {
	locale := middleware.GetLocale(c)

	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		body := make(gin.H, len(ve.Fields))
		for _, f := range ve.Fields {
			body[f.Field] = i18n.Localize(locale, f.Code, f.Params)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, body)
		return
	}

	var fe *apperr.FieldError
	if errors.As(err, &fe) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{fe.Field: i18n.Localize(locale, fe.Code, fe.Params)})
		return
	}

	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		key := "detail"
		if nf.Field != "" {
			key = nf.Field
		}
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{key: i18n.Localize(locale, i18n.MsgNotFound, nil)})
		return
	}

	_ = c.Error(err)
	log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": i18n.Localize(locale, i18n.MsgInternal, nil)})
}

// Unauthorized is written by the auth middleware.
func Unauthorized(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}
