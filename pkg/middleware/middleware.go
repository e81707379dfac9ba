package middleware

import (
	"net/http"
	"time"

	"github.com/bazarlab/marketplace-service/pkg/i18n"
	"github.com/bazarlab/marketplace-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const LocaleKey = "locale"

// RequestLogger writes one access log line per request.
func RequestLogger(log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("HTTP request", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// Recovery turns panics into a logged 500.
func Recovery(log logger.ZapLogger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"detail": i18n.Localize(GetLocale(c), i18n.MsgInternal, nil),
		})
	})
}

// Locale resolves the response locale once per request.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(LocaleKey, i18n.ResolveLocale(c.Query("lang"), c.GetHeader("Accept-Language")))
		c.Next()
	}
}

func GetLocale(c *gin.Context) string {
	if l := c.GetString(LocaleKey); l != "" {
		return l
	}
	return i18n.ResolveLocale(c.Query("lang"), c.GetHeader("Accept-Language"))
}
