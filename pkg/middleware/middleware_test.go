package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bazarlab/marketplace-service/pkg/i18n"
	"github.com/bazarlab/marketplace-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type entry struct {
	level string
	msg   string
}

type recordingLogger struct {
	entries []entry
}

func (r *recordingLogger) add(level, msg string) { r.entries = append(r.entries, entry{level, msg}) }

func (r *recordingLogger) Debug(msg string, _ ...zap.Field) { r.add("debug", msg) }
func (r *recordingLogger) Info(msg string, _ ...zap.Field)  { r.add("info", msg) }
func (r *recordingLogger) Warn(msg string, _ ...zap.Field)  { r.add("warn", msg) }
func (r *recordingLogger) Error(msg string, _ ...zap.Field) { r.add("error", msg) }
func (r *recordingLogger) Fatal(msg string, _ ...zap.Field) { r.add("fatal", msg) }
func (r *recordingLogger) With(...zap.Field) logger.ZapLogger { return r }
func (r *recordingLogger) Sync() error                      { return nil }

func newEngine(log logger.ZapLogger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	i18n.Init()
	r := gin.New()
	r.Use(Recovery(log), RequestLogger(log), Locale())
	r.GET("/locale", func(c *gin.Context) { c.String(http.StatusOK, GetLocale(c)) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func serve(r *gin.Engine, url, acceptLanguage string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLocaleMiddleware(t *testing.T) {
	r := newEngine(logger.NewNop())

	assert.Equal(t, "uz", serve(r, "/locale?lang=uz", "ru").Body.String())
	assert.Equal(t, "uz", serve(r, "/locale", "UZ-latn,en;q=0.5").Body.String())
	assert.Equal(t, "ru", serve(r, "/locale", "").Body.String())
}

func TestRequestLoggerLevels(t *testing.T) {
	log := &recordingLogger{}
	r := newEngine(log)

	serve(r, "/locale", "")
	serve(r, "/missing", "")

	assert.Equal(t, []entry{{"info", "HTTP request"}, {"warn", "HTTP request"}}, log.entries)
}

func TestRecoveryReturnsLocalized500(t *testing.T) {
	log := &recordingLogger{}
	r := newEngine(log)

	w := serve(r, "/panic?lang=ru", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "detail")
	assert.Contains(t, log.entries, entry{"error", "panic recovered"})
}
