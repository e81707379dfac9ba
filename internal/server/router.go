package server

import (
	"net/http"

	"github.com/bazarlab/marketplace-service/internal/auth"
	catH "github.com/bazarlab/marketplace-service/internal/category/handler"
	listH "github.com/bazarlab/marketplace-service/internal/listing/handler"
	locH "github.com/bazarlab/marketplace-service/internal/location/handler"
	"github.com/bazarlab/marketplace-service/pkg/logger"
	"github.com/bazarlab/marketplace-service/pkg/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Categories *catH.CategoryHandler
	Locations  *locH.LocationHandler
	Listings   *listH.ListingHandler
}

// NewRouter builds the HTTP API. Everything lives under /api/v1; write
// routes and "my" feeds require a bearer token.
func NewRouter(h Handlers, jwtMgr *auth.JWTManager, log logger.ZapLogger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Locale())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	public := api.Group("")
	h.Categories.RegisterRoutes(public)
	h.Locations.RegisterRoutes(public)

	protected := api.Group("")
	protected.Use(auth.AuthMiddleware(jwtMgr))
	h.Listings.RegisterRoutes(public, protected)

	return router
}
