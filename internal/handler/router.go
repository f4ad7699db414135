package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shortlink/internal/domain"
	"shortlink/internal/metrics"
	"shortlink/pkg/logger"
)

// RouterOptions configures SetupRouter
type RouterOptions struct {
	Metrics *metrics.Metrics
	// Gatherer backs GET /metrics; nil disables the endpoint
	Gatherer prometheus.Gatherer
	Release  bool
}

// SetupRouter configures the Gin router with middleware and routes
func SetupRouter(urlHandler *URLHandler, opts RouterOptions, log *logger.Logger) *gin.Engine {
	if opts.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log))
	if opts.Metrics != nil {
		router.Use(MetricsMiddleware(opts.Metrics))
	}
	router.Use(SecurityHeadersMiddleware())

	router.GET("/", urlHandler.Index)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, domain.HealthResponse{
			Status:  "healthy",
			Service: "shortlink",
		})
	})

	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	router.GET("/"+ReservedCreatePath, urlHandler.CreateShortLink)

	// Short URL redirection
	router.GET("/:shortCode", urlHandler.RedirectURL)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, domain.ErrorResponse{
			Error: "endpoint not found",
		})
	})

	return router
}
