package api

import (
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/thanulingayath/reception-agent/api/calls"
	"github.com/thanulingayath/reception-agent/api/health"
	"github.com/thanulingayath/reception-agent/api/records"
	"github.com/thanulingayath/reception-agent/api/types"
	"github.com/thanulingayath/reception-agent/api/version"
	jobsService "github.com/thanulingayath/reception-agent/internal/services/jobs"
	recordsService "github.com/thanulingayath/reception-agent/internal/services/records"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		deps = &types.Dependencies{}
	}

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// Initialize services from the database if the caller did not wire them
	if deps.DB != nil && deps.DB.DB != nil {
		if deps.RecordService == nil {
			deps.RecordService = recordsService.NewService(recordsService.NewRepository(deps.DB.DB))
		}
		if deps.JobService == nil && deps.Log != nil {
			deps.JobService = jobsService.NewService(jobsService.NewRepository(deps.DB.DB), deps.Log)
		}
	}

	// API v1 routes
	v1 := engine.Group("/api/v1")

	callsRPS, recordsRPS := 10, 60
	if deps.Config != nil && deps.Config.RateLimiting.Enabled {
		if rps, ok := deps.Config.RateLimiting.Endpoints["calls"]; ok && rps > 0 {
			callsRPS = rps
		}
		if rps, ok := deps.Config.RateLimiting.Endpoints["records"]; ok && rps > 0 {
			recordsRPS = rps
		}
	}

	limits := newLimiterTable(rateLimiters, deps.Log)
	cleanupInitialized.Do(func() {
		go limits.SweepIdle(cleanupStop)
	})

	// Call upload and processing routes are expensive, keep the rate low
	callsGroup := v1.Group("/calls")
	callsGroup.Use(limits.Middleware(callsRPS, callsRPS*2))
	calls.RegisterRoutes(callsGroup, deps)

	// Record browsing routes
	recordsGroup := v1.Group("/records")
	recordsGroup.Use(limits.Middleware(recordsRPS, recordsRPS*2))
	records.RegisterRoutes(recordsGroup, deps)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
