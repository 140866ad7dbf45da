package records

import (
	"github.com/gin-gonic/gin"

	"github.com/thanulingayath/reception-agent/api/types"
)

// RegisterRoutes registers call record routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/records - List recent call records
	router.GET("", GetRecent(deps))

	// GET /api/v1/records/search?q= - Search transcriptions and analyses
	router.GET("/search", Search(deps))

	// GET /api/v1/records/stats - Aggregate call metrics
	router.GET("/stats", GetStats(deps))

	// GET /api/v1/records/export - Download all records as a spreadsheet
	router.GET("/export", Export(deps))

	// GET /api/v1/records/:id - Get a single call record
	router.GET("/:id", GetByID(deps))

	// DELETE /api/v1/records/:id - Delete a call record
	router.DELETE("/:id", DeleteByID(deps))
}
