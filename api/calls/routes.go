package calls

import (
	"github.com/gin-gonic/gin"

	"github.com/thanulingayath/reception-agent/api/types"
)

// RegisterRoutes registers call processing routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// POST /api/v1/calls - Upload and process a call recording
	router.POST("", Post(deps))

	// GET /api/v1/calls/jobs/:id - Check async processing status
	router.GET("/jobs/:id", GetJob(deps))
}
