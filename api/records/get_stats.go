package records

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thanulingayath/reception-agent/api/types"
)

// GetStats returns aggregate metrics over the call history
func GetStats(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := deps.RecordService.Stats(c.Request.Context())
		if err != nil {
			deps.Log.WithField("error", err.Error()).Error("Failed to compute record stats")
			types.RespondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"stats":  stats,
		})
	}
}
