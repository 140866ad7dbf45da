package records

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thanulingayath/reception-agent/api/types"
)

// GetRecent returns the most recent call records
func GetRecent(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid limit parameter"))
				return
			}
			limit = parsed
		}

		recs, err := deps.RecordService.ListRecent(c.Request.Context(), limit)
		if err != nil {
			deps.Log.WithField("error", err.Error()).Error("Failed to list records")
			types.RespondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"count":   len(recs),
			"records": recs,
		})
	}
}
