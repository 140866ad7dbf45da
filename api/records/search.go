package records

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thanulingayath/reception-agent/api/types"
)

// Search returns records matching the query substring
func Search(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Missing search query parameter 'q'"))
			return
		}

		recs, err := deps.RecordService.Search(c.Request.Context(), query)
		if err != nil {
			deps.Log.WithField("error", err.Error()).Error("Record search failed")
			types.RespondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"query":   query,
			"count":   len(recs),
			"records": recs,
		})
	}
}
