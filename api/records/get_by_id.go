package records

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thanulingayath/reception-agent/api/types"
)

// GetByID returns a single call record
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid record ID"))
			return
		}

		record, err := deps.RecordService.GetByID(c.Request.Context(), uint(id))
		if err != nil {
			types.RespondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"record": record,
		})
	}
}
