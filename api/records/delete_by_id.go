package records

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thanulingayath/reception-agent/api/types"
)

// DeleteByID removes a call record
func DeleteByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid record ID"))
			return
		}

		if err := deps.RecordService.DeleteByID(c.Request.Context(), uint(id)); err != nil {
			types.RespondError(c, err)
			return
		}

		deps.Log.WithField("record_id", id).Info("Record deleted")

		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"id":     id,
		})
	}
}
