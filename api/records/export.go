package records

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thanulingayath/reception-agent/api/types"
	recordsService "github.com/thanulingayath/reception-agent/internal/services/records"
)

// Export streams all call records as an xlsx workbook
func Export(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		filename := fmt.Sprintf("call_records_%s.xlsx", time.Now().UTC().Format("20060102_150405"))

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

		if err := recordsService.ExportXLSX(c.Request.Context(), deps.RecordService, c.Writer); err != nil {
			deps.Log.WithField("error", err.Error()).Error("Record export failed")
			// Headers may already be written, but surface the failure anyway
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to export records"))
			return
		}
	}
}
