package calls

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thanulingayath/reception-agent/api/types"
	"github.com/thanulingayath/reception-agent/internal/services/jobs"
)

// GetJob returns the status of an async processing job
func GetJob(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid job ID"))
			return
		}

		job, err := deps.JobService.GetJob(c.Request.Context(), uint(id))
		if err != nil {
			if errors.Is(err, jobs.ErrJobNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Job not found"))
				return
			}
			deps.Log.WithField("error", err.Error()).Error("Failed to fetch job")
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to fetch job"))
			return
		}

		response := gin.H{
			"status":   "ok",
			"job_id":   job.ID,
			"state":    job.Status,
			"progress": job.Progress,
		}
		if job.Error != "" {
			response["error"] = job.Error
			response["error_type"] = job.ErrorType
		}
		if len(job.Result) > 0 {
			response["result"] = job.Result
		}

		c.JSON(http.StatusOK, response)
	}
}
