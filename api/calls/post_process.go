package calls

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/thanulingayath/reception-agent/api/types"
	"github.com/thanulingayath/reception-agent/internal/models"
	"github.com/thanulingayath/reception-agent/pkg/audio"
)

// Post accepts a call recording upload and runs it through the pipeline.
// With async=true the file is queued instead and a job id returned.
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Missing audio file upload 'file'"))
			return
		}

		if !audio.IsAudioFile(fileHeader.Filename, nil) {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Unsupported audio format"))
			return
		}

		language := c.PostForm("language")
		async := strings.EqualFold(c.PostForm("async"), "true") || c.Query("async") == "true"

		uploadDir := deps.UploadDir
		if uploadDir == "" {
			uploadDir = os.TempDir()
		}
		if err := os.MkdirAll(uploadDir, 0755); err != nil {
			deps.Log.WithField("error", err.Error()).Error("Cannot create upload directory")
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to store upload"))
			return
		}

		// Prefix with a UUID so concurrent uploads of the same filename
		// never clobber each other on disk
		stagedName := uuid.New().String() + "_" + filepath.Base(fileHeader.Filename)
		stagedPath := filepath.Join(uploadDir, stagedName)

		if err := c.SaveUploadedFile(fileHeader, stagedPath); err != nil {
			deps.Log.WithField("error", err.Error()).Error("Failed to save upload")
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to store upload"))
			return
		}

		log := deps.Log.WithFields(logrus.Fields{
			"filename": fileHeader.Filename,
			"async":    async,
		})

		if async {
			job, err := deps.JobService.EnqueueUniqueJob(c.Request.Context(), models.JobTypeCallProcessing,
				models.JobPayload{
					"path":     stagedPath,
					"filename": fileHeader.Filename,
					"language": language,
					"cleanup":  true,
				}, "path")
			if err != nil {
				os.Remove(stagedPath)
				log.WithField("error", err.Error()).Error("Failed to enqueue processing job")
				c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to queue call for processing"))
				return
			}

			log.WithField("job_id", job.ID).Info("Call queued for processing")

			c.JSON(http.StatusAccepted, gin.H{
				"status": "queued",
				"job_id": job.ID,
			})
			return
		}

		defer os.Remove(stagedPath)

		record, err := deps.Pipeline.ProcessAs(c.Request.Context(), stagedPath, language, fileHeader.Filename)
		if err != nil {
			log.WithField("error", err.Error()).Error("Call processing failed")
			types.RespondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"status": "ok",
			"record": record,
		})
	}
}
