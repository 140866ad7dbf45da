package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Values injected at build time via -ldflags
var (
	Version = "1.0.0"
	Commit  = "unknown"
)

// Get handles version requests
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Reception Agent API",
			"version":     Version,
			"commit":      Commit,
			"description": "Call transcription and analysis service",
			"status":      "running",
		})
	}
}
