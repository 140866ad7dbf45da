package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterSweepEvery = 5 * time.Minute
)

// CORS lets the browser UI call the API from another origin. An empty
// allowlist (or a "*" entry) admits any origin; otherwise the matching
// origin is echoed back.
func CORS(origins []string) gin.HandlerFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}

		// The UI only sends JSON fetches and multipart uploads
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// BodySizeLimit rejects uploads whose declared length exceeds maxBytes and
// caps the body reader as a backstop for requests that declare nothing.
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"status":  "error",
				"message": fmt.Sprintf("request body exceeds the %d byte limit", maxBytes),
			})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// limiterEntry is one client's token bucket plus the last time it was
// used, so idle entries can be evicted.
type limiterEntry struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// limiterTable hands out per-client token buckets keyed by client IP.
type limiterTable struct {
	entries *sync.Map
	log     *logrus.Entry
}

func newLimiterTable(entries *sync.Map, log *logrus.Entry) *limiterTable {
	return &limiterTable{entries: entries, log: log}
}

// Middleware enforces a sustained rps with the given burst per client.
func (t *limiterTable) Middleware(rps, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if !t.entryFor(clientIP, rps, burst).bucket.Allow() {
			if t.log != nil {
				t.log.WithFields(logrus.Fields{
					"client_ip": clientIP,
					"path":      c.Request.URL.Path,
				}).Warn("Rate limit exceeded")
			}
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "Too many requests, slow down",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (t *limiterTable) entryFor(clientIP string, rps, burst int) *limiterEntry {
	value, _ := t.entries.LoadOrStore(clientIP, &limiterEntry{
		bucket:   rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), burst),
		lastSeen: time.Now(),
	})

	entry := value.(*limiterEntry)
	entry.lastSeen = time.Now()
	return entry
}

// SweepIdle evicts idle client entries until stop is closed.
func (t *limiterTable) SweepIdle(stop <-chan struct{}) {
	ticker := time.NewTicker(limiterSweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-limiterIdleTTL)
			t.entries.Range(func(key, value interface{}) bool {
				if value.(*limiterEntry).lastSeen.Before(cutoff) {
					t.entries.Delete(key)
				}
				return true
			})
		case <-stop:
			return
		}
	}
}
