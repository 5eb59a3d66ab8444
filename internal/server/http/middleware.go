package http

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/Meesho/BharatMLStack/housing-inference/pkg/metric"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const apiKeyHeader = "X-API-Key"

// HTTPLogger emits request count and latency and writes an access log line
func HTTPLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		statusCode := c.Writer.Status()
		metricTags := metric.BuildTag(
			metric.NewTag(metric.TagPath, path),
			metric.NewTag(metric.TagMethod, method),
			metric.NewTag(metric.TagHttpStatusCode, strconv.Itoa(statusCode)),
		)
		metric.Incr(metric.ApiRequestCount, metricTags)
		metric.Timing(metric.ApiRequestLatency, latency, metricTags)
		log.Info().Msgf("[access] [%s] %s %s %d %v", c.ClientIP(), method, c.Request.URL.Path, statusCode, latency)
	}
}

// APIKeyAuth rejects requests whose X-API-Key header does not match expected.
// An empty expected key rejects every request.
func APIKeyAuth(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(apiKeyHeader)
		if provided == "" || expected == "" ||
			subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			log.Warn().Str("path", c.Request.URL.Path).Msg("Invalid API key attempt")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key"})
			return
		}
		c.Next()
	}
}
