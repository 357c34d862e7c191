package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver records one handled request. Satisfied by *metrics.Metrics.
type RequestObserver interface {
	ObserveHTTPRequest(method, route string, status int, elapsed time.Duration)
}

// HTTPMetrics counts requests and their latency by method, route template
// and status.
func HTTPMetrics(observer RequestObserver) gin.HandlerFunc {
	if observer == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		observer.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
