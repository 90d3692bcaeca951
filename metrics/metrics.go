// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PasteCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rbin_paste_created_total",
		Help: "Number of pastes created",
	})
	PasteServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rbin_paste_served_total",
		Help: "Number of pastes served",
	})
	PasteNotFound = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rbin_paste_not_found_total",
		Help: "Number of lookups for pastes that do not exist",
	})
	IDCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rbin_id_collisions_total",
		Help: "Number of generated ids that were already taken",
	})
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rbin_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Middleware records the duration of every request. The route template is
// used as the path label so paste ids do not blow up label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
