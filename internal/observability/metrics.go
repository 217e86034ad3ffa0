// Package observability holds tracing and metrics instrumentation.
package observability

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PostsCreated counts successfully committed posts.
var PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chronicle_posts_created_total",
	Help: "Number of posts created since process start.",
})

// CommentsCreated counts successfully committed comments.
var CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chronicle_comments_created_total",
	Help: "Number of comments created since process start.",
})

var (
	httpMetricsOnce sync.Once
	httpMetrics     *fiberprometheus.FiberPrometheus
)

// NewHTTPMetrics returns the Prometheus middleware collecting per-route
// request counts and latencies. The underlying collectors register with
// the default registry exactly once, so repeated server construction in
// tests is safe.
func NewHTTPMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	httpMetricsOnce.Do(func() {
		httpMetrics = fiberprometheus.New(serviceName)
	})
	return httpMetrics
}
