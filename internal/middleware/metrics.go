package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command errors observed by the cache client hook.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bazaar_redis_errors_total",
	Help: "Total number of Redis command errors",
}, []string{"command"})

var (
	metricsOnce sync.Once
	promMW      *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus middleware for the given service name.
// The returned middleware registers HTTP request counters/histograms and
// serves them on the route registered via RegisterAt. The middleware is a
// process-wide singleton; the collectors can only be registered once.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	metricsOnce.Do(func() {
		promMW = fiberprometheus.New(serviceName)
	})
	return promMW
}
