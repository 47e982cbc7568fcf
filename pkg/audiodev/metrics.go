// ABOUTME: Prometheus metrics for the mixing goroutine
// ABOUTME: Registered once on the default registry, labelled by driver
package audiodev

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mixIterations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audiodev_mix_iterations_total",
		Help: "Buffers produced by the mixing goroutine",
	}, []string{"driver"})

	fallbackBuffers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audiodev_fallback_buffers_total",
		Help: "Iterations that wrote to the silence fallback buffer because the driver had none ready",
	}, []string{"driver"})

	runtimeFaults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audiodev_runtime_faults_total",
		Help: "Driver errors that stopped a device",
	}, []string{"driver"})

	conversions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audiodev_conversions_total",
		Help: "Buffers run through the conversion pipeline",
	}, []string{"driver"})

	callbackDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "audiodev_callback_duration_seconds",
		Help:    "Time spent in the application callback",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	}, []string{"driver"})
)

// deviceMetrics binds the vectors to one driver label
type deviceMetrics struct {
	iterations prometheus.Counter
	fallbacks  prometheus.Counter
	faults     prometheus.Counter
	converted  prometheus.Counter
	callback   prometheus.Observer
}

func newDeviceMetrics(driver string) deviceMetrics {
	return deviceMetrics{
		iterations: mixIterations.WithLabelValues(driver),
		fallbacks:  fallbackBuffers.WithLabelValues(driver),
		faults:     runtimeFaults.WithLabelValues(driver),
		converted:  conversions.WithLabelValues(driver),
		callback:   callbackDuration.WithLabelValues(driver),
	}
}
