package prometheus

import (
	"time"

	"github.com/hupe1980/vecclust"
	"github.com/prometheus/client_golang/prometheus"
)

var _ vecclust.MetricsCollector = (*Collector)(nil)

// Options configures a Collector.
type Options struct {
	// Namespace prefixes every metric name. Default: "vecclust".
	Namespace string
	// ConstLabels are attached to every metric.
	ConstLabels prometheus.Labels
	// Buckets are the duration histogram buckets in seconds.
	// Default: prometheus.DefBuckets.
	Buckets []float64
}

// Collector implements vecclust.MetricsCollector with Prometheus metrics.
type Collector struct {
	runLatency        *prometheus.HistogramVec
	entities          prometheus.Histogram
	restarts          *prometheus.CounterVec
	restartIterations prometheus.Histogram
	distortion        prometheus.Gauge
	roundLatency      prometheus.Histogram
	swaps             prometheus.Counter
	silhouetteLatency prometheus.Histogram
	silhouette        prometheus.Gauge
}

// New creates a Collector and registers its metrics with reg.
func New(reg prometheus.Registerer, optFns ...func(o *Options)) (*Collector, error) {
	opts := Options{
		Namespace: "vecclust",
		Buckets:   prometheus.DefBuckets,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	c := &Collector{
		runLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   opts.Namespace,
			Name:        "run_duration_seconds",
			Help:        "Duration of clustering runs",
			ConstLabels: opts.ConstLabels,
			Buckets:     opts.Buckets,
		}, []string{"status"}),
		entities: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   opts.Namespace,
			Name:        "run_entities",
			Help:        "Number of entities per clustering run",
			ConstLabels: opts.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(16, 4, 10),
		}),
		restarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "restarts_total",
			Help:        "Completed restarts by stop condition",
			ConstLabels: opts.ConstLabels,
		}, []string{"stop"}),
		restartIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   opts.Namespace,
			Name:        "restart_iterations",
			Help:        "Refinement rounds per restart",
			ConstLabels: opts.ConstLabels,
			Buckets:     prometheus.LinearBuckets(1, 5, 10),
		}),
		distortion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   opts.Namespace,
			Name:        "last_restart_distortion",
			Help:        "Distortion of the most recently completed restart",
			ConstLabels: opts.ConstLabels,
		}),
		roundLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   opts.Namespace,
			Name:        "round_duration_seconds",
			Help:        "Duration of refinement rounds",
			ConstLabels: opts.ConstLabels,
			Buckets:     opts.Buckets,
		}),
		swaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "swaps_total",
			Help:        "Entities that changed cluster across all rounds",
			ConstLabels: opts.ConstLabels,
		}),
		silhouetteLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   opts.Namespace,
			Name:        "silhouette_duration_seconds",
			Help:        "Duration of silhouette scoring",
			ConstLabels: opts.ConstLabels,
			Buckets:     opts.Buckets,
		}),
		silhouette: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   opts.Namespace,
			Name:        "last_silhouette",
			Help:        "Average silhouette of the most recent scored run",
			ConstLabels: opts.ConstLabels,
		}),
	}

	for _, m := range []prometheus.Collector{
		c.runLatency,
		c.entities,
		c.restarts,
		c.restartIterations,
		c.distortion,
		c.roundLatency,
		c.swaps,
		c.silhouetteLatency,
		c.silhouette,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordRun implements vecclust.MetricsCollector.
func (c *Collector) RecordRun(n, _ int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.runLatency.WithLabelValues(status).Observe(duration.Seconds())
	if err == nil {
		c.entities.Observe(float64(n))
	}
}

// RecordRestart implements vecclust.MetricsCollector.
func (c *Collector) RecordRestart(iterations int, converged bool, distortion float64, _ time.Duration) {
	stop := "max_iterations"
	if converged {
		stop = "converged"
	}
	c.restarts.WithLabelValues(stop).Inc()
	c.restartIterations.Observe(float64(iterations))
	c.distortion.Set(distortion)
}

// RecordRound implements vecclust.MetricsCollector.
func (c *Collector) RecordRound(swaps int, duration time.Duration) {
	c.roundLatency.Observe(duration.Seconds())
	c.swaps.Add(float64(swaps))
}

// RecordSilhouette implements vecclust.MetricsCollector.
func (c *Collector) RecordSilhouette(average float64, duration time.Duration) {
	c.silhouetteLatency.Observe(duration.Seconds())
	c.silhouette.Set(average)
}
