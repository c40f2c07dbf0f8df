package metrics

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry with the evaluation and publishing
// metrics. It implements services.Metrics and publisher.PublisherMetrics.
type Collector struct {
	reg *prometheus.Registry

	LegsAppended *prometheus.CounterVec // result label: feasible|infeasible

	PathsFinalized   prometheus.Counter
	FinalizeDuration prometheus.Histogram

	PathSetsEvaluated  prometheus.Counter
	PathSetSize        prometheus.Histogram
	CandidatesRejected prometheus.Counter
	PathsTruncated     prometheus.Counter

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge
	PublishDuration prometheus.Histogram

	Dispersion prometheus.Gauge
	Workers    prometheus.Gauge
}

func NewCollector(dispersion float64, workers int) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		LegsAppended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathset_legs_appended_total",
			Help: "Legs offered to paths under assembly, by feasibility.",
		}, []string{"result"}),
		PathsFinalized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pathset_paths_finalized_total",
			Help: "Total feasible paths scored.",
		}),
		FinalizeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pathset_finalize_duration_seconds",
			Help:    "Duration of scoring one completed path.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 15),
		}),
		PathSetsEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pathset_sets_evaluated_total",
			Help: "Total path requests evaluated.",
		}),
		PathSetSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pathset_set_size",
			Help:    "Distinct paths kept per request.",
			Buckets: prometheus.LinearBuckets(0, 2, 11),
		}),
		CandidatesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pathset_candidates_rejected_total",
			Help: "Candidate leg sequences discarded as infeasible.",
		}),
		PathsTruncated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pathset_paths_truncated_total",
			Help: "Improbable paths dropped from path sets.",
		}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pathset_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pathset_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pathset_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pathset_publish_duration_seconds",
			Help:    "Duration to marshal and publish a path set.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		Dispersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pathset_dispersion",
			Help: "Logit dispersion used for path choice.",
		}),
		Workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pathset_eval_workers",
			Help: "Concurrent evaluation workers per batch.",
		}),
	}

	reg.MustRegister(
		c.LegsAppended,
		c.PathsFinalized, c.FinalizeDuration,
		c.PathSetsEvaluated, c.PathSetSize, c.CandidatesRejected, c.PathsTruncated,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected, c.PublishDuration,
		c.Dispersion, c.Workers,
	)

	c.Dispersion.Set(dispersion)
	c.Workers.Set(float64(workers))

	return c
}

func (c *Collector) LegAppended(feasible bool) {
	result := "feasible"
	if !feasible {
		result = "infeasible"
	}
	c.LegsAppended.WithLabelValues(result).Inc()
}

func (c *Collector) PathFinalized(d time.Duration) {
	c.PathsFinalized.Inc()
	c.FinalizeDuration.Observe(d.Seconds())
}

func (c *Collector) PathSetEvaluated(paths, rejected, truncated int) {
	c.PathSetsEvaluated.Inc()
	c.PathSetSize.Observe(float64(paths))
	c.CandidatesRejected.Add(float64(rejected))
	c.PathsTruncated.Add(float64(truncated))
}

func (c *Collector) NATSPublishedInc()              { c.NATSPublished.Inc() }
func (c *Collector) NATSPublishErrInc()             { c.NATSPublishErrs.Inc() }
func (c *Collector) PublishObserve(d time.Duration) { c.PublishDuration.Observe(d.Seconds()) }
func (c *Collector) NATSSetConnected(connected bool) {
	if connected {
		c.NATSConnected.Set(1)
		return
	}
	c.NATSConnected.Set(0)
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "err", err)
		}
	}()
	logger.Info("metrics listening", "addr", addr)
	return srv
}
