package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/jhaeusler/sessionbot/core/metrics"
)

// PromSink records run events in Prometheus metrics.
type PromSink struct {
	proposals *prometheus.CounterVec
	missing   *prometheus.HistogramVec
	publishes *prometheus.CounterVec
	fetches   *prometheus.CounterVec
	cleanups  prometheus.Counter
}

// NewPromSink registers metrics on the default Prometheus registerer. The
// Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	proposals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sessionbot_proposals_total",
		Help: "Total number of campaign proposals by suggestion tier",
	}, []string{"campaign", "tier"})
	missing := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sessionbot_missing_participants",
		Help:    "Number of roster members still missing on the proposed date",
		Buckets: []float64{0, 1, 2, 3, 5, 8},
	}, []string{"campaign"})
	publishes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sessionbot_publish_total",
		Help: "Total number of report publications by outcome",
	}, []string{"outcome"})
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sessionbot_provider_fetches_total",
		Help: "Total number of provider fetches by result",
	}, []string{"provider", "result"})
	cleanups := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sessionbot_cleanups_total",
		Help: "Number of expired sessions cleaned up",
	})

	sink := &PromSink{proposals: proposals, missing: missing, publishes: publishes, fetches: fetches, cleanups: cleanups}
	collectors := []prometheus.Collector{proposals, missing, publishes, fetches, cleanups}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 0:
				sink.proposals = are.ExistingCollector.(*prometheus.CounterVec)
			case 1:
				sink.missing = are.ExistingCollector.(*prometheus.HistogramVec)
			case 2:
				sink.publishes = are.ExistingCollector.(*prometheus.CounterVec)
			case 3:
				sink.fetches = are.ExistingCollector.(*prometheus.CounterVec)
			case 4:
				sink.cleanups = are.ExistingCollector.(prometheus.Counter)
			}
		}
	}
	return sink, nil
}

// RecordProposals increments the per-campaign tier counters.
func (s *PromSink) RecordProposals(events []coremetrics.ProposalEvent) error {
	for _, ev := range events {
		s.proposals.WithLabelValues(ev.Campaign, ev.Tier.String()).Inc()
		if ev.Date != nil {
			s.missing.WithLabelValues(ev.Campaign).Observe(float64(ev.MissingCount))
		}
	}
	return nil
}

// RecordPublish counts one publication outcome.
func (s *PromSink) RecordPublish(ev coremetrics.PublishEvent) error {
	s.publishes.WithLabelValues(ev.Outcome).Inc()
	return nil
}

// RecordFetch counts one provider fetch.
func (s *PromSink) RecordFetch(ev coremetrics.FetchEvent) error {
	result := "ok"
	if ev.Failed {
		result = "error"
	}
	s.fetches.WithLabelValues(ev.Provider, result).Inc()
	return nil
}

// RecordCleanup counts one cleaned session.
func (s *PromSink) RecordCleanup(coremetrics.CleanupEvent) error {
	s.cleanups.Inc()
	return nil
}

// StartPromServer exposes Prometheus metrics on the given address until the
// context is canceled. A dedicated ServeMux avoids interfering with other
// handlers.
func StartPromServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
