package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeMatch   = "match"
	OutcomeNoMatch = "no_match"
	OutcomeError   = "error"
)

// Observer captures telemetry for the recognition pipeline.
type Observer interface {
	RecordStore(duration time.Duration, err error)
	RecordLookup(duration time.Duration, err error)
	RecordOutcome(outcome string)
}

type PrometheusObserver struct {
	operationDuration *prometheus.HistogramVec
	operationErrors   *prometheus.CounterVec
	outcomes          *prometheus.CounterVec
}

// NewPrometheusObserver registers the pipeline metrics with reg, or with the
// default registerer when reg is nil.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "facerecd"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	observer := &PrometheusObserver{
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of object store and attribute store calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		operationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Count of failed object store and attribute store calls.",
		}, []string{"operation"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recognitions_total",
			Help:      "Recognition requests by outcome.",
		}, []string{"outcome"}),
	}

	if err := register(reg, &observer.operationDuration); err != nil {
		return nil, err
	}
	if err := register(reg, &observer.operationErrors); err != nil {
		return nil, err
	}
	if err := register(reg, &observer.outcomes); err != nil {
		return nil, err
	}
	return observer, nil
}

// register swaps *c for the already registered collector on a duplicate
// registration so repeated construction keeps reporting into one series.
func register[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				*c = existing
				return nil
			}
		}
		return fmt.Errorf("register metric: %w", err)
	}
	return nil
}

func (o *PrometheusObserver) RecordStore(duration time.Duration, err error) {
	o.record("store", duration, err)
}

func (o *PrometheusObserver) RecordLookup(duration time.Duration, err error) {
	o.record("lookup", duration, err)
}

func (o *PrometheusObserver) RecordOutcome(outcome string) {
	if o == nil {
		return
	}
	o.outcomes.WithLabelValues(outcome).Inc()
}

func (o *PrometheusObserver) record(op string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.operationDuration.WithLabelValues(op).Observe(duration.Seconds())
	if err != nil {
		o.operationErrors.WithLabelValues(op).Inc()
	}
}

type nopObserver struct{}

func (nopObserver) RecordStore(time.Duration, error) {}

func (nopObserver) RecordLookup(time.Duration, error) {}

func (nopObserver) RecordOutcome(string) {}

// Nop returns an Observer that drops everything.
func Nop() Observer {
	return nopObserver{}
}
