package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Drop reasons reported by the dynamic scheduler.
const (
	DropUnloaded = "unloaded"
	DropStale    = "stale"
)

// SchedulerCollector exposes dynamic update queue metrics.
// A nil collector is valid and records nothing.
type SchedulerCollector struct {
	gatherer prometheus.Gatherer

	Scheduled  prometheus.Counter
	Dispatched prometheus.Counter
	Failed     prometheus.Counter
	Dropped    *prometheus.CounterVec
	Pending    prometheus.Gauge
}

// NewSchedulerCollector registers scheduler metrics against the provided registerer.
func NewSchedulerCollector(reg prometheus.Registerer) (*SchedulerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	scheduled, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signal_events_scheduled_total",
		Help: "Dynamic updates accepted by the scheduler.",
	}), "signal_events_scheduled_total")
	if err != nil {
		return nil, err
	}
	dispatched, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signal_events_dispatched_total",
		Help: "Dynamic updates delivered to their element handler.",
	}), "signal_events_dispatched_total")
	if err != nil {
		return nil, err
	}
	failed, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signal_events_failed_total",
		Help: "Dynamic updates whose handler returned an error.",
	}), "signal_events_failed_total")
	if err != nil {
		return nil, err
	}
	dropped, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_events_dropped_total",
		Help: "Dynamic updates discarded without dispatch, by reason.",
	}, []string{"reason"}), "signal_events_dropped_total")
	if err != nil {
		return nil, err
	}
	pending, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "signal_events_pending",
		Help: "Dynamic updates waiting for their fire time.",
	}), "signal_events_pending")
	if err != nil {
		return nil, err
	}

	return &SchedulerCollector{
		gatherer:   gathererFor(reg),
		Scheduled:  scheduled,
		Dispatched: dispatched,
		Failed:     failed,
		Dropped:    dropped,
		Pending:    pending,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *SchedulerCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

func (c *SchedulerCollector) IncScheduled() {
	if c == nil || c.Scheduled == nil {
		return
	}
	c.Scheduled.Inc()
}

func (c *SchedulerCollector) IncDispatched() {
	if c == nil || c.Dispatched == nil {
		return
	}
	c.Dispatched.Inc()
}

func (c *SchedulerCollector) IncFailed() {
	if c == nil || c.Failed == nil {
		return
	}
	c.Failed.Inc()
}

func (c *SchedulerCollector) AddDropped(reason string, n int) {
	if c == nil || c.Dropped == nil || n <= 0 {
		return
	}
	c.Dropped.WithLabelValues(reason).Add(float64(n))
}

func (c *SchedulerCollector) SetPending(n int) {
	if c == nil || c.Pending == nil {
		return
	}
	c.Pending.Set(float64(n))
}
