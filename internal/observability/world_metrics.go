package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorldCollector exposes per-tick world loop metrics.
type WorldCollector struct {
	gatherer prometheus.Gatherer

	TickDuration  prometheus.Histogram
	Ticks         prometheus.Counter
	Transitions   *prometheus.CounterVec
	HandlerErrors prometheus.Counter
	LoadedChunks  prometheus.Gauge
	Age           prometheus.Gauge
}

func NewWorldCollector(reg prometheus.Registerer) (*WorldCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	dur, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "world_tick_duration_seconds",
		Help:    "Wall time spent stepping one world tick.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	}), "world_tick_duration_seconds")
	if err != nil {
		return nil, err
	}
	ticks, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "world_ticks_total",
		Help: "Ticks stepped by the world loop.",
	}), "world_ticks_total")
	if err != nil {
		return nil, err
	}
	transitions, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "world_transitions_total",
		Help: "Output state commits by element kind and new state.",
	}, []string{"kind", "state"}), "world_transitions_total")
	if err != nil {
		return nil, err
	}
	handlerErrs, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "world_handler_errors_total",
		Help: "Errors returned by element handlers during a tick.",
	}), "world_handler_errors_total")
	if err != nil {
		return nil, err
	}
	chunks, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "world_loaded_chunks",
		Help: "Chunks currently loaded.",
	}), "world_loaded_chunks")
	if err != nil {
		return nil, err
	}
	age, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "world_age",
		Help: "Current simulation age.",
	}), "world_age")
	if err != nil {
		return nil, err
	}

	return &WorldCollector{
		gatherer:      gathererFor(reg),
		TickDuration:  dur,
		Ticks:         ticks,
		Transitions:   transitions,
		HandlerErrors: handlerErrs,
		LoadedChunks:  chunks,
		Age:           age,
	}, nil
}

// Handler serves the registry the collector was registered with.
func (c *WorldCollector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func (c *WorldCollector) ObserveTick(d time.Duration, age int64, loadedChunks int) {
	if c == nil {
		return
	}
	c.TickDuration.Observe(d.Seconds())
	c.Ticks.Inc()
	c.Age.Set(float64(age))
	c.LoadedChunks.Set(float64(loadedChunks))
}

func (c *WorldCollector) IncTransition(kind string, on bool) {
	if c == nil || c.Transitions == nil {
		return
	}
	state := "off"
	if on {
		state = "on"
	}
	c.Transitions.WithLabelValues(kind, state).Inc()
}

func (c *WorldCollector) AddHandlerErrors(n int) {
	if c == nil || c.HandlerErrors == nil || n <= 0 {
		return
	}
	c.HandlerErrors.Add(float64(n))
}
