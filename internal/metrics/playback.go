// Package metrics exports playback activity as Prometheus metrics and
// samples the runtime's memory statistics for the terminal dashboard.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agbru/easeplay/internal/easing"
	"github.com/agbru/easeplay/internal/player"
)

// Namespace prefixes every metric name.
const Namespace = "easeplay"

// Playback is a player.Observer recording sessions into its own registry.
// It must be registered on the controller's loop goroutine but may be
// scraped from any goroutine.
type Playback struct {
	registry *prometheus.Registry

	sessions    *prometheus.CounterVec
	completions prometheus.Counter
	stops       prometheus.Counter
	staleTicks  prometheus.Counter
	values      prometheus.Counter
	current     prometheus.Gauge
	elapsed     prometheus.Gauge
	interval    prometheus.Gauge
	duration    prometheus.Histogram
}

var _ player.Observer = (*Playback)(nil)

// NewPlayback creates the playback metrics in a fresh registry that also
// carries the Go runtime collector.
func NewPlayback() *Playback {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Playback{
		registry: reg,
		sessions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "sessions_total",
			Help:      "Play sessions started, by direction.",
		}, []string{"direction"}),
		completions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "completions_total",
			Help:      "Play sessions that reached the end of their segment.",
		}),
		stops: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "stops_total",
			Help:      "Play sessions interrupted by Stop.",
		}),
		staleTicks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "stale_ticks_total",
			Help:      "Ticks discarded because their session was superseded.",
		}),
		values: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "values_reported_total",
			Help:      "Values delivered to the progress callback.",
		}),
		current: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "current_value",
			Help:      "Last value delivered to the progress callback.",
		}),
		elapsed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "elapsed_milliseconds",
			Help:      "Elapsed play time in the current direction.",
		}),
		interval: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "tick_interval_seconds",
			Help:      "Tick period of the current session.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "session_duration_milliseconds",
			Help:      "Curve duration of completed sessions.",
			Buckets:   prometheus.ExponentialBuckets(10, 2, 12),
		}),
	}
}

// Registry returns the registry holding the playback metrics.
func (p *Playback) Registry() *prometheus.Registry { return p.registry }

func (p *Playback) SessionStarted(state player.State, f easing.Factors, interval time.Duration) {
	direction := "forward"
	if state == player.PlayingBackward {
		direction = "backward"
	}
	p.sessions.WithLabelValues(direction).Inc()
	p.interval.Set(interval.Seconds())
}

func (p *Playback) ValueReported(value int, elapsedMs float64) {
	p.values.Inc()
	p.current.Set(float64(value))
	p.elapsed.Set(elapsedMs)
}

func (p *Playback) TickDropped() { p.staleTicks.Inc() }

func (p *Playback) SessionCompleted(elapsedMs float64) {
	p.completions.Inc()
	p.elapsed.Set(elapsedMs)
	p.duration.Observe(elapsedMs)
}

func (p *Playback) SessionStopped(elapsedMs float64) {
	p.stops.Inc()
	p.elapsed.Set(elapsedMs)
}
