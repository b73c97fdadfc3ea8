package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mono-ball/MonoBall-sub005/pkg/ui/textbuffer"
)

const namespace = "textpane"

// Metrics exports buffer activity on a private registry so several viewers
// in one process (or tests) never collide on the default one.
type Metrics struct {
	registry *prometheus.Registry

	events        *prometheus.CounterVec
	linesAppended prometheus.Counter
	linesEvicted  prometheus.Counter
	linesCleared  prometheus.Counter
	copiedRunes   prometheus.Counter
	searchMatches prometheus.Gauge
	filteredLines prometheus.Gauge
	residentLines prometheus.Gauge
	totalLines    prometheus.Gauge
}

// NewMetrics registers the collectors. When hub is non-nil its drop count
// is exported too.
func NewMetrics(hub *Hub) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "buffer_events_total",
			Help:      "Buffer events by type.",
		}, []string{"type"}),
		linesAppended: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_appended_total",
			Help:      "Lines appended to the buffer.",
		}),
		linesEvicted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_evicted_total",
			Help:      "Lines evicted from the front of the buffer at capacity.",
		}),
		linesCleared: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_cleared_total",
			Help:      "Lines dropped by Clear.",
		}),
		copiedRunes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "copied_runes_total",
			Help:      "Runes copied to the clipboard.",
		}),
		searchMatches: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "search_matches",
			Help:      "Matches for the most recent search.",
		}),
		filteredLines: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "filtered_lines",
			Help:      "Lines in the filtered view after the last filter change.",
		}),
		residentLines: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resident_lines",
			Help:      "Lines currently held by the buffer.",
		}),
		totalLines: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_lines",
			Help:      "Lines in the displayed content, including virtual lines.",
		}),
	}

	if hub != nil {
		factory.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hub_dropped_total",
			Help:      "Events dropped because a subscriber fell behind.",
		}, func() float64 { return float64(hub.Dropped()) })
	}
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Record updates the collectors for one event.
func (m *Metrics) Record(ev textbuffer.Event) {
	m.events.WithLabelValues(ev.Type.String()).Inc()
	switch ev.Type {
	case textbuffer.EventAppended:
		m.linesAppended.Add(float64(ev.Count))
	case textbuffer.EventEvicted:
		m.linesEvicted.Add(float64(ev.Count))
	case textbuffer.EventCleared:
		m.linesCleared.Add(float64(ev.Count))
	case textbuffer.EventCopied:
		m.copiedRunes.Add(float64(ev.Count))
	case textbuffer.EventSearched:
		m.searchMatches.Set(float64(ev.Count))
	case textbuffer.EventFilterChanged:
		m.filteredLines.Set(float64(ev.Count))
	}
}

// HandleBufferEvent lets Metrics be attached to a buffer directly.
func (m *Metrics) HandleBufferEvent(ev textbuffer.Event) { m.Record(ev) }

// SetLineCounts records the buffer's size, sampled by the host once per
// frame.
func (m *Metrics) SetLineCounts(resident, total int) {
	m.residentLines.Set(float64(resident))
	m.totalLines.Set(float64(total))
}

// Consume records events from hub until ctx is done or the hub closes.
func (m *Metrics) Consume(ctx context.Context, hub *Hub) {
	ch, id := hub.Subscribe()
	defer hub.Unsubscribe(id)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			m.Record(ev.Event)
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
