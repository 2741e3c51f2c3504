// Package metrics expone métricas Prometheus de la carga de widgets.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
)

const namespace = "dashboard"

// Collector implementa widget.Observer sobre un registro propio (no el global).
type Collector struct {
	registry  *prometheus.Registry
	loads     *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	discarded *prometheus.CounterVec
	boards    prometheus.GaugeFunc
}

// New crea el colector. openBoards, si no es nil, alimenta el gauge de tableros abiertos.
func New(openBoards func() int) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "widget_loads_total",
			Help:      "Cargas de widget aplicadas, por widget y resultado.",
		}, []string{"widget", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "widget_load_duration_seconds",
			Help:      "Duración de las cargas de widget aplicadas.",
			Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"widget"}),
		discarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "widget_stale_responses_total",
			Help:      "Respuestas descartadas porque llegó una carga más reciente.",
		}, []string{"widget"}),
	}

	c.registry.MustRegister(
		c.loads,
		c.latency,
		c.discarded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if openBoards != nil {
		c.boards = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_boards",
			Help:      "Tableros montados actualmente.",
		}, func() float64 { return float64(openBoards()) })
		c.registry.MustRegister(c.boards)
	}
	return c
}

// Settled implementa widget.Observer.
func (c *Collector) Settled(widgetID string, status widget.Status, elapsed time.Duration) {
	c.loads.WithLabelValues(widgetID, string(status)).Inc()
	c.latency.WithLabelValues(widgetID).Observe(elapsed.Seconds())
}

// Discarded implementa widget.Observer.
func (c *Collector) Discarded(widgetID string) {
	c.discarded.WithLabelValues(widgetID).Inc()
}

// Registry registro con todas las métricas.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler handler HTTP de exposición (formato texto de Prometheus).
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
