// Package metrics exposes watch face counters and gauges.
package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/go-wv58a/internal/config"
)

// Recorder is the set of hooks the application reports through.
// A nil *PrometheusRecorder is a valid no-op Recorder.
type Recorder interface {
	IncTick()
	IncRefresh()
	IncConfigMessage(transport, result string)
	IncVibration()
	SetBattery(percent int, charging bool)
	SetLinkConnected(connected bool)
}

// Exporter is implemented by recorders that can serve their metrics over HTTP.
type Exporter interface {
	Handler() http.Handler
}

// Nop is a Recorder that drops everything.
type Nop struct{}

func (Nop) IncTick()                     {}
func (Nop) IncRefresh()                  {}
func (Nop) IncConfigMessage(_, _ string) {}
func (Nop) IncVibration()                {}
func (Nop) SetBattery(_ int, _ bool)     {}
func (Nop) SetLinkConnected(_ bool)      {}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}
	return r
}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg        *prom.Registry
	ticks      prom.Counter
	refreshes  prom.Counter
	messages   *prom.CounterVec
	vibrations prom.Counter
	battery    prom.Gauge
	charging   prom.Gauge
	linkUp     prom.Gauge
}

var (
	_ Recorder = (*PrometheusRecorder)(nil)
	_ Exporter = (*PrometheusRecorder)(nil)
	_ Recorder = Nop{}
)

// NewPrometheusRecorder registers the watch metrics on reg, or on a fresh
// registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		ticks: prom.NewCounter(prom.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      "ticks_total",
			Help:      "Second ticks handled by the face",
		}),
		refreshes: prom.NewCounter(prom.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      "refreshes_total",
			Help:      "Full refreshes of time, date, weekday and year",
		}),
		messages: prom.NewCounterVec(prom.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      "config_messages_total",
			Help:      "Configuration messages by transport and result",
		}, []string{"transport", "result"}),
		vibrations: prom.NewCounter(prom.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      "vibrations_total",
			Help:      "Hourly vibrations fired",
		}),
		battery: prom.NewGauge(prom.GaugeOpts{
			Namespace: config.MetricsNamespace,
			Name:      "battery_percent",
			Help:      "Last reported battery charge",
		}),
		charging: prom.NewGauge(prom.GaugeOpts{
			Namespace: config.MetricsNamespace,
			Name:      "battery_charging",
			Help:      "1 while the battery is charging",
		}),
		linkUp: prom.NewGauge(prom.GaugeOpts{
			Namespace: config.MetricsNamespace,
			Name:      "link_connected",
			Help:      "1 while a bluetooth device is connected",
		}),
	}
	reg.MustRegister(pr.ticks, pr.refreshes, pr.messages, pr.vibrations, pr.battery, pr.charging, pr.linkUp)
	return pr
}

// Registry returns the registry the metrics live on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	if p == nil {
		return nil
	}
	return p.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	if p == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (p *PrometheusRecorder) IncTick() {
	if p == nil {
		return
	}
	p.ticks.Inc()
}

func (p *PrometheusRecorder) IncRefresh() {
	if p == nil {
		return
	}
	p.refreshes.Inc()
}

func (p *PrometheusRecorder) IncConfigMessage(transport, result string) {
	if p == nil {
		return
	}
	p.messages.WithLabelValues(transport, result).Inc()
}

func (p *PrometheusRecorder) IncVibration() {
	if p == nil {
		return
	}
	p.vibrations.Inc()
}

func (p *PrometheusRecorder) SetBattery(percent int, charging bool) {
	if p == nil {
		return
	}
	p.battery.Set(float64(percent))
	p.charging.Set(boolGauge(charging))
}

func (p *PrometheusRecorder) SetLinkConnected(connected bool) {
	if p == nil {
		return
	}
	p.linkUp.Set(boolGauge(connected))
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
