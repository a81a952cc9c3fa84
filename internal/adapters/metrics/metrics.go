package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Noop implements port.Metrics without emitting anything.
type Noop struct{}

// NewNoop creates a metrics sink that discards every observation.
func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) IncUpload(string)                 {}
func (*Noop) ObserveTranscode(string, float64) {}
func (*Noop) AddSwept(int)                     {}
func (*Noop) SetArtifacts(int)                 {}

// Prom implements port.Metrics backed by Prometheus collectors.
type Prom struct {
	uploads    *prometheus.CounterVec
	transcodes *prometheus.HistogramVec
	swept      prometheus.Counter
	artifacts  prometheus.Gauge
	once       sync.Once
}

// NewProm creates and registers the Prometheus collectors for the service.
func NewProm(namespace string) *Prom {
	p := &Prom{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Uploads received by outcome status",
		}, []string{"status"}),
		transcodes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcode_seconds",
			Help:      "Transcode duration seconds by outcome",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		swept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_swept_total",
			Help:      "Artifacts removed by the expiry sweeper",
		}),
		artifacts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "artifacts",
			Help:      "Artifacts currently tracked by the registry",
		}),
	}
	p.register()
	return p
}

func (p *Prom) register() {
	p.once.Do(func() {
		prometheus.MustRegister(p.uploads, p.transcodes, p.swept, p.artifacts)
	})
}

func (p *Prom) IncUpload(status string) {
	p.uploads.WithLabelValues(status).Inc()
}

func (p *Prom) ObserveTranscode(outcome string, seconds float64) {
	p.transcodes.WithLabelValues(outcome).Observe(seconds)
}

func (p *Prom) AddSwept(count int) {
	p.swept.Add(float64(count))
}

func (p *Prom) SetArtifacts(count int) {
	p.artifacts.Set(float64(count))
}

// Handler returns an HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
