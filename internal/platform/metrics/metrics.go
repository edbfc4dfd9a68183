// Package metrics owns the process wide Prometheus registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry collects the metrics of every component plus the Go runtime.
type Registry struct {
	*prometheus.Registry
	buildInfo *prometheus.GaugeVec
}

func New(version string) *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r := &Registry{
		Registry: reg,
		buildInfo: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "caseflow_build_info",
			Help: "Build information of the running binary",
		}, []string{"version"}),
	}
	r.buildInfo.WithLabelValues(version).Set(1)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{Registry: r.Registry})
}
