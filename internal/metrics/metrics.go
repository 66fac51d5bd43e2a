package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

// Module provides the prometheus registry and the billing metrics
func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			NewRegistry,
			NewBillingMetrics,
		),
	)
}

// NewRegistry creates a registry with the process and go runtime collectors
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}
