package bootstrap

import (
	"studio-booking/internal/handler"
	"studio-booking/internal/infra/metrics"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
	),
)

type MetricsResult struct {
	fx.Out

	Business commands.Metrics
	Exporter handler.MetricsExporter
}

// NewMetrics leaves Exporter nil when metrics are disabled.
func NewMetrics(cfg config.Config) MetricsResult {
	if !cfg.Metrics.Enabled {
		return MetricsResult{Business: metrics.Discard{}}
	}
	p := metrics.New()
	return MetricsResult{Business: p, Exporter: p}
}
