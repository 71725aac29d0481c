package observability

import (
	"github.com/InteliJR/pricehub/internal/observability/logger"
	"github.com/InteliJR/pricehub/internal/observability/metrics"
	"github.com/InteliJR/pricehub/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		func(cfg Config) logger.Config {
			return logger.Config{
				ServiceName:         cfg.ServiceName,
				Environment:         cfg.Environment,
				Version:             cfg.Version,
				Level:               cfg.LogLevel,
				Format:              cfg.LogFormat,
				Debug:               cfg.Debug(),
				IncludeCaller:       true,
				IncludeStackOnError: cfg.Debug(),
			}
		},
		logger.New,
		func(cfg Config) tracing.Config {
			return tracing.Config{
				Enabled:          cfg.Telemetry.Enabled,
				ServiceName:      cfg.ServiceName,
				ServiceVersion:   cfg.Version,
				Environment:      cfg.Environment,
				ExporterEndpoint: cfg.Telemetry.Endpoint,
				ExporterProtocol: cfg.Telemetry.Protocol,
				SamplingRatio:    cfg.Telemetry.SamplingRatio,
			}
		},
		tracing.NewProvider,
		func(cfg Config) metrics.Config {
			return metrics.Config{
				Enabled:          cfg.Telemetry.Enabled,
				ExporterEndpoint: cfg.Telemetry.Endpoint,
				ExporterProtocol: cfg.Telemetry.Protocol,
				ServiceName:      cfg.ServiceName,
				Environment:      cfg.Environment,
			}
		},
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
	),
	// Force the tracer provider so the global propagator is installed.
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)
