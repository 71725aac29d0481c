package observability

import (
	"strings"

	"github.com/InteliJR/pricehub/internal/config"
)

const defaultServiceName = "pricehub"

// Config is the slice of application config the logger, tracer and meter need.
type Config struct {
	ServiceName string
	Environment string
	Version     string
	LogLevel    string
	LogFormat   string
	Telemetry   config.TelemetryConfig
}

func LoadConfig(cfg config.Config) Config {
	name := strings.TrimSpace(cfg.AppName)
	if name == "" {
		name = defaultServiceName
	}
	telemetry := cfg.Telemetry
	if telemetry.SamplingRatio < 0 || telemetry.SamplingRatio > 1 {
		telemetry.SamplingRatio = 1
	}

	return Config{
		ServiceName: name,
		Environment: strings.ToLower(strings.TrimSpace(cfg.Environment)),
		Version:     strings.TrimSpace(cfg.AppVersion),
		LogLevel:    cfg.LogLevel,
		LogFormat:   cfg.LogFormat,
		Telemetry:   telemetry,
	}
}

// Debug enables verbose logging and gin debug mode outside deployed environments.
func (c Config) Debug() bool {
	if strings.EqualFold(strings.TrimSpace(c.LogLevel), "debug") {
		return true
	}
	switch c.Environment {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}
