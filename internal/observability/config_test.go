package observability

import (
	"testing"

	"github.com/InteliJR/pricehub/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig(config.Config{
		Environment: " Production ",
		AppVersion:  "1.2.0",
		LogLevel:    "info",
		Telemetry:   config.TelemetryConfig{SamplingRatio: 3},
	})

	assert.Equal(t, defaultServiceName, cfg.ServiceName)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	assert.False(t, cfg.Debug())
}

func TestDebug(t *testing.T) {
	assert.True(t, Config{Environment: "development"}.Debug())
	assert.True(t, Config{Environment: "production", LogLevel: "DEBUG"}.Debug())
}
