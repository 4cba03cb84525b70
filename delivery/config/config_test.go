package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/archive-delivery/delivery/config"
)

// NewConfig is a process-wide singleton, so everything is checked in one test.
func TestNewConfig(t *testing.T) {
	t.Setenv("DELIVERY_HTTP_PORT", "9090")
	t.Setenv("STRICT_OWNERSHIP", "true")
	t.Setenv("UNPAID_CANCEL_AFTER", "72h")
	t.Setenv("KAFKA_ADDRS", "k1:9092,k2:9092")

	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, time.Minute, cfg.Server.WriteTimeout)
	require.Equal(t, zapcore.DebugLevel, cfg.Log.LogLevel)
	require.True(t, cfg.Coordinator.StrictOwnership)
	require.Equal(t, 72*time.Hour, cfg.Coordinator.UnpaidCancelAfter)
	require.Equal(t, time.Hour, cfg.Coordinator.SweepInterval)
	require.Equal(t, 4, cfg.Coordinator.Workers)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Addrs)
	require.Equal(t, "delivery", cfg.Database.NameDB)

	require.Same(t, cfg, config.NewConfig(), "config is read once")
}
