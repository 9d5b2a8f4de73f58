package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"ERP_ISSUER", "PORT", "METRICS_ENABLED", "VAT_CACHE_TTL", "REDIS_ADDR", "STRIPE_SECRET_KEY"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "outrenational-erp", cfg.Issuer)
	require.Equal(t, 8080, cfg.Port)
	require.True(t, cfg.MetricsEnabled)
	require.Equal(t, 24*time.Hour, cfg.VATCacheTTL)
	require.Empty(t, cfg.RedisAddr)
	require.Empty(t, cfg.StripeSecretKey)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("HOUSEKEEPING_INTERVAL", "15")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "3s")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := LoadConfig()
	require.Equal(t, 9090, cfg.Port)
	require.False(t, cfg.MetricsEnabled)
	require.Equal(t, 15*time.Minute, cfg.HousekeepingInterval)
	require.Equal(t, 3*time.Second, cfg.ShutdownGracePeriod)
	require.Zero(t, cfg.RedisDB)
}
