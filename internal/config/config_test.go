package config

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
	t.Setenv("RESET_TOKEN_SECRET", "reset")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.ServerPort)
	require.Equal(t, time.Hour, cfg.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, time.Hour, cfg.ResetTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.BlacklistRetention)
	require.Equal(t, BlacklistMongo, cfg.BlacklistBackend)
	require.Equal(t, 10, cfg.DefaultPageSize)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, "v1", cfg.APIVersion)
	require.Empty(t, cfg.TrustedProxies)
}

func TestLoadTrustedProxies(t *testing.T) {
	setRequired(t)
	t.Setenv("TRUSTED_PROXIES", "10.1.2.3/8, 192.0.2.10 ,::1")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.0.2.10/32"),
		netip.MustParsePrefix("::1/128"),
	}, cfg.TrustedProxies)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("SEED_ON_START", "true")
	t.Setenv("RATE_LIMIT_RPM", "not-a-number")
	t.Setenv("PUBLIC_BASE_URL", "https://shop.example/api/")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.True(t, cfg.SeedOnStart)
	require.Equal(t, 300, cfg.RateLimitRPM)
	require.Equal(t, "https://shop.example/api", cfg.PublicBaseURL)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing access secret", map[string]string{"ACCESS_TOKEN_SECRET": ""}},
		{"shared secrets", map[string]string{"RESET_TOKEN_SECRET": "access"}},
		{"redis without url", map[string]string{"BLACKLIST_BACKEND": "redis"}},
		{"unknown backend", map[string]string{"BLACKLIST_BACKEND": "memcached"}},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}},
		{"page size above max", map[string]string{"DEFAULT_PAGE_SIZE": "50", "MAX_PAGE_SIZE": "20"}},
		{"bad trusted proxy", map[string]string{"TRUSTED_PROXIES": "10.0.0.0/8, not-an-ip"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestRedisBackendWithURL(t *testing.T) {
	setRequired(t)
	t.Setenv("BLACKLIST_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BlacklistRedis, cfg.BlacklistBackend)
}
