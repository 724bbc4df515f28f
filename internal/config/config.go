package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BlacklistMongo = "mongo"
	BlacklistRedis = "redis"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration

	MongoURI      string
	MongoDatabase string

	BlacklistBackend   string
	RedisURL           string
	BlacklistRetention time.Duration

	AuditDatabaseURL string
	DBMaxConns       int32
	DBMinConns       int32

	AccessTokenSecret  string
	AccessTokenTTL     time.Duration
	RefreshTokenSecret string
	RefreshTokenTTL    time.Duration
	ResetTokenSecret   string
	ResetTokenTTL      time.Duration
	BcryptCost         int

	CORSOrigins      []string
	TrustedProxies   []netip.Prefix
	RateLimitRPM     int
	AuthRateLimitRPM int

	DefaultPageSize int
	MaxPageSize     int
	PublicBaseURL   string
	APIVersion      string

	SeedOnStart    bool
	SeedPassword   string
	LogLevel       string
	LogFormat      string
	MetricsEnabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),
		MongoURI:                getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:           getEnv("MONGODB_DATABASE", "shop"),
		BlacklistBackend:        strings.ToLower(getEnv("BLACKLIST_BACKEND", BlacklistMongo)),
		RedisURL:                strings.TrimSpace(os.Getenv("REDIS_URL")),
		BlacklistRetention:      getDuration("BLACKLIST_RETENTION", 7*24*time.Hour),
		AuditDatabaseURL:        strings.TrimSpace(os.Getenv("AUDIT_DATABASE_URL")),
		DBMaxConns:              int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:              int32(getInt("DB_MIN_CONNS", 2)),
		AccessTokenSecret:       strings.TrimSpace(os.Getenv("ACCESS_TOKEN_SECRET")),
		AccessTokenTTL:          getDuration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenSecret:      strings.TrimSpace(os.Getenv("REFRESH_TOKEN_SECRET")),
		RefreshTokenTTL:         getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		ResetTokenSecret:        strings.TrimSpace(os.Getenv("RESET_TOKEN_SECRET")),
		ResetTokenTTL:           getDuration("RESET_TOKEN_TTL", time.Hour),
		BcryptCost:              getInt("BCRYPT_COST", 10),
		CORSOrigins:             splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:            getInt("RATE_LIMIT_RPM", 300),
		AuthRateLimitRPM:        getInt("AUTH_RATE_LIMIT_RPM", 10),
		DefaultPageSize:         getInt("DEFAULT_PAGE_SIZE", 10),
		MaxPageSize:             getInt("MAX_PAGE_SIZE", 100),
		PublicBaseURL:           strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080/api"), "/"),
		APIVersion:              getEnv("API_VERSION", "v1"),
		SeedOnStart:             getBool("SEED_ON_START", false),
		SeedPassword:            getEnv("SEED_PASSWORD", "ChangeMe@123"),
		LogLevel:                strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:               strings.ToLower(getEnv("LOG_FORMAT", "pretty")),
		MetricsEnabled:          getBool("METRICS_ENABLED", true),
	}

	proxies, err := parsePrefixes(splitCSV(os.Getenv("TRUSTED_PROXIES")))
	if err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	cfg.TrustedProxies = proxies

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if strings.TrimSpace(c.MongoURI) == "" {
		return fmt.Errorf("MONGODB_URI cannot be empty")
	}

	if strings.TrimSpace(c.MongoDatabase) == "" {
		return fmt.Errorf("MONGODB_DATABASE cannot be empty")
	}

	secrets := map[string]string{
		"ACCESS_TOKEN_SECRET":  c.AccessTokenSecret,
		"REFRESH_TOKEN_SECRET": c.RefreshTokenSecret,
		"RESET_TOKEN_SECRET":   c.ResetTokenSecret,
	}
	seen := map[string]string{}
	for _, key := range []string{"ACCESS_TOKEN_SECRET", "REFRESH_TOKEN_SECRET", "RESET_TOKEN_SECRET"} {
		secret := secrets[key]
		if secret == "" {
			return fmt.Errorf("%s is required", key)
		}
		if other, dup := seen[secret]; dup {
			return fmt.Errorf("%s must differ from %s", key, other)
		}
		seen[secret] = key
	}

	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 || c.ResetTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}

	if c.BlacklistRetention <= 0 {
		return fmt.Errorf("BLACKLIST_RETENTION must be positive")
	}

	switch c.BlacklistBackend {
	case BlacklistMongo:
	case BlacklistRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when BLACKLIST_BACKEND=redis")
		}
	default:
		return fmt.Errorf("BLACKLIST_BACKEND must be %q or %q", BlacklistMongo, BlacklistRedis)
	}

	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	if c.DefaultPageSize <= 0 || c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be positive and not exceed MAX_PAGE_SIZE")
	}

	if c.DBMinConns < 0 || c.DBMaxConns < c.DBMinConns {
		return fmt.Errorf("DB_MAX_CONNS must be at least DB_MIN_CONNS")
	}

	if _, err := url.Parse(c.PublicBaseURL); err != nil {
		return fmt.Errorf("PUBLIC_BASE_URL is invalid: %w", err)
	}

	if c.SeedOnStart && len(c.SeedPassword) < 8 {
		return fmt.Errorf("SEED_PASSWORD must be at least 8 characters")
	}

	switch c.LogFormat {
	case "pretty", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be pretty or json")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}

// parsePrefixes accepts CIDRs and bare addresses; a bare address is a
// single-host prefix.
func parsePrefixes(values []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(values))
	for _, value := range values {
		if strings.Contains(value, "/") {
			prefix, err := netip.ParsePrefix(value)
			if err != nil {
				return nil, err
			}
			out = append(out, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(value)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
