package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Location   LocationConfig
	Catalog    CatalogConfig
	Monitoring MonitoringConfig
}

type ServerConfig struct {
	Port string
	Env  string
	Host string
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	KeyPrefix string
}

type DatabaseConfig struct {
	Driver string // "postgres" or "sqlite"
	DSN    string
}

type AuthConfig struct {
	JWTSecret      string
	Issuer         string
	SessionTTL     time.Duration
	HashIterations int
	SweepInterval  time.Duration
}

type RateLimitConfig struct {
	RequestsPerMinute    int
	LoginAttemptsPerMin  int
	RegistrationsPerHour int
}

type LocationConfig struct {
	DefaultLatitude  float64
	DefaultLongitude float64
	GeohashPrecision uint
	MaxRadiusMeters  float64
}

type CatalogConfig struct {
	SeedFile string
	CacheTTL time.Duration
}

type MonitoringConfig struct {
	EnableMetrics bool
	LogLevel      string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
			Host: getEnv("HOST", "0.0.0.0"),
		},
		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnv("REDIS_PORT", "6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "silverlink:"),
		},
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			DSN:    getEnv("DB_DSN", "silverlink.db"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			Issuer:         getEnv("JWT_ISSUER", "silverlink"),
			SessionTTL:     time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 60*24)) * time.Minute,
			HashIterations: getEnvAsInt("PASSWORD_HASH_ITERATIONS", 15000),
			SweepInterval:  time.Duration(getEnvAsInt("SESSION_SWEEP_MINUTES", 5)) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute:    getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MIN", 120),
			LoginAttemptsPerMin:  getEnvAsInt("RATE_LIMIT_LOGIN_PER_MIN", 5),
			RegistrationsPerHour: getEnvAsInt("RATE_LIMIT_REGISTRATIONS_PER_HOUR", 10),
		},
		Location: LocationConfig{
			// Seoul City Hall
			DefaultLatitude:  getEnvAsFloat("DEFAULT_LATITUDE", 37.5665),
			DefaultLongitude: getEnvAsFloat("DEFAULT_LONGITUDE", 126.9780),
			GeohashPrecision: uint(getEnvAsInt("GEOHASH_PRECISION", 6)),
			MaxRadiusMeters:  getEnvAsFloat("MAX_RADIUS_METERS", 50000),
		},
		Catalog: CatalogConfig{
			SeedFile: getEnv("SEED_FILE", ""),
			CacheTTL: time.Duration(getEnvAsInt("RANKING_CACHE_SECONDS", 60)) * time.Second,
		},
		Monitoring: MonitoringConfig{
			EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
			LogLevel:      getEnv("LOG_LEVEL", ""),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Auth.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		c.Auth.JWTSecret = "development-only-secret"
	}

	if c.Location.GeohashPrecision < 1 || c.Location.GeohashPrecision > 12 {
		return fmt.Errorf("GEOHASH_PRECISION must be between 1 and 12, got %d", c.Location.GeohashPrecision)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
