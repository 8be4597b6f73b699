package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, secrets), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	DB        DBConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Ingest    IngestConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"PORT" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

const (
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type StoreConfig struct {
	Driver       string        `envconfig:"STORE_DRIVER" default:"file"`
	FilePath     string        `envconfig:"STORE_FILE_PATH" default:"data/cdk_data.json"`
	FlushTimeout time.Duration `envconfig:"STORE_FLUSH_TIMEOUT" default:"5s"`
	FlushRetries int           `envconfig:"STORE_FLUSH_RETRIES" default:"3"`
	FlushBackoff time.Duration `envconfig:"STORE_FLUSH_BACKOFF" default:"100ms"`
	// cron spec for retrying a dirty registry
	DirtyRetrySchedule string `envconfig:"STORE_DIRTY_RETRY_SCHEDULE" default:"@every 30s"`
}

// Only consulted when STORE_DRIVER=postgres.
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type RedisConfig struct {
	Enabled  bool          `envconfig:"REDIS_STATS_ENABLED" default:"false"`
	Addr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	Prefix   string        `envconfig:"REDIS_STATS_PREFIX" default:"cdk:stats"`
	TTL      time.Duration `envconfig:"REDIS_STATS_TTL" default:"24h"`
	Bucket   string        `envconfig:"REDIS_STATS_BUCKET" default:"minute"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// Admin console login; disabled when PasswordHash is empty.
type AdminConfig struct {
	Username     string `envconfig:"ADMIN_USERNAME" default:"admin"`
	PasswordHash string `envconfig:"ADMIN_PASSWORD_HASH"`
}

type IngestConfig struct {
	Timeout   time.Duration `envconfig:"INGEST_TIMEOUT" default:"10s"`
	MaxBytes  int64         `envconfig:"INGEST_MAX_BYTES" default:"4194304"`
	UserAgent string        `envconfig:"INGEST_USER_AGENT" default:"cdk-distributor/1.0"`
}

type RateLimitConfig struct {
	Enabled    bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	ClaimRPS   float64       `envconfig:"RATE_LIMIT_CLAIM_RPS" default:"1"`
	ClaimBurst int           `envconfig:"RATE_LIMIT_CLAIM_BURST" default:"3"`
	IdleTTL    time.Duration `envconfig:"RATE_LIMIT_IDLE_TTL" default:"15m"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case StoreDriverFile:
		if c.FilePath == "" {
			return fmt.Errorf("STORE_FILE_PATH must be set for the file driver")
		}
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Driver)
	}
	if c.FlushTimeout <= 0 {
		return fmt.Errorf("STORE_FLUSH_TIMEOUT must be positive")
	}
	if c.FlushRetries < 0 {
		return fmt.Errorf("STORE_FLUSH_RETRIES cannot be negative")
	}
	return nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Store.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid store config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		Store: StoreConfig{
			Driver:             StoreDriverMemory,
			FlushTimeout:       time.Second,
			FlushRetries:       1,
			FlushBackoff:       time.Millisecond,
			DirtyRetrySchedule: "@every 1s",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Admin: AdminConfig{
			Username: "admin",
		},
		Ingest: IngestConfig{
			Timeout:   2 * time.Second,
			MaxBytes:  1 << 20,
			UserAgent: "cdk-distributor-test",
		},
		RateLimit: RateLimitConfig{
			Enabled:    false,
			ClaimRPS:   100,
			ClaimBurst: 100,
			IdleTTL:    time.Minute,
		},
	}
}
