package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"lottoledger/database"

	"github.com/joho/godotenv"
)

// Randomness source names accepted by RANDOMNESS_SOURCE
const (
	RandomnessSourceClock  = "clock"
	RandomnessSourceCrypto = "crypto"
	RandomnessSourceBLS    = "bls"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL               string
	DatabaseName              string
	DatabaseMaxConns          int32
	DatabaseLockTimeoutMillis int // 0 disables the session lock_timeout

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated), empty disables publishing

	// Winner draw configuration
	RandomnessSource     string // "clock", "crypto" or "bls"
	BLSPrivateKeyHex     string // hex encoded bn256 scalar, required for "bls"
	ClockSlotDurationSec int64  // slot length used by the clock placeholder source

	// Logging
	LogLevel string

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelServiceName          string
	OTelExportIntervalMillis int

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Load reads the configuration from the environment without touching the global instance
func Load() (*Config, error) {
	return load()
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// PoolOptions returns the connection pool settings for the ledger database
func (c *Config) PoolOptions() database.PoolOptions {
	opts := database.DefaultPoolOptions()
	opts.MaxConns = c.DatabaseMaxConns
	opts.LockTimeout = time.Duration(c.DatabaseLockTimeoutMillis) * time.Millisecond
	return opts
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A missing .env file is fine, the process environment still applies
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL:               os.Getenv("DATABASE_URL"),
		DatabaseName:              os.Getenv("DATABASE_NAME"),
		DatabaseLockTimeoutMillis: 5000,

		NATSServers: os.Getenv("NATS_SERVERS"),

		RandomnessSource:     getEnvWithDefault("RANDOMNESS_SOURCE", RandomnessSourceCrypto),
		BLSPrivateKeyHex:     os.Getenv("RANDOMNESS_BLS_PRIVATE_KEY"),
		ClockSlotDurationSec: 1,

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "lottoledger"),
		OTelExportIntervalMillis: 30000,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if interval := os.Getenv("OTEL_EXPORT_INTERVAL_MILLIS"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil && parsed > 0 {
			config.OTelExportIntervalMillis = parsed
		}
	}
	if maxConns := os.Getenv("DATABASE_MAX_CONNS"); maxConns != "" {
		if parsed, err := strconv.ParseInt(maxConns, 10, 32); err == nil && parsed > 0 {
			config.DatabaseMaxConns = int32(parsed)
		}
	}
	if lockTimeout := os.Getenv("DATABASE_LOCK_TIMEOUT_MILLIS"); lockTimeout != "" {
		if parsed, err := strconv.Atoi(lockTimeout); err == nil && parsed >= 0 {
			config.DatabaseLockTimeoutMillis = parsed
		}
	}
	if slot := os.Getenv("CLOCK_SLOT_DURATION_SEC"); slot != "" {
		if parsed, err := strconv.ParseInt(slot, 10, 64); err == nil && parsed > 0 {
			config.ClockSlotDurationSec = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	switch config.RandomnessSource {
	case RandomnessSourceClock, RandomnessSourceCrypto, RandomnessSourceBLS:
	default:
		return nil, fmt.Errorf("unknown RANDOMNESS_SOURCE %q", config.RandomnessSource)
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
		if config.RandomnessSource == RandomnessSourceBLS && config.BLSPrivateKeyHex == "" {
			return nil, fmt.Errorf("RANDOMNESS_BLS_PRIVATE_KEY is required for the bls randomness source")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:               "test",
		DatabaseLockTimeoutMillis: 5000,
		RandomnessSource:          RandomnessSourceCrypto,
		ClockSlotDurationSec:      1,
		LogLevel:                  "debug",
		OTelExporterType:          "none",
		OTelServiceName:           "lottoledger-test",
		OTelExportIntervalMillis:  1000,
	}
}
