package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Deployment modes. In container mode the environment is injected by the
// orchestrator and no .env file is loaded.
const (
	ModeContainer = "container"
	ModeLocal     = "local"
)

type Config struct {
	Mode     string
	Database DatabaseConfig
	Redis    RedisConfig
	Wait     WaitConfig
	Init     InitConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	DSN      string
	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// RedisConfig is optional; an empty Host disables the cache probe and the
// post-init marker.
type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	DialTimeout time.Duration
	MarkerKey   string
}

// WaitConfig controls the readiness polling loop. MaxAttempts and Timeout
// default to zero, meaning the sequencer waits indefinitely.
type WaitConfig struct {
	PollInterval time.Duration
	DialTimeout  time.Duration
	MaxAttempts  int
	Timeout      time.Duration
}

type InitConfig struct {
	MigrationsPath string
	SeedFile       string
	// Command, when non-empty, replaces the built-in initializer with an
	// external command line run once after readiness.
	Command string
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

func Load() (*Config, error) {
	mode := getEnv("DEPLOY_MODE", ModeLocal)

	// Load .env file if it exists; orchestrators inject env directly.
	if mode != ModeContainer {
		_ = godotenv.Load()
	}

	cfg := &Config{
		Mode: mode,
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "127.0.0.1"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "job_market"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", ""),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getIntEnv("REDIS_DB", 0),
			DialTimeout: getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			MarkerKey:   getEnv("REDIS_MARKER_KEY", "jobmarket:schema:last_init"),
		},
		Wait: WaitConfig{
			PollInterval: getDurationEnv("WAIT_POLL_INTERVAL", time.Second),
			DialTimeout:  getDurationEnv("WAIT_DIAL_TIMEOUT", 2*time.Second),
			MaxAttempts:  getIntEnv("WAIT_MAX_ATTEMPTS", 0),
			Timeout:      getDurationEnv("WAIT_TIMEOUT", 0),
		},
		Init: InitConfig{
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
			SeedFile:       getEnv("SEED_FILE", ""),
			Command:        getEnv("INIT_COMMAND", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Build database DSN
	cfg.Database.DSN = fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	return cfg, nil
}

// MaintenanceDSN returns a DSN against the postgres maintenance database,
// used to create the target database when it does not exist yet.
func (c *DatabaseConfig) MaintenanceDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.SSLMode,
	)
}

// Addr returns host:port of the Redis server.
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Enabled reports whether a Redis server is configured at all.
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
