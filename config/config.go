package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	HTTP       ServerConfig
	MySQL      MySQLConfig
	Log        LogConfig
	PayNow     PayNowConfig
	Storefront StorefrontConfig
	Jobs       JobsConfig
	Metrics    MetricsConfig
}

type AppConfig struct {
	ServiceName string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type PayNowConfig struct {
	ServiceKey     string
	AccountNumber  string
	VerifyURL      string
	VerifyTimeout  time.Duration
	PendingTimeout time.Duration
}

type StorefrontConfig struct {
	BaseURL         string
	AccountPagePath string
}

type JobsConfig struct {
	ExpirePendingInterval time.Duration
	BatchSize             int32
}

type MetricsConfig struct {
	PushURL        string
	PushIntervalMs int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "paynow-service"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		PayNow: PayNowConfig{
			ServiceKey:     getEnv("PAYNOW_SERVICE_KEY", ""),
			AccountNumber:  getEnv("PAYNOW_ACCOUNT_NUMBER", ""),
			VerifyURL:      getEnv("PAYNOW_VERIFY_URL", "https://paynow.netcash.co.za/site/paynowvalidate.aspx"),
			VerifyTimeout:  getSecondsEnv("PAYNOW_VERIFY_TIMEOUT_SECONDS", 10*time.Second),
			PendingTimeout: getMinutesEnv("PAYNOW_PENDING_TIMEOUT_MINUTES", 72*60*time.Minute),
		},
		Storefront: StorefrontConfig{
			BaseURL:         getEnv("STOREFRONT_BASE_URL", ""),
			AccountPagePath: getEnv("STOREFRONT_ACCOUNT_PAGE_PATH", "/my-account/"),
		},
		Jobs: JobsConfig{
			ExpirePendingInterval: getMinutesEnv("PAYNOW_EXPIRE_PENDING_INTERVAL_MINUTES", 5*time.Minute),
			BatchSize:             int32(getIntEnv("PAYNOW_JOB_BATCH_SIZE", 100)),
		},
		Metrics: MetricsConfig{
			PushURL:        getEnv("METRICS_PUSH_URL", ""),
			PushIntervalMs: getIntEnv("METRICS_PUSH_INTERVAL_MS", 10000),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
