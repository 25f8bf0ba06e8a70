package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Application settings
type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Report   ReportConfig
	Storage  StorageConfig
	Backfill BackfillConfig
}

// Server settings
type ServerConfig struct {
	Port string
}

// Report-job API settings
type ReportConfig struct {
	BaseURL            string
	NetworkCode        string
	APIToken           string
	RequestTimeout     time.Duration
	PollInterval       time.Duration
	JobTimeout         time.Duration
	MaxRetries         int
	RetryBackoff       time.Duration
	RateLimitPerSecond int
}

// Object store settings
type StorageConfig struct {
	Bucket string
	Region string
}

// Historical backfill settings
type BackfillConfig struct {
	StartDate time.Time
}

// Logging settings
type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	backfillStart, err := time.Parse("2006-01-02", getEnv("BACKFILL_START_DATE", "2021-07-20"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKFILL_START_DATE: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Report: ReportConfig{
			BaseURL:            getEnv("REPORT_API_URL", ""),
			NetworkCode:        getEnv("REPORT_NETWORK_CODE", ""),
			APIToken:           getEnv("REPORT_API_TOKEN", ""),
			RequestTimeout:     getDurationEnv("REPORT_REQUEST_TIMEOUT", "30s"),
			PollInterval:       getDurationEnv("REPORT_POLL_INTERVAL", "10s"),
			JobTimeout:         getDurationEnv("REPORT_JOB_TIMEOUT", "10m"),
			MaxRetries:         getIntEnv("REPORT_MAX_RETRIES", 3),
			RetryBackoff:       getDurationEnv("REPORT_RETRY_BACKOFF", "2s"),
			RateLimitPerSecond: getIntEnv("REPORT_RATE_LIMIT_PER_SECOND", 2),
		},
		Storage: StorageConfig{
			Bucket: getEnv("STORAGE_BUCKET", "solar.20mn.net"),
			Region: getEnv("STORAGE_REGION", "eu-west-1"),
		},
		Backfill: BackfillConfig{
			StartDate: backfillStart,
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
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

func getDurationEnv(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
