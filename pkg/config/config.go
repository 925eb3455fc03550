package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string
	LogLevel   string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Discovery pipeline knobs.
	VerifyWorkers   int
	MaxHubPages     int
	MaxCrawlDepth   int
	MaxCandidates   int
	MaxResults      int
	MinPDFBytes     int64
	MaxPDFDownload  int64
	JobStatusExpiry time.Duration

	// Network timeouts. Header probes are shorter than full downloads.
	ProbeTimeout    time.Duration
	FetchTimeout    time.Duration
	DownloadTimeout time.Duration
	RenderTimeout   time.Duration
	RenderSettle    time.Duration
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "user"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresDB:       getEnv("POSTGRES_DB", "esg_discovery"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),

		VerifyWorkers:   getEnvAsInt("VERIFY_WORKERS", 3),
		MaxHubPages:     getEnvAsInt("MAX_HUB_PAGES", 5),
		MaxCrawlDepth:   getEnvAsInt("MAX_CRAWL_DEPTH", 2),
		MaxCandidates:   getEnvAsInt("MAX_CANDIDATES", 40),
		MaxResults:      getEnvAsInt("MAX_RESULTS", 8),
		MinPDFBytes:     int64(getEnvAsInt("MIN_PDF_BYTES", 50*1024)),
		MaxPDFDownload:  int64(getEnvAsInt("MAX_PDF_DOWNLOAD_BYTES", 20*1024*1024)),
		JobStatusExpiry: getEnvAsDuration("JOB_STATUS_EXPIRY_HOURS", 48) * time.Hour,

		ProbeTimeout:    getEnvAsDuration("PROBE_TIMEOUT_SECONDS", 5) * time.Second,
		FetchTimeout:    getEnvAsDuration("FETCH_TIMEOUT_SECONDS", 15) * time.Second,
		DownloadTimeout: getEnvAsDuration("DOWNLOAD_TIMEOUT_SECONDS", 30) * time.Second,
		RenderTimeout:   getEnvAsDuration("RENDER_TIMEOUT_SECONDS", 20) * time.Second,
		RenderSettle:    getEnvAsDuration("RENDER_SETTLE_SECONDS", 3) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback))
}
