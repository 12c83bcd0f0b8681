package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort   string
	ServerHost   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Record source
	APIBaseURL     string
	APIKey         string
	PageLimit      int
	RequestTimeout time.Duration
	MaxConns       int
	UserAgent      string
	RetryMax       int
	RetryBaseDelay time.Duration
	RubricPath     string

	// Analysis state
	StatusStore string
	StatusTTL   time.Duration

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers []string
	EventsTopic  string

	// Database
	SubmissionLogEnabled bool
	PostgresHost         string
	PostgresPort         string
	PostgresUser         string
	PostgresPassword     string
	PostgresDB           string
	PostgresSSLMode      string
}

func Load() *Config {
	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ServerHost:   getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getDuration("WRITE_TIMEOUT", 5*time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		APIBaseURL:     getEnv("TRIAGE_API_BASE_URL", "https://assessment.ksensetech.com/api"),
		APIKey:         getEnv("TRIAGE_API_KEY", ""),
		PageLimit:      getIntEnv("TRIAGE_PAGE_LIMIT", 20),
		RequestTimeout: getDuration("TRIAGE_REQUEST_TIMEOUT", 30*time.Second),
		MaxConns:       getIntEnv("TRIAGE_MAX_CONNS", 4),
		UserAgent:      getEnv("TRIAGE_USER_AGENT", "triage/1.0"),
		RetryMax:       getIntEnv("TRIAGE_RETRY_MAX", 3),
		RetryBaseDelay: getDuration("TRIAGE_RETRY_BASE_DELAY", time.Second),
		RubricPath:     getEnv("TRIAGE_RUBRIC_PATH", ""),

		StatusStore: getEnv("STATUS_STORE", "memory"),
		StatusTTL:   getDuration("STATUS_TTL", 24*time.Hour),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		EventsTopic:  getEnv("TRIAGE_EVENTS_TOPIC", ""),

		SubmissionLogEnabled: getBoolEnv("SUBMISSION_LOG_ENABLED", false),
		PostgresHost:         getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:         getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:         getEnv("POSTGRES_USER", "triage"),
		PostgresPassword:     getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:           getEnv("POSTGRES_DB", "triage"),
		PostgresSSLMode:      getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.APIKey) == "" {
		errs = append(errs, errors.New("TRIAGE_API_KEY is required"))
	}
	if strings.TrimSpace(c.APIBaseURL) == "" {
		errs = append(errs, errors.New("TRIAGE_API_BASE_URL is required"))
	}
	if c.PageLimit <= 0 {
		errs = append(errs, errors.New("TRIAGE_PAGE_LIMIT must be positive"))
	}
	if c.RetryMax < 0 {
		errs = append(errs, errors.New("TRIAGE_RETRY_MAX must not be negative"))
	}
	if c.RetryBaseDelay < 0 {
		errs = append(errs, errors.New("TRIAGE_RETRY_BASE_DELAY must not be negative"))
	}
	switch c.StatusStore {
	case "memory", "redis":
	default:
		errs = append(errs, errors.New("STATUS_STORE must be memory or redis"))
	}
	return errors.Join(errs...)
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

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
