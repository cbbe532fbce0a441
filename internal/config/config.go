package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	LogLevel    string
	HTTPPort    string
	Timezone    string
	Postgres    PostgresConfig
	Kafka       KafkaConfig
	SMTP        SMTPConfig
	Export      ExportConfig
	Ingest      IngestConfig
	Admin       AdminConfig
	Subscribe   SubscribeConfig
}

type PostgresConfig struct {
	Host            string
	Port            string
	Database        string
	Username        string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SSLMode         string
}

type KafkaConfig struct {
	Brokers         []string
	Topic           string
	ProducerRetries int
	ProducerTimeout time.Duration
	RequiredAcks    int
	CompressionType string
	MaxMessageBytes int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

type ExportConfig struct {
	// Cron spec evaluated in the report timezone.
	Schedule string
	Enabled  bool
}

type IngestConfig struct {
	RateLimit       int
	RateLimitWindow time.Duration
	AllowedOrigins  []string
}

type AdminConfig struct {
	ClearPassword string
}

type SubscribeConfig struct {
	AllowedDomains []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Timezone:    getEnv("REPORT_TIMEZONE", "America/Chicago"),
	}

	cfg.Postgres = PostgresConfig{
		Host:            getEnv("POSTGRES_HOST", "localhost"),
		Port:            getEnv("POSTGRES_PORT", "5432"),
		Database:        getEnv("POSTGRES_DB", "worktime"),
		Username:        getEnv("POSTGRES_USER", "admin"),
		Password:        getEnv("POSTGRES_PASSWORD", "password"),
		MaxOpenConns:    getEnvAsInt("POSTGRES_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("POSTGRES_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),
		SSLMode:         getEnv("POSTGRES_SSL_MODE", "disable"),
	}

	cfg.Kafka = KafkaConfig{
		Brokers:         splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		Topic:           getEnv("KAFKA_TOPIC_EVENTS", "timer-events"),
		ProducerRetries: getEnvAsInt("KAFKA_PRODUCER_RETRIES", 3),
		ProducerTimeout: getEnvAsDuration("KAFKA_PRODUCER_TIMEOUT", 10*time.Second),
		RequiredAcks:    getEnvAsInt("KAFKA_REQUIRED_ACKS", -1),
		CompressionType: getEnv("KAFKA_COMPRESSION", "snappy"),
		MaxMessageBytes: getEnvAsInt("KAFKA_MAX_MESSAGE_BYTES", 1000000),
	}

	cfg.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     getEnvAsInt("SMTP_PORT", 587),
		Username: getEnv("SMTP_USER", ""),
		Password: getEnv("SMTP_PASS", ""),
		From:     getEnv("SMTP_FROM", ""),
		To:       splitAndTrim(getEnv("SMTP_TO", "")),
	}

	cfg.Export = ExportConfig{
		// Sunday 23:59 local, the weekly reporting cut-off.
		Schedule: getEnv("EXPORT_SCHEDULE", "59 23 * * 0"),
		Enabled:  getEnvAsBool("EXPORT_ENABLED", true),
	}

	cfg.Ingest = IngestConfig{
		RateLimit:       getEnvAsInt("INGEST_RATE_LIMIT", 120),
		RateLimitWindow: getEnvAsDuration("INGEST_RATE_WINDOW", time.Minute),
		AllowedOrigins:  splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}

	cfg.Admin = AdminConfig{
		ClearPassword: getEnv("ADMIN_CLEAR_PASSWORD", ""),
	}

	cfg.Subscribe = SubscribeConfig{
		AllowedDomains: splitAndTrim(getEnv("SUBSCRIBE_ALLOWED_DOMAINS", "")),
	}

	return cfg, nil
}

// Location resolves the report timezone used for weekday bucketing and the
// export schedule.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid report timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *PostgresConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode)
}

func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
