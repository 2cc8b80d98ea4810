package config

import (
	"os"
	"strconv"
	"time"

	"epark/internal/database"
	"epark/internal/external"
	"epark/internal/messaging"
)

// Config holds the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	Database      database.Config
	NATS          messaging.Config
	Elasticsearch ElasticsearchConfig
	Mailer        external.MailerConfig
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "epark"),
			Password:           getEnv("DB_PASSWORD", "epark123"),
			DBName:             getEnv("DB_NAME", "epark"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "epark"),
			ClientID:  getEnv("NATS_CLIENT_ID", "epark-api"),
		},

		Elasticsearch: ElasticsearchConfig{
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:      getEnv("ELASTICSEARCH_SPACES_INDEX", "parking-spaces"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},

		Mailer: external.MailerConfig{
			BaseURL: getEnv("MAILER_URL", "http://localhost:8025"),
			APIKey:  getEnv("MAILER_API_KEY", ""),
			Sender:  getEnv("MAILER_SENDER", "no-reply@epark.ng"),
			Timeout: time.Duration(getEnvInt("MAILER_TIMEOUT_SEC", 10)) * time.Second,
		},
	}
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable value or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
