package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int

	ConsumerMaxAttempts    int
	ConsumerRetryDelay     time.Duration
	ConsumerReconnectDelay time.Duration

	CatalogBaseURL string
}

func Load(defaultService string) (Config, error) {
	service := strings.TrimSpace(os.Getenv("SERVICE_NAME"))
	if service == "" {
		service = defaultService
	}

	port := strings.TrimSpace(os.Getenv("HTTP_PORT"))
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	catalogBaseURL := strings.TrimSpace(os.Getenv("CATALOG_BASE_URL"))
	if catalogBaseURL == "" {
		catalogBaseURL = "http://localhost:8082"
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		OutboxPollInterval: envSeconds("OUTBOX_POLL_INTERVAL_SECONDS", 5*time.Second),
		OutboxBatchSize:    envInt("OUTBOX_BATCH_SIZE", 100),

		ConsumerMaxAttempts:    envInt("CONSUMER_MAX_ATTEMPTS", 3),
		ConsumerRetryDelay:     envSeconds("CONSUMER_RETRY_DELAY_SECONDS", 1*time.Second),
		ConsumerReconnectDelay: envSeconds("CONSUMER_RECONNECT_DELAY_SECONDS", 5*time.Second),

		CatalogBaseURL: catalogBaseURL,
	}, nil
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envSeconds(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return time.Duration(value) * time.Second
}
