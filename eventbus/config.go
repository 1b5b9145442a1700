package eventbus

import (
	"os"

	"review-digest/config"
)

// Brokers returns Kafka bootstrap servers. KAFKA_BOOTSTRAP_SERVERS overrides
// the configured value.
func Brokers(cfg config.KafkaConfig) string {
	if v := os.Getenv("KAFKA_BOOTSTRAP_SERVERS"); v != "" {
		return v
	}
	return cfg.Brokers
}

// GroupID returns the consumer group id from KAFKA_GROUP_ID, or fallback.
func GroupID(fallback string) string {
	if v := os.Getenv("KAFKA_GROUP_ID"); v != "" {
		return v
	}
	return fallback
}
