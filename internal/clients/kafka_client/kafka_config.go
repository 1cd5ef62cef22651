package kafka_client

import (
	"os"

	"github.com/spacesedan/postlens/config"
)

type KafkaConfig struct {
	Broker  string
	GroupID string
	// Topic picks the registered consumer this process runs.
	Topic       string
	ResultTopic string
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

// GetKafkaConfig reads KAFKA_CONSUMER_TOPIC to decide which consumer runs,
// defaulting to the request topic.
func GetKafkaConfig(cfg config.KafkaConfig) KafkaConfig {
	return KafkaConfig{
		Broker:      cfg.Broker,
		GroupID:     cfg.GroupID,
		Topic:       getEnv("KAFKA_CONSUMER_TOPIC", cfg.RequestTopic),
		ResultTopic: cfg.ResultTopic,
	}
}
