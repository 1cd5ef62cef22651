package kafka_client

import (
	"strings"
	"testing"

	"github.com/spacesedan/postlens/config"
)

func TestGetKafkaConfig(t *testing.T) {
	cfg := config.DefaultConfig().Kafka

	got := GetKafkaConfig(cfg)
	if got.Topic != KAFKA_TOPIC_ANALYSIS_REQUESTS {
		t.Errorf("expected default topic %s, got %s", KAFKA_TOPIC_ANALYSIS_REQUESTS, got.Topic)
	}
	if got.ResultTopic != KAFKA_TOPIC_ANALYSIS_RESULTS {
		t.Errorf("expected result topic %s, got %s", KAFKA_TOPIC_ANALYSIS_RESULTS, got.ResultTopic)
	}

	t.Setenv("KAFKA_CONSUMER_TOPIC", KAFKA_TOPIC_ANALYSIS_RESULTS)
	if got := GetKafkaConfig(cfg); got.Topic != KAFKA_TOPIC_ANALYSIS_RESULTS {
		t.Errorf("expected env override, got %s", got.Topic)
	}
}

func TestTransactionalID(t *testing.T) {
	id := transactionalID(KafkaConfig{GroupID: "g", Topic: "analysis-requests"})
	if !strings.HasPrefix(id, "g-analysis-requests-") {
		t.Errorf("unexpected transactional id %s", id)
	}
}

func TestRegisterConsumer(t *testing.T) {
	RegisterConsumer("test-topic", nil)

	if _, ok := lookupConsumer("test-topic"); !ok {
		t.Error("expected registered consumer")
	}
	if _, ok := lookupConsumer("unknown-topic"); ok {
		t.Error("expected no consumer for unknown topic")
	}
}
