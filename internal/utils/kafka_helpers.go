package utils

import (
	"bytes"
	"encoding/json"
	"log/slog"
)

// DecodeOneOrMany accepts a JSON object or an array of objects.
func DecodeOneOrMany[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			slog.Warn("[KafkaUtils] Failed to deserialize JSON", slog.String("error", err.Error()))
			return nil, err
		}
		return items, nil
	}

	var item T
	if err := json.Unmarshal(trimmed, &item); err != nil {
		slog.Warn("[KafkaUtils] Failed to deserialize JSON", slog.String("error", err.Error()))
		return nil, err
	}
	return []T{item}, nil
}

func HandleConsumerError(err error) {
	if err == nil {
		return
	}
	slog.Error("[KafkaUtils] Kafka Consumer Error",
		slog.String("error", err.Error()))
}
