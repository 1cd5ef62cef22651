package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/postlens/config"
	"github.com/spacesedan/postlens/internal/analysis"
	"github.com/spacesedan/postlens/internal/cache"
	"github.com/spacesedan/postlens/internal/clients"
	"github.com/spacesedan/postlens/internal/clients/kafka_client"
	"github.com/spacesedan/postlens/internal/consumers"
	"github.com/spacesedan/postlens/internal/db"
	"github.com/spacesedan/postlens/internal/logging"
	"github.com/spacesedan/postlens/internal/monitoring"
	"github.com/spacesedan/postlens/internal/sentiment"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load(os.Getenv("POSTLENS_CONFIG"))
	if err != nil {
		slog.Error("[Main] Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.Logging.Level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	kafkaCfg := kafka_client.GetKafkaConfig(cfg.Kafka)

	var producer *kafka_client.Producer
	for {
		producer, err = kafka_client.NewProducer(kafkaCfg)
		if err == nil {
			break
		}

		slog.Warn("Kafka init failed, retrying...", slog.String("error", err.Error()))
		time.Sleep(5 * time.Second)
	}
	defer producer.Close()

	opts := []analysis.Option{}
	if cfg.Cache.Enabled {
		valkeyClient, err := clients.NewValkeyClient(cfg.Cache)
		if err != nil {
			slog.Warn("[Main] Result cache unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else {
			defer valkeyClient.Close()

			resultCache := cache.NewResultCache(valkeyClient, cfg.Cache.TTL)
			cacheHealthy := &atomic.Bool{}
			monitoring.CheckCacheHealth(ctx, resultCache, cacheHealthy, nil)
			go monitoring.MonitorCacheHealth(ctx, resultCache, cacheHealthy, cfg.Cache.CheckInterval, nil)

			opts = append(opts, analysis.WithCache(resultCache), analysis.WithCacheHealth(cacheHealthy))
		}
	}
	service := analysis.NewService(analysis.NewEngine(sentiment.NewLexicon()), opts...)

	kafka_client.RegisterConsumer(cfg.Kafka.RequestTopic, consumers.NewAnalysisConsumer(
		service, producer, cfg.Kafka.ResultTopic, cfg.Kafka.BatchSize, cfg.Kafka.FlushEvery).Start)

	kafka_client.RegisterConsumer(cfg.Kafka.ResultTopic, func(ctx context.Context, consumer *kafka.Consumer) {
		store, err := db.Open(ctx, cfg.Store)
		if errors.Is(err, db.ErrNoStore) {
			slog.Error("[Main] Results consumer needs a store, set STORE_BACKEND")
			return
		}
		if err != nil {
			slog.Error("[Main] Failed to open store", slog.String("error", err.Error()))
			return
		}
		defer store.Close()

		consumers.NewResultsConsumer(store, cfg.Kafka.BatchSize, cfg.Kafka.FlushEvery).Start(ctx, consumer)
	})

	if err := kafka_client.StartConsumer(ctx, kafkaCfg); err != nil {
		slog.Error("[Main] Failed to start consumer",
			slog.String("error", err.Error()))
	}
}
