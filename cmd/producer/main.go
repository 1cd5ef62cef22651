package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spacesedan/postlens/config"
	"github.com/spacesedan/postlens/internal/batch"
	"github.com/spacesedan/postlens/internal/clients/kafka_client"
	"github.com/spacesedan/postlens/internal/logging"
	"github.com/spacesedan/postlens/internal/models"
)

// Publishes every matching file under -dir to the analysis request topic, then
// keeps publishing files as they change when -watch is set.
func main() {
	dir := flag.String("dir", ".", "directory of posts to submit")
	watch := flag.Bool("watch", false, "keep submitting files as they change")
	flag.Parse()

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

	root, err := filepath.Abs(*dir)
	if err != nil {
		slog.Error("[Main] Invalid directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// A separate transactional id keeps this producer from fencing the
	// analysis consumer's producer.
	kafkaCfg := kafka_client.GetKafkaConfig(cfg.Kafka)
	kafkaCfg.GroupID += "-submitter"

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex
	submit := func(path string) {
		mu.Lock()
		defer mu.Unlock()

		text, err := batch.ReadFile(path)
		if err != nil {
			slog.Warn("[Producer] Failed to read file", slog.String("file", path), slog.String("error", err.Error()))
			return
		}

		rel, _ := filepath.Rel(root, path)
		req := models.AnalysisRequest{
			ContentID: filepath.ToSlash(rel),
			Source:    models.SOURCE_KAFKA,
			Filename:  filepath.ToSlash(rel),
			Text:      text,
			Format:    batch.FormatFor(path),
		}
		if err := producer.Publish(ctx, cfg.Kafka.RequestTopic, req.ContentID, req); err != nil {
			slog.Error("[Producer] Failed to publish request",
				slog.String("file", req.Filename),
				slog.String("error", err.Error()))
			return
		}
		slog.Info("[Producer] Submitted", slog.String("file", req.Filename))
	}

	walker := batch.NewWalker(cfg.Batch.Includes, cfg.Batch.Excludes)
	files, err := walker.Walk(root)
	if err != nil {
		slog.Error("[Main] Failed to walk directory", slog.String("error", err.Error()))
		os.Exit(1)
	}
	for _, path := range files {
		submit(path)
	}

	if !*watch {
		return
	}

	watcher, err := batch.NewWatcher(root, walker, cfg.Batch.Debounce)
	if err != nil {
		slog.Error("[Main] Failed to watch directory", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer watcher.Close()

	slog.Info("[Producer] Watching for changes", slog.String("dir", root))
	if err := watcher.Watch(ctx, submit); err != nil && ctx.Err() == nil {
		slog.Error("[Producer] Watcher stopped", slog.String("error", err.Error()))
	}
	slog.Info("Shutting down producer gracefully...")
}
