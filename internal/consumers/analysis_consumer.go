package consumers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/postlens/internal/analysis"
	"github.com/spacesedan/postlens/internal/clients/kafka_client"
	"github.com/spacesedan/postlens/internal/models"
	"github.com/spacesedan/postlens/internal/utils"
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// AnalysisConsumer reads AnalysisRequests, one object or an array per message,
// and publishes the resulting records in batches.
type AnalysisConsumer struct {
	service     *analysis.Service
	publisher   Publisher
	resultTopic string
	flushEvery  time.Duration
	retryDelay  time.Duration
	buffer      *utils.BatchBuffer[models.AnalysisRecord]
	tracker     *utils.MessageTracker
	skipped     []*kafka.Message
}

func NewAnalysisConsumer(service *analysis.Service, publisher Publisher, resultTopic string, batchSize int, flushEvery time.Duration) *AnalysisConsumer {
	return &AnalysisConsumer{
		service:     service,
		publisher:   publisher,
		resultTopic: resultTopic,
		flushEvery:  flushEvery,
		retryDelay:  HANDOFF_RETRY_DELAY,
		buffer:      utils.NewBatchBuffer[models.AnalysisRecord](batchSize),
		tracker:     utils.NewMessageTracker(),
	}
}

// Start has the kafka_client.ConsumerFunc signature.
func (c *AnalysisConsumer) Start(ctx context.Context, consumer *kafka.Consumer) {
	c.Run(ctx, kafka_client.NewKafkaMessageIterator(ctx, consumer), kafka_client.NewCommitHandler(ctx, consumer))
}

func (c *AnalysisConsumer) Run(ctx context.Context, source MessageSource, committer Committer) {
	run(ctx, "AnalysisConsumer", source, c.flushEvery,
		func(msg *kafka.Message) { c.HandleMessage(ctx, msg, committer) },
		func() { c.Flush(ctx, committer) },
	)
}

func (c *AnalysisConsumer) HandleMessage(ctx context.Context, msg *kafka.Message, committer Committer) {
	requests, err := utils.DecodeOneOrMany[models.AnalysisRequest](msg.Value)
	if err != nil {
		// Undecodable messages would fail forever; skip past them.
		utils.HandleConsumerError(err)
		skipMessage("AnalysisConsumer", committer, c.buffer.Size(), &c.skipped, msg)
		return
	}

	records := make([]models.AnalysisRecord, 0, len(requests))
	for _, req := range requests {
		req.Source = models.SOURCE_KAFKA
		if req.ContentID == "" && msg.Key != nil {
			req.ContentID = string(msg.Key)
		}

		record, err := c.service.Analyze(ctx, req)
		if err != nil {
			var verr *analysis.ValidationError
			if errors.As(err, &verr) {
				slog.Warn("[AnalysisConsumer] Skipping invalid request",
					slog.String("content_id", req.ContentID),
					slog.String("reason", verr.Reason))
			} else {
				slog.Error("[AnalysisConsumer] Failed to analyze request",
					slog.String("content_id", req.ContentID),
					slog.String("error", err.Error()))
			}
			continue
		}
		records = append(records, *record)
	}

	if len(records) == 0 {
		skipMessage("AnalysisConsumer", committer, c.buffer.Size(), &c.skipped, msg)
		return
	}

	for _, record := range records {
		c.tracker.Track(record.ID, msg)
	}
	if full := c.buffer.Add(records...); full {
		c.Flush(ctx, committer)
	}
}

// Flush publishes buffered records as one JSON array and commits their
// source messages. A failed batch goes back into the buffer.
func (c *AnalysisConsumer) Flush(ctx context.Context, committer Committer) {
	batch := c.buffer.GetAndClear()
	if len(batch) == 0 {
		commitHandedOff("AnalysisConsumer", committer, nil, &c.skipped)
		return
	}

	ids := make([]string, 0, len(batch))
	for _, record := range batch {
		ids = append(ids, record.ID)
	}

	var err error
	for i := 0; i < HANDOFF_RETRIES; i++ {
		err = c.publisher.Publish(ctx, c.resultTopic, batch[0].ID, batch)
		if err == nil {
			break
		}
		slog.Warn("[AnalysisConsumer] Batch publishing failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if !sleepCtx(ctx, c.retryDelay) {
			break
		}
	}

	if err != nil {
		// Later commits would cover these offsets, so keep the batch.
		c.buffer.Add(batch...)
		slog.Error("[AnalysisConsumer] Batch publishing failed, requeued",
			slog.Int("records", len(batch)),
			slog.String("error", err.Error()))
		return
	}

	msgs := c.tracker.Release(ids...)
	slog.Info("[AnalysisConsumer] Published analysis batch",
		slog.String("topic", c.resultTopic),
		slog.Int("records", len(batch)))
	commitHandedOff("AnalysisConsumer", committer, msgs, &c.skipped)
}
