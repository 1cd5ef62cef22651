package consumers

import (
	"context"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/postlens/internal/clients/kafka_client"
	"github.com/spacesedan/postlens/internal/models"
	"github.com/spacesedan/postlens/internal/utils"
)

type RecordSaver interface {
	Save(ctx context.Context, records ...models.AnalysisRecord) error
}

// ResultsConsumer writes published analysis records to the history store.
type ResultsConsumer struct {
	store      RecordSaver
	flushEvery time.Duration
	retryDelay time.Duration
	buffer     *utils.BatchBuffer[models.AnalysisRecord]
	tracker    *utils.MessageTracker
	skipped    []*kafka.Message
}

func NewResultsConsumer(store RecordSaver, batchSize int, flushEvery time.Duration) *ResultsConsumer {
	return &ResultsConsumer{
		store:      store,
		flushEvery: flushEvery,
		retryDelay: HANDOFF_RETRY_DELAY,
		buffer:     utils.NewBatchBuffer[models.AnalysisRecord](batchSize),
		tracker:    utils.NewMessageTracker(),
	}
}

func (c *ResultsConsumer) Start(ctx context.Context, consumer *kafka.Consumer) {
	c.Run(ctx, kafka_client.NewKafkaMessageIterator(ctx, consumer), kafka_client.NewCommitHandler(ctx, consumer))
}

func (c *ResultsConsumer) Run(ctx context.Context, source MessageSource, committer Committer) {
	run(ctx, "ResultConsumer", source, c.flushEvery,
		func(msg *kafka.Message) { c.HandleMessage(ctx, msg, committer) },
		func() { c.Flush(ctx, committer) },
	)
}

func (c *ResultsConsumer) HandleMessage(ctx context.Context, msg *kafka.Message, committer Committer) {
	decoded, err := utils.DecodeOneOrMany[models.AnalysisRecord](msg.Value)
	if err != nil {
		utils.HandleConsumerError(err)
		skipMessage("ResultConsumer", committer, c.buffer.Size(), &c.skipped, msg)
		return
	}

	records := make([]models.AnalysisRecord, 0, len(decoded))
	for _, record := range decoded {
		if record.ID == "" {
			slog.Warn("[ResultConsumer] Skipping record without id")
			continue
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		skipMessage("ResultConsumer", committer, c.buffer.Size(), &c.skipped, msg)
		return
	}

	for _, record := range records {
		c.tracker.Track(record.ID, msg)
	}
	if full := c.buffer.Add(records...); full {
		c.Flush(ctx, committer)
	}
}

func (c *ResultsConsumer) Flush(ctx context.Context, committer Committer) {
	batch := c.buffer.GetAndClear()
	if len(batch) == 0 {
		commitHandedOff("ResultConsumer", committer, nil, &c.skipped)
		return
	}

	ids := make([]string, 0, len(batch))
	for _, record := range batch {
		ids = append(ids, record.ID)
	}

	var insertErr error
	for i := 0; i < HANDOFF_RETRIES; i++ {
		insertErr = c.store.Save(ctx, batch...)
		if insertErr == nil {
			break
		}
		slog.Error("[ResultConsumer] Failed to write results to DB",
			slog.String("error", insertErr.Error()),
			slog.Int("attempt", i+1))
		if !sleepCtx(ctx, c.retryDelay) {
			break
		}
	}

	if insertErr != nil {
		c.buffer.Add(batch...)
		slog.Error("[ResultConsumer] Batch requeued", slog.Int("records", len(batch)))
		return
	}

	msgs := c.tracker.Release(ids...)
	slog.Info("[ResultConsumer] Stored analysis batch", slog.Int("records", len(batch)))
	commitHandedOff("ResultConsumer", committer, msgs, &c.skipped)
}
