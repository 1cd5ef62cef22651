// Package consumers holds the Kafka workers: one analyzes incoming posts and
// publishes the records, the other writes published records to the store.
// Offsets are committed only after a batch has been handed on, so delivery is
// at least once.
package consumers

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/postlens/internal/utils"
)

const (
	HANDOFF_RETRIES     = 3
	HANDOFF_RETRY_DELAY = 2 * time.Second
)

type MessageSource interface {
	// Next returns (nil, nil) when no message arrived in time.
	Next() (*kafka.Message, error)
}

type Committer interface {
	Commit(msg *kafka.Message) error
}

// run feeds messages to handle and calls flush every flushEvery until ctx is
// done. Unflushed items stay uncommitted and are redelivered after a restart.
func run(ctx context.Context, name string, source MessageSource, flushEvery time.Duration, handle func(*kafka.Message), flush func()) {
	ticker := time.NewTicker(flushEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[" + name + "] Consumer shutting down...")
			return
		case <-ticker.C:
			flush()
		default:
			msg, err := source.Next()
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				utils.HandleConsumerError(err)
				continue
			}
			if msg == nil {
				continue
			}
			handle(msg)
		}
	}
}

func commitAll(name string, committer Committer, msgs []*kafka.Message) {
	for _, msg := range msgs {
		if err := committer.Commit(msg); err != nil {
			slog.Warn("["+name+"] Failed to commit offset",
				slog.String("error", err.Error()))
		}
	}
}

// skipMessage commits a message that produced nothing to hand on. While
// earlier messages are still buffered the commit is deferred to the next
// successful flush, because a commit also covers every lower offset.
func skipMessage(name string, committer Committer, buffered int, deferred *[]*kafka.Message, msg *kafka.Message) {
	if buffered == 0 && len(*deferred) == 0 {
		commitAll(name, committer, []*kafka.Message{msg})
		return
	}
	*deferred = append(*deferred, msg)
}

// commitHandedOff commits the messages of a delivered batch together with the
// deferred skipped ones, lowest offset first so the position never moves back.
func commitHandedOff(name string, committer Committer, msgs []*kafka.Message, deferred *[]*kafka.Message) {
	all := append(append([]*kafka.Message(nil), msgs...), *deferred...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].TopicPartition.Offset < all[j].TopicPartition.Offset
	})
	commitAll(name, committer, all)
	*deferred = nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
