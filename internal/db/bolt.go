package db

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/spacesedan/postlens/internal/models"
	"go.etcd.io/bbolt"
)

var (
	bucketAnalyses = []byte("analyses")
	// bucketTimeline maps created_at nanos + id to id, so a reverse cursor
	// walks newest first.
	bucketTimeline = []byte("timeline")
)

type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("[BoltStore] failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketAnalyses, bucketTimeline} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("[BoltStore] failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func timelineKey(record models.AnalysisRecord) []byte {
	key := make([]byte, 8, 8+len(record.ID))
	binary.BigEndian.PutUint64(key, uint64(record.CreatedAt.UnixNano()))
	return append(key, record.ID...)
}

func (s *BoltStore) Save(ctx context.Context, records ...models.AnalysisRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		analyses := tx.Bucket(bucketAnalyses)
		timeline := tx.Bucket(bucketTimeline)

		for _, record := range records {
			data, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("[BoltStore] encode %s: %w", record.ID, err)
			}
			if err := analyses.Put([]byte(record.ID), data); err != nil {
				return err
			}
			if err := timeline.Put(timelineKey(record), []byte(record.ID)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Get(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var record models.AnalysisRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketAnalyses).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &record)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *BoltStore) Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = normalizeLimit(limit)

	records := make([]models.AnalysisRecord, 0, limit)
	err := s.db.View(func(tx *bbolt.Tx) error {
		analyses := tx.Bucket(bucketAnalyses)
		c := tx.Bucket(bucketTimeline).Cursor()

		for k, id := c.Last(); k != nil && len(records) < limit; k, id = c.Prev() {
			data := analyses.Get(id)
			if data == nil {
				continue
			}
			var record models.AnalysisRecord
			if err := json.Unmarshal(data, &record); err != nil {
				return fmt.Errorf("[BoltStore] decode %s: %w", id, err)
			}
			records = append(records, record)
		}
		return nil
	})
	return records, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
