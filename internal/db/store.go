// Package db keeps the history of analyses. Records are written once and
// never updated.
package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spacesedan/postlens/config"
	"github.com/spacesedan/postlens/internal/clients"
	"github.com/spacesedan/postlens/internal/models"
)

var (
	ErrNotFound = errors.New("[Store] analysis not found")
	ErrNoStore  = errors.New("[Store] no store configured")
)

const (
	DEFAULT_RECENT_LIMIT = 20
	MAX_RECENT_LIMIT     = 100
)

type ResultStore interface {
	Save(ctx context.Context, records ...models.AnalysisRecord) error
	Get(ctx context.Context, id string) (*models.AnalysisRecord, error)
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error)
	Close() error
}

// Open builds the store selected by cfg.Backend. The "none" backend returns
// ErrNoStore so callers can decide whether history is optional.
func Open(ctx context.Context, cfg config.StoreConfig) (ResultStore, error) {
	switch cfg.Backend {
	case config.STORE_BOLT:
		if dir := filepath.Dir(cfg.BoltPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("[Store] create %s: %w", dir, err)
			}
		}
		return NewBoltStore(cfg.BoltPath)
	case config.STORE_DYNAMODB:
		client, err := clients.NewDynamoDBClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewDynamoStore(client, cfg.Table, cfg.TTL), nil
	case config.STORE_NONE, "":
		return nil, ErrNoStore
	default:
		return nil, fmt.Errorf("[Store] unknown backend %q", cfg.Backend)
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DEFAULT_RECENT_LIMIT
	}
	return min(limit, MAX_RECENT_LIMIT)
}
