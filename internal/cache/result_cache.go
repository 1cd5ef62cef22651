// Package cache memoizes analysis results in Valkey. Results are a pure
// function of the text and the lexicon version, so both go into the key and
// entries never need invalidation.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/postlens/internal/clients"
	"github.com/spacesedan/postlens/internal/models"
	"github.com/valkey-io/valkey-go"
)

const KEY_PREFIX = "postlens:analysis"

var ErrMiss = errors.New("[ResultCache] cache miss")

// Key derives the cache key for text analyzed with a lexicon version.
func Key(lexiconVersion, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s:%s:%s", KEY_PREFIX, lexiconVersion, hex.EncodeToString(sum[:]))
}

type ResultCache struct {
	client *clients.ValkeyClient
	ttl    time.Duration
}

func NewResultCache(client *clients.ValkeyClient, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

func (c *ResultCache) Get(ctx context.Context, lexiconVersion, text string) (*models.AnalysisResult, error) {
	key := Key(lexiconVersion, text)
	res := c.client.DoWithRetry(ctx, func(vc valkey.Client) valkey.Completed {
		return vc.B().Get().Key(key).Build()
	}, clients.VALKEY_RETRIES)

	data, err := res.AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("[ResultCache] get %s: %w", key, err)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		slog.Warn("[ResultCache] Dropping undecodable entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, ErrMiss
	}
	return &result, nil
}

func (c *ResultCache) Set(ctx context.Context, lexiconVersion, text string, result *models.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("[ResultCache] encode: %w", err)
	}

	key := Key(lexiconVersion, text)
	res := c.client.DoWithRetry(ctx, func(vc valkey.Client) valkey.Completed {
		if c.ttl > 0 {
			return vc.B().Set().Key(key).Value(valkey.BinaryString(data)).Ex(c.ttl).Build()
		}
		return vc.B().Set().Key(key).Value(valkey.BinaryString(data)).Build()
	}, clients.VALKEY_RETRIES)

	if err := res.Error(); err != nil {
		return fmt.Errorf("[ResultCache] set %s: %w", key, err)
	}
	return nil
}

func (c *ResultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}
