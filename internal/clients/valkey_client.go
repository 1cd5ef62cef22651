package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/postlens/config"
	"github.com/valkey-io/valkey-go"
)

const (
	VALKEY_RETRIES      = 3
	VALKEY_RETRY_DELAY  = 250 * time.Millisecond
	VALKEY_PING_TIMEOUT = 3 * time.Second
)

type ValkeyClient struct {
	opts   valkey.ClientOption
	mu     sync.RWMutex
	client valkey.Client
}

func valkeyOptions(cfg config.CacheConfig) valkey.ClientOption {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Addr},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}
	return opts
}

// NewValkeyClient connects and pings once so a bad address fails at startup.
func NewValkeyClient(cfg config.CacheConfig) (*ValkeyClient, error) {
	vc := &ValkeyClient{opts: valkeyOptions(cfg)}

	client, err := vc.connect()
	if err != nil {
		return nil, err
	}
	vc.client = client

	slog.Info("[ValkeyClient] Successfully connected to valkey", slog.String("addr", cfg.Addr))
	return vc, nil
}

func (vc *ValkeyClient) connect() (valkey.Client, error) {
	client, err := valkey.NewClient(vc.opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), VALKEY_PING_TIMEOUT)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}
	return client, nil
}

func (vc *ValkeyClient) Client() valkey.Client {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.client
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := vc.connect()
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed", slog.String("error", err.Error()))
		return
	}

	vc.client.Close()
	vc.client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

// Ping reports whether the server answers within ctx.
func (vc *ValkeyClient) Ping(ctx context.Context) error {
	client := vc.Client()
	err := client.Do(ctx, client.B().Ping().Build()).Error()
	if isConnectionError(err) {
		vc.recreateClient()
	}
	return err
}

func (vc *ValkeyClient) Close() {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	if vc.client != nil {
		vc.client.Close()
	}
}

// DoWithRetry retries transport failures. A nil reply is a valid answer and is
// returned immediately.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func(valkey.Client) valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		client := vc.Client()
		result = client.Do(ctx, build(client))
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if isConnectionError(err) {
			vc.recreateClient()
		}

		select {
		case <-ctx.Done():
			return result
		case <-time.After(VALKEY_RETRY_DELAY):
		}
	}

	return result
}

func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, build func(valkey.Client) []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		client := vc.Client()
		results = client.DoMulti(ctx, build(client)...)
		hasErr := false
		for _, r := range results {
			if r.Error() != nil {
				hasErr = true
				slog.Warn("[ValkeyClient] Do Multi failed",
					slog.Int("attempt", i+1),
					slog.String("error", r.Error().Error()))
				if isConnectionError(r.Error()) {
					vc.recreateClient()
				}
				break
			}
		}
		if !hasErr {
			break
		}

		select {
		case <-ctx.Done():
			return results
		case <-time.After(VALKEY_RETRY_DELAY):
		}
	}

	return results
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
