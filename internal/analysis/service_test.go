package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spacesedan/postlens/internal/cache"
	"github.com/spacesedan/postlens/internal/db"
	"github.com/spacesedan/postlens/internal/models"
	"github.com/spacesedan/postlens/internal/monitoring"
	"github.com/spacesedan/postlens/internal/sentiment"
)

type memoryCache struct {
	entries map[string]*models.AnalysisResult
	gets    int
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*models.AnalysisResult)}
}

func (c *memoryCache) Get(ctx context.Context, version, text string) (*models.AnalysisResult, error) {
	c.gets++
	result, ok := c.entries[cache.Key(version, text)]
	if !ok {
		return nil, cache.ErrMiss
	}
	return result, nil
}

func (c *memoryCache) Set(ctx context.Context, version, text string, result *models.AnalysisResult) error {
	c.sets++
	c.entries[cache.Key(version, text)] = result
	return nil
}

type memoryStore struct {
	records []models.AnalysisRecord
	err     error
}

func (s *memoryStore) Save(ctx context.Context, records ...models.AnalysisRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, records...)
	return nil
}

func (s *memoryStore) Get(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	for i := range s.records {
		if s.records[i].ID == id {
			return &s.records[i], nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *memoryStore) Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	out := make([]models.AnalysisRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

func TestService_AnalyzeAndPersist(t *testing.T) {
	store := &memoryStore{}
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(newTestEngine(),
		WithStore(store),
		WithMetrics(monitoring.NewMetrics()),
		WithClock(func() time.Time { return fixed }),
	)

	record, err := svc.Analyze(context.Background(), models.AnalysisRequest{
		Text:      "  Loving the new release! #golang  ",
		Source:    models.SOURCE_CLI,
		Filename:  "post.txt",
		ContentID: "c-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.ID == "" {
		t.Error("expected an id")
	}
	if record.Text != "Loving the new release! #golang" {
		t.Errorf("expected trimmed text, got %q", record.Text)
	}
	if record.Source != models.SOURCE_CLI || record.Filename != "post.txt" || record.ContentID != "c-1" {
		t.Errorf("request metadata not carried over: %+v", record)
	}
	if !record.CreatedAt.Equal(fixed) {
		t.Errorf("expected created_at %s, got %s", fixed, record.CreatedAt)
	}
	if record.LexiconVersion != sentiment.DEFAULT_LEXICON_VERSION {
		t.Errorf("unexpected lexicon version %s", record.LexiconVersion)
	}
	if len(store.records) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(store.records))
	}

	got, err := svc.Get(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID != record.ID {
		t.Errorf("expected %s, got %s", record.ID, got.ID)
	}

	recent, err := svc.Recent(context.Background(), 5)
	if err != nil || len(recent) != 1 {
		t.Errorf("expected 1 recent record, got %d (%v)", len(recent), err)
	}
}

func TestService_DefaultsSourceToAPI(t *testing.T) {
	record, err := NewService(newTestEngine()).Analyze(context.Background(), models.AnalysisRequest{Text: "hi there"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Source != models.SOURCE_API {
		t.Errorf("expected source %s, got %s", models.SOURCE_API, record.Source)
	}
}

func TestService_Markdown(t *testing.T) {
	svc := NewService(newTestEngine())

	record, err := svc.Analyze(context.Background(), models.AnalysisRequest{
		Text:   "**Big** news, read [the post](https://example.com/p) #launch",
		Format: models.FORMAT_MARKDOWN,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Text != "Big news, read the post #launch" {
		t.Errorf("unexpected normalized text %q", record.Text)
	}
	if record.Analysis.SocialElements.HashtagCount != 1 {
		t.Errorf("expected 1 hashtag, got %d", record.Analysis.SocialElements.HashtagCount)
	}
}

func TestService_ValidationErrors(t *testing.T) {
	svc := NewService(newTestEngine())

	tests := []models.AnalysisRequest{
		{Text: ""},
		{Text: "   \n"},
		{Text: "hello", Format: "pdf"},
		{Text: "[](https://example.com)", Format: models.FORMAT_MARKDOWN},
	}

	for _, req := range tests {
		_, err := svc.Analyze(context.Background(), req)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Analyze(%+v): expected ValidationError, got %v", req, err)
		}
	}
}

func TestService_CacheHitSkipsEngine(t *testing.T) {
	memCache := newMemoryCache()
	text := "Cached post #one"

	warm := NewService(newTestEngine(), WithCache(memCache))
	first, err := warm.Analyze(context.Background(), models.AnalysisRequest{Text: text})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Cached {
		t.Error("first analysis must not be cached")
	}
	if memCache.sets != 1 {
		t.Errorf("expected 1 cache fill, got %d", memCache.sets)
	}

	// Same lexicon version, but an analyzer that would panic if consulted.
	broken := NewEngine(sentiment.NewLexiconWith(sentiment.DEFAULT_LEXICON_VERSION, panickingAnalyzer{}))
	second, err := NewService(broken, WithCache(memCache)).Analyze(context.Background(), models.AnalysisRequest{Text: text})
	if err != nil {
		t.Fatalf("expected cache hit, got %v", err)
	}
	if !second.Cached {
		t.Error("expected record to be flagged as cached")
	}
	if second.Analysis.Sentiment != first.Analysis.Sentiment {
		t.Errorf("expected cached analysis, got %+v", second.Analysis.Sentiment)
	}
}

func TestService_UnhealthyCacheIsBypassed(t *testing.T) {
	memCache := newMemoryCache()
	healthy := &atomic.Bool{}

	svc := NewService(newTestEngine(), WithCache(memCache), WithCacheHealth(healthy))
	if _, err := svc.Analyze(context.Background(), models.AnalysisRequest{Text: "hello world"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if memCache.gets != 0 || memCache.sets != 0 {
		t.Errorf("expected cache to be skipped, got %d gets and %d sets", memCache.gets, memCache.sets)
	}

	healthy.Store(true)
	if _, err := svc.Analyze(context.Background(), models.AnalysisRequest{Text: "hello world"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if memCache.gets != 1 || memCache.sets != 1 {
		t.Errorf("expected cache use once healthy, got %d gets and %d sets", memCache.gets, memCache.sets)
	}
}

func TestService_StoreErrorKeepsRecord(t *testing.T) {
	svc := NewService(newTestEngine(), WithStore(&memoryStore{err: errors.New("disk full")}))

	record, err := svc.Analyze(context.Background(), models.AnalysisRequest{Text: "hello"})
	var serr *StoreError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if record == nil || record.Analysis.Statistics.WordCount != 1 {
		t.Errorf("expected the analysis to be returned alongside the error, got %+v", record)
	}
}

func TestService_StoreErrorCountsAsAnalysisSuccess(t *testing.T) {
	metrics := monitoring.NewMetrics()
	svc := NewService(newTestEngine(),
		WithStore(&memoryStore{err: errors.New("disk full")}),
		WithMetrics(metrics),
	)

	if _, err := svc.Analyze(context.Background(), models.AnalysisRequest{Text: "hello"}); err == nil {
		t.Fatal("expected store error")
	}

	body := scrapeMetrics(t, metrics)
	success := fmt.Sprintf(`postlens_analyses_total{source=%q,status="success"} 1`, models.SOURCE_API)
	if !strings.Contains(body, success) {
		t.Errorf("expected %s in metrics output:\n%s", success, body)
	}
	failed := fmt.Sprintf(`postlens_analyses_total{source=%q,status="error"}`, models.SOURCE_API)
	if strings.Contains(body, failed) {
		t.Errorf("store failure should not count as a failed analysis")
	}
	if !strings.Contains(body, `postlens_store_writes_total{status="error"} 1`) {
		t.Errorf("expected the failed store write to be counted")
	}
}

func scrapeMetrics(t *testing.T, metrics *monitoring.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}

func TestService_NoStore(t *testing.T) {
	svc := NewService(newTestEngine())

	if _, err := svc.Get(context.Background(), "x"); !errors.Is(err, db.ErrNoStore) {
		t.Errorf("expected ErrNoStore, got %v", err)
	}
	if _, err := svc.Recent(context.Background(), 5); !errors.Is(err, db.ErrNoStore) {
		t.Errorf("expected ErrNoStore, got %v", err)
	}
}

func TestService_EngineFailure(t *testing.T) {
	broken := NewEngine(sentiment.NewLexiconWith("broken", panickingAnalyzer{}))
	store := &memoryStore{}

	_, err := NewService(broken, WithStore(store)).Analyze(context.Background(), models.AnalysisRequest{Text: "hello"})
	var aerr *AnalysisError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AnalysisError, got %v", err)
	}
	if len(store.records) != 0 {
		t.Error("failed analyses must not be stored")
	}
}
