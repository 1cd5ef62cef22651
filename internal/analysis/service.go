package analysis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/postlens/internal/cache"
	"github.com/spacesedan/postlens/internal/db"
	"github.com/spacesedan/postlens/internal/extract"
	"github.com/spacesedan/postlens/internal/models"
	"github.com/spacesedan/postlens/internal/monitoring"
)

type Cache interface {
	Get(ctx context.Context, lexiconVersion, text string) (*models.AnalysisResult, error)
	Set(ctx context.Context, lexiconVersion, text string, result *models.AnalysisResult) error
}

type Store interface {
	Save(ctx context.Context, records ...models.AnalysisRecord) error
	Get(ctx context.Context, id string) (*models.AnalysisRecord, error)
	Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error)
}

type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithCacheHealth makes the service skip the cache while healthy is false.
func WithCacheHealth(healthy *atomic.Bool) Option {
	return func(s *Service) { s.cacheHealthy = healthy }
}

func WithStore(st Store) Option {
	return func(s *Service) { s.store = st }
}

func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service runs the engine on behalf of a transport. Every dependency besides
// the engine is optional.
type Service struct {
	engine       *Engine
	cache        Cache
	cacheHealthy *atomic.Bool
	store        Store
	metrics      *monitoring.Metrics
	now          func() time.Time
}

func NewService(engine *Engine, opts ...Option) *Service {
	s := &Service{
		engine: engine,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Engine() *Engine {
	return s.engine
}

// Normalize turns a request into the text the engine sees.
func Normalize(req models.AnalysisRequest) (string, error) {
	text := req.Text
	switch req.Format {
	case "", models.FORMAT_PLAIN:
	case models.FORMAT_MARKDOWN:
		text = extract.MarkdownToText(text)
	default:
		return "", &ValidationError{Reason: "unsupported format " + req.Format}
	}
	return strings.TrimSpace(text), nil
}

// Analyze normalizes, validates and analyzes req, then persists the record
// when a store is configured. A *StoreError still comes with the record.
func (s *Service) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisRecord, error) {
	start := time.Now()
	source := req.Source
	if source == "" {
		source = models.SOURCE_API
	}

	text, err := Normalize(req)
	if err == nil {
		err = Validate(text)
	}
	if err != nil {
		s.recordAnalysis(source, monitoring.STATUS_INVALID, start)
		return nil, err
	}

	version := s.engine.LexiconVersion()
	result, cached := s.lookup(ctx, version, text)
	if result == nil {
		result, err = s.engine.Analyze(text)
		if err != nil {
			slog.Error("[Service] Analysis failed",
				slog.String("source", source),
				slog.String("error", err.Error()))
			s.recordAnalysis(source, monitoring.STATUS_ERROR, start)
			return nil, err
		}
		s.fill(ctx, version, text, result)
	}

	record := &models.AnalysisRecord{
		ID:             uuid.NewString(),
		ContentID:      req.ContentID,
		Source:         source,
		Filename:       req.Filename,
		LexiconVersion: version,
		Text:           text,
		CreatedAt:      s.now().UTC(),
		Cached:         cached,
		Analysis:       *result,
	}

	if s.metrics != nil {
		s.metrics.RecordResult(result.Sentiment.Overall, result.Statistics.WordCount)
	}

	if s.store != nil {
		if err := s.store.Save(ctx, *record); err != nil {
			slog.Error("[Service] Failed to save analysis",
				slog.String("id", record.ID),
				slog.String("error", err.Error()))
			s.recordStoreWrite(monitoring.STATUS_ERROR)
			s.recordAnalysis(source, monitoring.STATUS_SUCCESS, start)
			return record, &StoreError{Err: err}
		}
		s.recordStoreWrite(monitoring.STATUS_SUCCESS)
	}

	s.recordAnalysis(source, monitoring.STATUS_SUCCESS, start)
	slog.Debug("[Service] Analysis complete",
		slog.String("id", record.ID),
		slog.String("source", source),
		slog.Bool("cached", cached),
		slog.Duration("took", time.Since(start)))
	return record, nil
}

func (s *Service) cacheUsable() bool {
	return s.cache != nil && (s.cacheHealthy == nil || s.cacheHealthy.Load())
}

func (s *Service) lookup(ctx context.Context, version, text string) (*models.AnalysisResult, bool) {
	if !s.cacheUsable() {
		if s.cache != nil {
			s.recordCacheLookup(monitoring.CACHE_SKIPPED)
		}
		return nil, false
	}

	result, err := s.cache.Get(ctx, version, text)
	switch {
	case err == nil:
		s.recordCacheLookup(monitoring.CACHE_HIT)
		return result, true
	case errors.Is(err, cache.ErrMiss):
		s.recordCacheLookup(monitoring.CACHE_MISS)
	default:
		slog.Warn("[Service] Cache lookup failed", slog.String("error", err.Error()))
		s.recordCacheLookup(monitoring.CACHE_ERROR)
	}
	return nil, false
}

func (s *Service) fill(ctx context.Context, version, text string, result *models.AnalysisResult) {
	if !s.cacheUsable() {
		return
	}
	if err := s.cache.Set(ctx, version, text, result); err != nil {
		slog.Warn("[Service] Cache fill failed", slog.String("error", err.Error()))
	}
}

func (s *Service) Get(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	if s.store == nil {
		return nil, db.ErrNoStore
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	if s.store == nil {
		return nil, db.ErrNoStore
	}
	return s.store.Recent(ctx, limit)
}

func (s *Service) recordAnalysis(source, status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordAnalysis(source, status, time.Since(start))
	}
}

func (s *Service) recordCacheLookup(result string) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(result)
	}
}

func (s *Service) recordStoreWrite(status string) {
	if s.metrics != nil {
		s.metrics.RecordStoreWrite(status, 1)
	}
}
