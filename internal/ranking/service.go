package ranking

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/parlametro/parlametro/internal/cache"
	apperrors "github.com/parlametro/parlametro/internal/errors"
	"github.com/parlametro/parlametro/internal/monitoring"
	"github.com/parlametro/parlametro/internal/repository"
	"github.com/parlametro/parlametro/internal/scoring"
	"github.com/parlametro/parlametro/internal/suppliers"
	"github.com/parlametro/parlametro/internal/topics"
)

// Pagination caps. Rankings recompute scores for the whole chamber per
// request, so pages stay small; speech pages are cheap counts and go wider.
const (
	defaultPageSize    = 20
	maxRankingPageSize = 100
	maxSpeechPageSize  = 500
)

// globalAverageCacheKey names the cached chamber-wide mean score.
const globalAverageCacheKey = "global_average_score"

// supplierOverFetchFactor is how many raw grouped rows are pulled per
// requested supplier entry, leaving headroom for alias merges collapsing
// rows before the final cut.
const supplierOverFetchFactor = 3

// AggregateReader is the store surface the ranking service consumes.
// *repository.Repository satisfies it; tests swap in fakes.
type AggregateReader interface {
	GetPolitician(ctx context.Context, id int64) (repository.Politician, error)
	PerformanceAll(ctx context.Context) ([]scoring.RawAggregate, error)
	PerformanceByID(ctx context.Context, politicianID int64, year int) (scoring.RawAggregate, error)
	TimelineData(ctx context.Context, pol repository.Politician) ([]repository.TimelineRow, error)
	ExpenseRanking(ctx context.Context, query, region string, limit, offset int) ([]repository.ExpenseRankEntry, error)
	SupplierRows(ctx context.Context, fetchLimit int) ([]suppliers.Row, error)
	SpeechCountRanking(ctx context.Context, limit, offset int) ([]repository.SpeechRankEntry, error)
	SpeechKeywords(ctx context.Context, politicianIDs []int64) (map[int64][]string, error)
}

// Service computes rankings and per-politician performance views. Stateless
// apart from the cache: every ranking pass reads fresh aggregates, so newly
// ingested data shows up on the next request without invalidation hooks.
type Service struct {
	reader   AggregateReader
	calc     *scoring.Calculator
	resolver *suppliers.Resolver
	topics   *topics.Extractor
	cache    cache.Store
	avgTTL   time.Duration
	metrics  *monitoring.Manager
}

// NewService wires the ranking service. metrics may be nil (tests).
func NewService(
	reader AggregateReader,
	calc *scoring.Calculator,
	resolver *suppliers.Resolver,
	extractor *topics.Extractor,
	store cache.Store,
	avgTTL time.Duration,
	metrics *monitoring.Manager,
) *Service {
	return &Service{
		reader:   reader,
		calc:     calc,
		resolver: resolver,
		topics:   extractor,
		cache:    store,
		avgTTL:   avgTTL,
		metrics:  metrics,
	}
}

// QuotaInfo is the spending-context block attached to an individual
// performance view.
type QuotaInfo struct {
	MonthlyQuota     float64 `json:"monthly_quota"`
	MonthsConsidered int     `json:"months_considered"`
	TotalSpending    float64 `json:"total_spending"`
	QuotaUsedPct     float64 `json:"quota_used_pct"`
}

// Performance is the full individual view: the score plus quota context and
// the chamber-wide average for comparison.
type Performance struct {
	scoring.ScoreResult
	Year          int       `json:"year,omitempty"`
	Quota         QuotaInfo `json:"quota"`
	GlobalAverage float64   `json:"global_average"`
}

// SpeechEntry is one speech-ranking row enriched with the speaker's dominant
// topics.
type SpeechEntry struct {
	repository.SpeechRankEntry
	Topics []topics.Topic `json:"topics"`
}

// computeFullRanking scores every politician and sorts descending by score,
// ties broken by ascending id so the order is stable across passes.
func (s *Service) computeFullRanking(ctx context.Context) ([]scoring.ScoreResult, error) {
	start := time.Now()

	aggregates, err := s.reader.PerformanceAll(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]scoring.ScoreResult, 0, len(aggregates))
	for _, agg := range aggregates {
		results = append(results, s.calc.Score(agg, 0))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].PoliticianID < results[j].PoliticianID
	})

	if s.metrics != nil {
		s.metrics.ObserveRankingPass(time.Since(start))
	}

	return results, nil
}

// PerformanceRanking returns one page of the chamber-wide performance
// ranking. The whole ranking is recomputed per call; paging is a slice of
// the sorted result, so page N+1 continues exactly where page N ended.
func (s *Service) PerformanceRanking(ctx context.Context, limit, offset int) ([]scoring.ScoreResult, error) {
	limit = clampPage(limit, maxRankingPageSize)
	if offset < 0 {
		offset = 0
	}

	results, err := s.computeFullRanking(ctx)
	if err != nil {
		return nil, err
	}

	if offset >= len(results) {
		return []scoring.ScoreResult{}, nil
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end], nil
}

// GlobalAverage returns the chamber-wide mean score, cached. A cache backend
// fault is a retrieval failure, not a miss; only a genuinely absent (or
// malformed) entry triggers a recompute. Concurrent misses may compute
// redundantly, which is harmless since the value converges.
func (s *Service) GlobalAverage(ctx context.Context) (float64, error) {
	data, ok, err := s.cache.Get(ctx, globalAverageCacheKey)
	if err != nil {
		return 0, apperrors.NewRetrievalError("failed to read cached global average", err)
	}
	if ok {
		if avg, parseErr := strconv.ParseFloat(string(data), 64); parseErr == nil {
			if s.metrics != nil {
				s.metrics.CacheHit()
			}
			return avg, nil
		}
		slog.Warn("Discarding malformed cached global average", "value", string(data))
	}
	if s.metrics != nil {
		s.metrics.CacheMiss()
	}

	results, err := s.computeFullRanking(ctx)
	if err != nil {
		return 0, err
	}

	avg := 0.0
	if len(results) > 0 {
		sum := 0.0
		for _, r := range results {
			sum += r.Score
		}
		avg = round2(sum / float64(len(results)))
	}

	value := strconv.FormatFloat(avg, 'f', -1, 64)
	if err := s.cache.Set(ctx, globalAverageCacheKey, []byte(value), s.avgTTL); err != nil {
		return 0, apperrors.NewRetrievalError("failed to cache global average", err)
	}

	return avg, nil
}

// PerformanceForOne returns the individual performance view, optionally
// restricted to one year (year == 0 means whole mandate).
func (s *Service) PerformanceForOne(ctx context.Context, politicianID int64, year int) (Performance, error) {
	raw, err := s.reader.PerformanceByID(ctx, politicianID, year)
	if err != nil {
		return Performance{}, err
	}

	result := s.calc.Score(raw, 0)

	avg, err := s.GlobalAverage(ctx)
	if err != nil {
		return Performance{}, err
	}

	return Performance{
		ScoreResult: result,
		Year:        year,
		Quota: QuotaInfo{
			MonthlyQuota:     result.Meta.MonthlyQuota,
			MonthsConsidered: result.Meta.Months,
			TotalSpending:    result.Meta.TotalSpending,
			QuotaUsedPct:     result.Meta.SpendingUsedPct,
		},
		GlobalAverage: avg,
	}, nil
}

// SupplierRanking returns suppliers by total received, merged across alias
// spellings. The store is over-fetched so alias merges cannot starve the
// requested page.
func (s *Service) SupplierRanking(ctx context.Context, limit, offset int) ([]suppliers.Entry, error) {
	limit = clampPage(limit, maxRankingPageSize)
	if offset < 0 {
		offset = 0
	}

	rows, err := s.reader.SupplierRows(ctx, (limit+offset)*supplierOverFetchFactor)
	if err != nil {
		return nil, err
	}

	return s.resolver.Rank(rows, limit, offset), nil
}

// ExpenseRanking returns politicians by total spending with optional name
// and region filters.
func (s *Service) ExpenseRanking(ctx context.Context, query, region string, limit, offset int) ([]repository.ExpenseRankEntry, error) {
	limit = clampPage(limit, maxRankingPageSize)
	if offset < 0 {
		offset = 0
	}

	entries, err := s.reader.ExpenseRanking(ctx, query, region, limit, offset)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []repository.ExpenseRankEntry{}
	}
	return entries, nil
}

// SpeechRanking returns politicians by speech count, each enriched with
// their dominant topics. Topic extraction never perturbs the count order.
func (s *Service) SpeechRanking(ctx context.Context, limit, offset int) ([]SpeechEntry, error) {
	limit = clampPage(limit, maxSpeechPageSize)
	if offset < 0 {
		offset = 0
	}

	rows, err := s.reader.SpeechCountRanking(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.PoliticianID
	}

	keywords, err := s.reader.SpeechKeywords(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]SpeechEntry, len(rows))
	for i, row := range rows {
		entries[i] = SpeechEntry{
			SpeechRankEntry: row,
			Topics:          s.topics.TopTopics(keywords[row.PoliticianID]),
		}
	}
	return entries, nil
}

func clampPage(limit, max int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > max {
		return max
	}
	return limit
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
