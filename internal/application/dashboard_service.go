package application

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"
	"time"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/config"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/metrics"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
	"gitlab.com/motorlane/api/motorlane-market-service/pkg/cachekeys"
)

// breakdownCap limits the brand and fuel-type breakdowns. The year
// breakdown is unlimited.
const breakdownCap = 10

// DashboardService computes time-windowed statistics over a tenant's
// vehicle collection, cache-aside: snapshots are served from the cache
// until TTL expiry and recomputed lazily from the relational store.
//
// Concurrent misses on the same key may each recompute and each overwrite
// the cache. That stampede is an accepted performance property, not a
// correctness problem: recomputation is idempotent given unchanged rows.
type DashboardService struct {
	logger   domain.Logger
	config   config.Provider
	cache    domain.CacheStore
	vehicles domain.VehicleStore

	// now is the single wall-clock dependence, injectable for tests.
	now func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(logger domain.Logger, cfg config.Provider, cache domain.CacheStore, vehicles domain.VehicleStore) *DashboardService {
	if logger == nil {
		panic("logger is nil in NewDashboardService")
	}
	if cfg == nil {
		panic("config provider is nil in NewDashboardService")
	}
	if cache == nil {
		panic("cache store is nil in NewDashboardService")
	}
	if vehicles == nil {
		panic("vehicle store is nil in NewDashboardService")
	}
	return &DashboardService{logger: logger, config: cfg, cache: cache, vehicles: vehicles, now: time.Now}
}

// Overview returns the dashboard:<tenant>:<window> aggregate: totals,
// monthly revenue buckets for the window and price statistics over
// currently-available inventory.
func (s *DashboardService) Overview(ctx context.Context, tenantID string, window domain.WindowKind) (*domain.AggregateSnapshot, error) {
	key := cachekeys.DashboardOverviewKey(tenantID, string(window))
	ttl := time.Duration(s.config.Get().Cache.DashboardOverviewTTLSeconds) * time.Second

	return s.getOrCompute(ctx, key, ttl, func() (*domain.AggregateSnapshot, error) {
		now := s.now().UTC()

		sold, err := s.vehicles.ListSoldSince(ctx, tenantID, window.Start(now))
		if err != nil {
			return nil, err
		}
		available, err := s.vehicles.ListByStatus(ctx, tenantID, domain.VehicleAvailable)
		if err != nil {
			return nil, err
		}

		payload := domain.OverviewPayload{
			ActiveListings: len(available),
			SoldInWindow:   len(sold),
			RevenueByMonth: revenueBuckets(sold),
			PriceStats:     priceStats(available),
		}
		for _, b := range payload.RevenueByMonth {
			payload.Revenue += b.Revenue
		}

		return s.assemble(tenantID, window, "overview", now, payload)
	})
}

// Stats returns the dashboard:stats:<tenant> aggregate: brand, fuel-type
// and model-year breakdowns over the tenant's full inventory.
func (s *DashboardService) Stats(ctx context.Context, tenantID string) (*domain.AggregateSnapshot, error) {
	key := cachekeys.DashboardStatsKey(tenantID)
	ttl := time.Duration(s.config.Get().Cache.DashboardStatsTTLSeconds) * time.Second

	return s.getOrCompute(ctx, key, ttl, func() (*domain.AggregateSnapshot, error) {
		now := s.now().UTC()

		all, err := s.vehicles.ListAll(ctx, tenantID)
		if err != nil {
			return nil, err
		}

		payload := domain.StatsPayload{
			Brands:    topCounts(all, func(v domain.Vehicle) string { return v.Brand }, breakdownCap),
			FuelTypes: topCounts(all, func(v domain.Vehicle) string { return v.FuelType }, breakdownCap),
			Years:     yearCounts(all),
		}

		return s.assemble(tenantID, "", "stats", now, payload)
	})
}

// getOrCompute is the cache-aside shape shared by both aggregates. A cache
// read failure degrades to recomputation; a store failure during compute
// surfaces as-is (the caller fails, never a partial snapshot).
func (s *DashboardService) getOrCompute(ctx context.Context, key string, ttl time.Duration, compute func() (*domain.AggregateSnapshot, error)) (*domain.AggregateSnapshot, error) {
	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		var snapshot domain.AggregateSnapshot
		if uerr := json.Unmarshal(cached, &snapshot); uerr == nil {
			metrics.IncCacheOp("aggregate_get", "hit")
			return &snapshot, nil
		}
		s.logger.Warn(ctx, "Discarding undecodable cached aggregate", "key", key)
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.Error(ctx, "Aggregate cache read failed, recomputing from store", "key", key, "error", err.Error())
		metrics.IncCacheOp("aggregate_get", "error")
	} else {
		metrics.IncCacheOp("aggregate_get", "miss")
	}

	snapshot, err := compute()
	if err != nil {
		return nil, err
	}
	metrics.IncAggregateRecompute(snapshot.Kind)

	raw, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Error(ctx, "Failed to marshal aggregate snapshot", "key", key, "error", err.Error())
		return snapshot, nil
	}
	// The write outlives request cancellation: a populated cache is still
	// valid for future requests.
	if err := s.cache.Set(context.WithoutCancel(ctx), key, raw, ttl); err != nil {
		s.logger.Error(ctx, "Failed to cache aggregate snapshot", "key", key, "error", err.Error())
		metrics.IncCacheOp("aggregate_set", "error")
	}
	return snapshot, nil
}

// assemble builds the full snapshot before anything reaches the cache.
func (s *DashboardService) assemble(tenantID string, window domain.WindowKind, kind string, computedAt time.Time, payload any) (*domain.AggregateSnapshot, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.UpstreamUnexpected, "aggregate.assemble", err)
	}
	return &domain.AggregateSnapshot{
		TenantID:   tenantID,
		WindowKind: window,
		Kind:       kind,
		ComputedAt: computedAt,
		Payload:    raw,
	}, nil
}

// revenueBuckets groups sold vehicles by truncating the sold timestamp to
// its UTC year-month, sums price per bucket and returns buckets ascending
// by bucket key.
func revenueBuckets(sold []domain.Vehicle) []domain.RevenueBucket {
	byMonth := make(map[string]*domain.RevenueBucket)
	for _, v := range sold {
		if v.SoldAt == nil {
			continue
		}
		month := v.SoldAt.UTC().Format("2006-01")
		bucket, ok := byMonth[month]
		if !ok {
			bucket = &domain.RevenueBucket{Month: month}
			byMonth[month] = bucket
		}
		bucket.Count++
		if v.Price != nil {
			bucket.Revenue += *v.Price
		}
	}

	buckets := make([]domain.RevenueBucket, 0, len(byMonth))
	for _, b := range byMonth {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Month < buckets[j].Month })
	return buckets
}

// priceStats computes avg/min/max over vehicles with a non-nil price. The
// average is rounded to the nearest integer; an empty input yields zeros.
func priceStats(vehicles []domain.Vehicle) domain.PriceStats {
	var stats domain.PriceStats
	var sum int64
	var n int64
	for _, v := range vehicles {
		if v.Price == nil {
			continue
		}
		p := *v.Price
		if n == 0 || p < stats.Min {
			stats.Min = p
		}
		if n == 0 || p > stats.Max {
			stats.Max = p
		}
		sum += p
		n++
	}
	if n == 0 {
		return domain.PriceStats{}
	}
	stats.Avg = int64(math.Round(float64(sum) / float64(n)))
	return stats
}

// topCounts counts occurrences of keyFn over vehicles and returns entries
// sorted descending by count, capped at limit. Ties break ascending by key
// so recomputation stays deterministic.
func topCounts(vehicles []domain.Vehicle, keyFn func(domain.Vehicle) string, limit int) []domain.BreakdownEntry {
	counts := make(map[string]int)
	for _, v := range vehicles {
		if key := keyFn(v); key != "" {
			counts[key]++
		}
	}

	entries := make([]domain.BreakdownEntry, 0, len(counts))
	for key, count := range counts {
		entries = append(entries, domain.BreakdownEntry{Key: key, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// yearCounts counts vehicles per model year, sorted descending by year,
// unlimited.
func yearCounts(vehicles []domain.Vehicle) []domain.BreakdownEntry {
	counts := make(map[int]int)
	for _, v := range vehicles {
		if v.Year > 0 {
			counts[v.Year]++
		}
	}

	years := make([]int, 0, len(counts))
	for year := range counts {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	entries := make([]domain.BreakdownEntry, 0, len(years))
	for _, year := range years {
		entries = append(entries, domain.BreakdownEntry{Key: strconv.Itoa(year), Count: counts[year]})
	}
	return entries
}
