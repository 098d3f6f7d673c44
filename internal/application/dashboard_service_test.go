package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
	"gitlab.com/motorlane/api/motorlane-market-service/pkg/cachekeys"
)

var fixedNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newDashboardService(store *fakeVehicleStore, cache *fakeCache) *DashboardService {
	svc := NewDashboardService(nopLogger{}, testConfig(), cache, store)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func overviewPayload(t *testing.T, snapshot *domain.AggregateSnapshot) domain.OverviewPayload {
	t.Helper()
	var payload domain.OverviewPayload
	require.NoError(t, json.Unmarshal(snapshot.Payload, &payload))
	return payload
}

func statsPayload(t *testing.T, snapshot *domain.AggregateSnapshot) domain.StatsPayload {
	t.Helper()
	var payload domain.StatsPayload
	require.NoError(t, json.Unmarshal(snapshot.Payload, &payload))
	return payload
}

func TestOverview_RevenueSumsSoldVehicles(t *testing.T) {
	store := &fakeVehicleStore{vehicles: []domain.Vehicle{
		soldVehicle("tenant-a", "v-1", int64Ptr(1000), fixedNow.AddDate(0, 0, -3)),
		soldVehicle("tenant-a", "v-2", int64Ptr(2000), fixedNow.AddDate(0, 0, -10)),
		soldVehicle("tenant-a", "v-3", int64Ptr(3000), fixedNow.AddDate(0, 0, -20)),
		// Outside the window, must not count.
		soldVehicle("tenant-a", "v-4", int64Ptr(9000), fixedNow.AddDate(0, 0, -40)),
		// Another tenant, must not count.
		soldVehicle("tenant-b", "v-5", int64Ptr(9000), fixedNow.AddDate(0, 0, -3)),
	}}

	svc := newDashboardService(store, newFakeCache())
	snapshot, err := svc.Overview(context.Background(), "tenant-a", domain.Window30d)
	require.NoError(t, err)

	payload := overviewPayload(t, snapshot)
	assert.Equal(t, 3, payload.SoldInWindow)
	assert.Equal(t, int64(6000), payload.Revenue)
}

func TestOverview_RevenueBucketsByMonthAscending(t *testing.T) {
	store := &fakeVehicleStore{vehicles: []domain.Vehicle{
		soldVehicle("tenant-a", "v-1", int64Ptr(1000), time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)),
		soldVehicle("tenant-a", "v-2", int64Ptr(2000), time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC)),
		soldVehicle("tenant-a", "v-3", int64Ptr(500), time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC)),
	}}

	svc := newDashboardService(store, newFakeCache())
	snapshot, err := svc.Overview(context.Background(), "tenant-a", domain.Window90d)
	require.NoError(t, err)

	payload := overviewPayload(t, snapshot)
	require.Len(t, payload.RevenueByMonth, 2)
	assert.Equal(t, domain.RevenueBucket{Month: "2025-05", Revenue: 2500, Count: 2}, payload.RevenueByMonth[0])
	assert.Equal(t, domain.RevenueBucket{Month: "2025-06", Revenue: 1000, Count: 1}, payload.RevenueByMonth[1])
}

func TestOverview_PriceStatsSkipNilPrices(t *testing.T) {
	store := &fakeVehicleStore{vehicles: []domain.Vehicle{
		{ID: "v-1", TenantID: "tenant-a", Status: domain.VehicleAvailable, Price: int64Ptr(5000)},
		{ID: "v-2", TenantID: "tenant-a", Status: domain.VehicleAvailable, Price: nil},
		{ID: "v-3", TenantID: "tenant-a", Status: domain.VehicleAvailable, Price: int64Ptr(15000)},
	}}

	svc := newDashboardService(store, newFakeCache())
	snapshot, err := svc.Overview(context.Background(), "tenant-a", domain.Window30d)
	require.NoError(t, err)

	payload := overviewPayload(t, snapshot)
	assert.Equal(t, 3, payload.ActiveListings, "the nil-price listing still counts as active")
	assert.Equal(t, domain.PriceStats{Avg: 10000, Min: 5000, Max: 15000}, payload.PriceStats)
}

func TestOverview_EmptyInventoryYieldsZeroStats(t *testing.T) {
	svc := newDashboardService(&fakeVehicleStore{}, newFakeCache())
	snapshot, err := svc.Overview(context.Background(), "tenant-a", domain.Window7d)
	require.NoError(t, err)

	payload := overviewPayload(t, snapshot)
	assert.Equal(t, domain.PriceStats{}, payload.PriceStats)
	assert.Zero(t, payload.Revenue)
	assert.Empty(t, payload.RevenueByMonth)
}

func TestOverview_AverageRoundsToNearest(t *testing.T) {
	store := &fakeVehicleStore{vehicles: []domain.Vehicle{
		{ID: "v-1", TenantID: "tenant-a", Status: domain.VehicleAvailable, Price: int64Ptr(100)},
		{ID: "v-2", TenantID: "tenant-a", Status: domain.VehicleAvailable, Price: int64Ptr(101)},
	}}

	svc := newDashboardService(store, newFakeCache())
	snapshot, err := svc.Overview(context.Background(), "tenant-a", domain.Window30d)
	require.NoError(t, err)

	assert.Equal(t, int64(101), overviewPayload(t, snapshot).PriceStats.Avg)
}

func TestOverview_PayloadIsDeterministic(t *testing.T) {
	store := &fakeVehicleStore{vehicles: []domain.Vehicle{
		soldVehicle("tenant-a", "v-1", int64Ptr(1000), fixedNow.AddDate(0, 0, -3)),
		{ID: "v-2", TenantID: "tenant-a", Status: domain.VehicleAvailable, Price: int64Ptr(7000)},
	}}

	first, err := newDashboardService(store, newFakeCache()).Overview(context.Background(), "tenant-a", domain.Window30d)
	require.NoError(t, err)
	second, err := newDashboardService(store, newFakeCache()).Overview(context.Background(), "tenant-a", domain.Window30d)
	require.NoError(t, err)

	assert.Equal(t, string(first.Payload), string(second.Payload), "unchanged rows must recompute byte-identically")
}

func TestOverview_CacheHitSkipsStore(t *testing.T) {
	cache := newFakeCache()
	store := &fakeVehicleStore{}
	svc := newDashboardService(store, cache)

	_, err := svc.Overview(context.Background(), "tenant-a", domain.Window30d)
	require.NoError(t, err)
	callsAfterFirst := store.calls

	_, err = svc.Overview(context.Background(), "tenant-a", domain.Window30d)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, store.calls, "the second read must be served from cache")
}

func TestOverview_CacheFailureRecomputes(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = domain.ErrCacheUnavailable
	cache.setErr = domain.ErrCacheUnavailable
	store := &fakeVehicleStore{}

	snapshot, err := newDashboardService(store, cache).Overview(context.Background(), "tenant-a", domain.Window30d)
	require.NoError(t, err, "cache outage degrades to recomputation, not failure")
	assert.Equal(t, "overview", snapshot.Kind)
	assert.Positive(t, store.calls)
}

func TestOverview_StoreFailureSurfaces(t *testing.T) {
	store := &fakeVehicleStore{err: domain.NewUpstreamError(domain.UpstreamTimeout, "vehicles.list", errors.New("deadline exceeded"))}
	cache := newFakeCache()

	_, err := newDashboardService(store, cache).Overview(context.Background(), "tenant-a", domain.Window30d)
	require.Error(t, err)
	assert.Zero(t, cache.setCalls, "a partial snapshot must never reach the cache")
}

func TestOverview_WindowBoundaries(t *testing.T) {
	for _, tt := range []struct {
		window domain.WindowKind
		edge   time.Time
	}{
		{domain.Window7d, fixedNow.AddDate(0, 0, -7)},
		{domain.Window30d, fixedNow.AddDate(0, 0, -30)},
		{domain.Window90d, fixedNow.AddDate(0, 0, -90)},
		// A whole calendar year back, spanning the 2024 leap day.
		{domain.Window1y, fixedNow.AddDate(-1, 0, 0)},
	} {
		t.Run(string(tt.window), func(t *testing.T) {
			store := &fakeVehicleStore{vehicles: []domain.Vehicle{
				soldVehicle("tenant-a", "v-edge", int64Ptr(100), tt.edge),
				soldVehicle("tenant-a", "v-out", int64Ptr(100), tt.edge.AddDate(0, 0, -1)),
			}}
			snapshot, err := newDashboardService(store, newFakeCache()).Overview(context.Background(), "tenant-a", tt.window)
			require.NoError(t, err)
			assert.Equal(t, 1, overviewPayload(t, snapshot).SoldInWindow, "window start is inclusive")
		})
	}
}

func TestStats_BreakdownsSortedAndCapped(t *testing.T) {
	var vehicles []domain.Vehicle
	// 12 distinct brands, brand-00 most frequent, to exercise the cap.
	for i := 0; i < 12; i++ {
		for j := 0; j <= i; j++ {
			vehicles = append(vehicles, domain.Vehicle{
				ID:       fmt.Sprintf("v-%d-%d", i, j),
				TenantID: "tenant-a",
				Brand:    fmt.Sprintf("brand-%02d", 11-i),
				FuelType: "petrol",
				Year:     2015 + i%3,
				Status:   domain.VehicleAvailable,
			})
		}
	}

	store := &fakeVehicleStore{vehicles: vehicles}
	snapshot, err := newDashboardService(store, newFakeCache()).Stats(context.Background(), "tenant-a")
	require.NoError(t, err)

	payload := statsPayload(t, snapshot)
	require.Len(t, payload.Brands, 10, "brand breakdown is capped")
	assert.Equal(t, "brand-00", payload.Brands[0].Key)
	assert.Equal(t, 12, payload.Brands[0].Count)
	for i := 1; i < len(payload.Brands); i++ {
		assert.GreaterOrEqual(t, payload.Brands[i-1].Count, payload.Brands[i].Count)
	}

	require.NotEmpty(t, payload.Years)
	assert.Equal(t, "2017", payload.Years[0].Key, "years sort descending")
}

func TestStats_TiesBreakAscendingByKey(t *testing.T) {
	store := &fakeVehicleStore{vehicles: []domain.Vehicle{
		{ID: "v-1", TenantID: "tenant-a", Brand: "zeta", FuelType: "diesel", Year: 2020},
		{ID: "v-2", TenantID: "tenant-a", Brand: "alpha", FuelType: "petrol", Year: 2021},
	}}

	snapshot, err := newDashboardService(store, newFakeCache()).Stats(context.Background(), "tenant-a")
	require.NoError(t, err)

	payload := statsPayload(t, snapshot)
	require.Len(t, payload.Brands, 2)
	assert.Equal(t, "alpha", payload.Brands[0].Key)
	assert.Equal(t, "zeta", payload.Brands[1].Key)
}

func TestStats_CachedUnderStatsKey(t *testing.T) {
	cache := newFakeCache()
	store := &fakeVehicleStore{}
	_, err := newDashboardService(store, cache).Stats(context.Background(), "tenant-a")
	require.NoError(t, err)

	_, err = cache.Get(context.Background(), cachekeys.DashboardStatsKey("tenant-a"))
	assert.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cache.ttls[cachekeys.DashboardStatsKey("tenant-a")])
}

func TestWindowKind_Parse(t *testing.T) {
	for _, valid := range []string{"7d", "30d", "90d", "1y"} {
		_, err := domain.ParseWindowKind(valid)
		assert.NoError(t, err, valid)
	}
	_, err := domain.ParseWindowKind("14d")
	assert.Error(t, err)
}
