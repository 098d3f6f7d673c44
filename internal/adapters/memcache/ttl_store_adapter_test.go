package memcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, fields ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, fields ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, fields ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, fields ...any) {}
func (nopLogger) Fatal(ctx context.Context, msg string, fields ...any) {}
func (l nopLogger) With(fields ...any) domain.Logger                   { return l }

func newAdapter(t *testing.T) *TTLStoreAdapter {
	t.Helper()
	adapter, cleanup := NewTTLStoreAdapter(nopLogger{})
	t.Cleanup(cleanup)
	return adapter
}

func TestSetGetRoundTrip(t *testing.T) {
	adapter := newAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k1", []byte("v1"), time.Minute))
	value, err := adapter.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), value)
}

func TestGetMissingKey(t *testing.T) {
	adapter := newAdapter(t)

	_, err := adapter.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestSetReplacesWholeEntry(t *testing.T) {
	adapter := newAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k1", []byte("first"), time.Minute))
	require.NoError(t, adapter.Set(ctx, "k1", []byte("second"), time.Minute))

	value, err := adapter.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), value)
}

func TestDelete(t *testing.T) {
	adapter := newAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k1", []byte("v1"), time.Minute))
	require.NoError(t, adapter.Delete(ctx, "k1"))

	_, err := adapter.Get(ctx, "k1")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	// Deleting an absent key is not an error.
	assert.NoError(t, adapter.Delete(ctx, "k1"))
}

func TestExists(t *testing.T) {
	adapter := newAdapter(t)
	ctx := context.Background()

	exists, err := adapter.Exists(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, adapter.Set(ctx, "k1", []byte("v1"), time.Minute))
	exists, err = adapter.Exists(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestEntryExpires(t *testing.T) {
	adapter := newAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k1", []byte("v1"), 20*time.Millisecond))
	time.Sleep(60 * time.Millisecond)

	_, err := adapter.Get(ctx, "k1")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	exists, err := adapter.Exists(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepeatedReadsDoNotExtendTTL(t *testing.T) {
	adapter := newAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k1", []byte("v1"), 60*time.Millisecond))

	// Keep the key hot within its window; reads must not push out expiry.
	deadline := time.Now().Add(50 * time.Millisecond)
	for time.Now().Before(deadline) {
		_, err := adapter.Get(ctx, "k1")
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(60 * time.Millisecond)

	_, err := adapter.Get(ctx, "k1")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}
