package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/biyonik/stormquery/pkg/cache"
	"github.com/biyonik/stormquery/pkg/mapper"
)

func countingExecutor(rows []mapper.Row, calls *int) Executor {
	return ExecutorFunc(func(context.Context, string, []any) ([]mapper.Row, error) {
		*calls++
		return rows, nil
	})
}

func TestCachedExecutor_HitAfterMiss(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(quietLogger())
	defer store.Close()

	calls := 0
	exec := NewCachedExecutor(countingExecutor([]mapper.Row{
		{"customer_id": int64(7), "customer_name": "Ann", "order_id": int64(1)},
		{"customer_id": int64(7), "customer_name": "Ann", "order_id": int64(2)},
	}, &calls), store, time.Minute, quietLogger())

	query := func() *Query {
		return New(exec).From("customers c", customerMap()).
			LeftJoin("orders o", "o.customer_id", "c.customer_id", ordersMap()).
			Where("c.customer_id", 7)
	}

	first, err := query().Find(ctx)
	require.NoError(t, err)
	second, err := query().Find(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, store.Len())
	assert.NotSame(t, first, second, "hydration is never shared between calls")

	a, b := first.(*mapper.Record), second.(*mapper.Record)
	assert.Equal(t, a.String("name"), b.String("name"))
	assert.Len(t, b.Many("orders"), 2)
	assert.Equal(t, int64(2), b.Many("orders")[1].Int64("id"))

	// farklı parametre farklı anahtar
	_, err = New(exec).From("customers c", customerMap()).Where("c.customer_id", 8).FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCachedExecutor_Invalidate(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(quietLogger())
	defer store.Close()

	calls := 0
	exec := NewCachedExecutor(countingExecutor([]mapper.Row{{"a": int64(1)}}, &calls), store, 0, quietLogger())

	_, err := exec.Execute(ctx, "SELECT a FROM t WHERE a = ?", []any{1})
	require.NoError(t, err)
	require.NoError(t, exec.Invalidate(ctx, "SELECT a FROM t WHERE a = ?", []any{1}))
	_, err = exec.Execute(ctx, "SELECT a FROM t WHERE a = ?", []any{1})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCachedExecutor_CorruptEntryFallsThrough(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(quietLogger())
	defer store.Close()

	calls := 0
	exec := NewCachedExecutor(countingExecutor([]mapper.Row{{"a": int64(1)}}, &calls), store, 0, quietLogger())
	key, err := exec.key("SELECT 1", nil)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, key, []byte{0xc1}, 0))

	rows, err := exec.Execute(ctx, "SELECT 1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.EqualValues(t, 1, rows[0]["a"])

	cached, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	decoded, err := decodeRows(cached)
	require.NoError(t, err)
	assert.EqualValues(t, 1, decoded[0]["a"])
}

func TestCachedExecutor_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(quietLogger())
	defer store.Close()

	boom := errors.New("deadlock")
	exec := NewCachedExecutor(ExecutorFunc(func(context.Context, string, []any) ([]mapper.Row, error) {
		return nil, boom
	}), store, time.Minute, quietLogger())

	_, err := exec.Execute(ctx, "SELECT 1", nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.Len())
}

func TestThrottledExecutor(t *testing.T) {
	calls := 0
	exec := NewThrottledExecutor(countingExecutor(nil, &calls), rate.Every(time.Hour), 1)

	_, err := exec.Execute(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = exec.Execute(ctx, "SELECT 1", nil)
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "throttled query must not reach the executor")
}
