package idempotency

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T) Manager {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewManager(NewRedisStore(client, testLogger()), testLogger())
}

func TestExecuteRunsOperationOnce(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	calls := 0
	op := func(context.Context) (interface{}, error) {
		calls++
		return "saved", nil
	}

	first, err := m.Execute(ctx, "msg:1:100", time.Hour, op)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := m.Execute(ctx, "msg:1:100", time.Hour, op)
	require.NoError(t, err)
	assert.True(t, second.FromCache)

	assert.Equal(t, 1, calls)
}

func TestExecuteDistinctKeysRunIndependently(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	calls := 0
	op := func(context.Context) (interface{}, error) {
		calls++
		return nil, nil
	}

	_, err := m.Execute(ctx, "msg:1:100", time.Hour, op)
	require.NoError(t, err)
	_, err = m.Execute(ctx, "msg:1:101", time.Hour, op)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestExecutePropagatesOperationError(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	opErr := errors.New("insert failed")
	_, err := m.Execute(ctx, "msg:1:100", time.Hour, func(context.Context) (interface{}, error) {
		return nil, opErr
	})

	require.Error(t, err)

	// A failed run must not poison the key: the retry executes again.
	calls := 0
	_, err = m.Execute(ctx, "msg:1:100", time.Hour, func(context.Context) (interface{}, error) {
		calls++
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteRejectsNilOperation(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Execute(context.Background(), "msg:1:100", time.Hour, nil)
	assert.Error(t, err)
}
