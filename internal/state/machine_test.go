package state

import (
	"context"
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

func newTestMachine(t *testing.T) (StateMachine, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	storage := NewRedisStorage(client, testLogger())
	return NewStateMachine(storage, testLogger(), client), client
}

func TestStateMachineSetAndGet(t *testing.T) {
	fsm, _ := newTestMachine(t)
	ctx := context.Background()

	err := fsm.SetState(ctx, 42, StateAddName, map[string]interface{}{"debtor_name": "Ana"})
	require.NoError(t, err)

	got, err := fsm.GetState(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, StateAddName, got.CurrentState)
	assert.Equal(t, "Ana", got.Context["debtor_name"])
}

func TestStateMachineGetMissing(t *testing.T) {
	fsm, _ := newTestMachine(t)

	_, err := fsm.GetState(context.Background(), 99)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestStateMachineTransitionCarriesDraft(t *testing.T) {
	fsm, _ := newTestMachine(t)
	ctx := context.Background()

	require.NoError(t, fsm.SetState(ctx, 7, StateAddName, map[string]interface{}{"debtor_name": "Bob"}))
	require.NoError(t, fsm.TransitionTo(ctx, 7, StateAddPhone))

	got, err := fsm.GetState(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, StateAddPhone, got.CurrentState)
	assert.Equal(t, "Bob", got.Context["debtor_name"])
}

func TestStateMachineRejectsInvalidTransition(t *testing.T) {
	fsm, _ := newTestMachine(t)
	ctx := context.Background()

	require.NoError(t, fsm.SetState(ctx, 7, StateAddName, nil))

	err := fsm.TransitionTo(ctx, 7, StateAddConfirm)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestStateMachineClear(t *testing.T) {
	fsm, _ := newTestMachine(t)
	ctx := context.Background()

	require.NoError(t, fsm.SetState(ctx, 7, StateAddAmount, nil))
	require.NoError(t, fsm.ClearState(ctx, 7))

	_, err := fsm.GetState(ctx, 7)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestStateMachineLockBlocksConcurrentWrite(t *testing.T) {
	fsm, client := newTestMachine(t)
	ctx := context.Background()

	// Simulate another instance holding the per-user lock.
	require.NoError(t, client.SetNX(ctx, "user:lock:7", 1, lockTTL).Err())

	err := fsm.SetState(ctx, 7, StateAddName, nil)
	assert.ErrorIs(t, err, ErrStateLocked)
}

func TestMemoryStorageRoundTrip(t *testing.T) {
	storage := NewMemoryStorage()
	fsm := NewStateMachine(storage, testLogger(), nil)
	ctx := context.Background()

	require.NoError(t, fsm.SetState(ctx, 1, StateAddNote, map[string]interface{}{"note": "till friday"}))

	got, err := fsm.GetState(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateAddNote, got.CurrentState)
	assert.Equal(t, "till friday", got.Context["note"])
}

func TestMemoryStorageSweep(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, storage.SetState(ctx, 1, &UserState{UserID: 1, CurrentState: StateAddName}))
	require.NoError(t, storage.SetState(ctx, 2, &UserState{UserID: 2, CurrentState: StateAddAmount}))

	// Backdate one state past the cutoff.
	stale, err := storage.GetState(ctx, 1)
	require.NoError(t, err)
	stale.UpdatedAt = time.Now().UTC().Add(-2 * time.Hour)
	storage.mu.Lock()
	storage.states[1] = stale
	storage.mu.Unlock()

	assert.Equal(t, 1, storage.Sweep(time.Hour))

	_, err = storage.GetState(ctx, 1)
	assert.ErrorIs(t, err, ErrStateNotFound)

	_, err = storage.GetState(ctx, 2)
	assert.NoError(t, err)
}
