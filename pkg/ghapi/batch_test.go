package ghapi_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

var errRepoMissing = errors.New("repo missing")

func TestBatchExecutor_Execute(t *testing.T) {
	t.Parallel()

	executor := ghapi.NewBatchExecutor(2)

	var running, peak atomic.Int32

	operation := func(name string) ghapi.BatchOperation {
		return ghapi.BatchOperation{
			ID: name,
			Run: func(ctx context.Context) (interface{}, error) {
				current := running.Add(1)
				defer running.Add(-1)

				for {
					old := peak.Load()
					if current <= old || peak.CompareAndSwap(old, current) {
						break
					}
				}

				time.Sleep(10 * time.Millisecond)

				return name + "-result", nil
			},
		}
	}

	results := executor.Execute(context.Background(), []ghapi.BatchOperation{
		operation("a"), operation("b"), operation("c"), operation("d"),
	})

	require.Len(t, results, 4)

	for i, id := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, id, results[i].ID)
		assert.True(t, results[i].Success)
		assert.Equal(t, id+"-result", results[i].Data)
		assert.True(t, results[i].Duration > 0)
	}

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestBatchExecutor_FailureIsolated(t *testing.T) {
	t.Parallel()

	var callbackCalls atomic.Int32

	results := ghapi.NewBatchExecutor(1).Execute(context.Background(), []ghapi.BatchOperation{
		{
			ID:       "bad",
			Run:      func(ctx context.Context) (interface{}, error) { return nil, errRepoMissing },
			Callback: func(result *ghapi.BatchResult) { callbackCalls.Add(1) },
		},
		{
			ID:       "good",
			Run:      func(ctx context.Context) (interface{}, error) { return 1, nil },
			Callback: func(result *ghapi.BatchResult) { callbackCalls.Add(1) },
		},
		{ID: "empty"},
	})

	require.Len(t, results, 3)
	assert.False(t, results[0].Success)
	assert.ErrorIs(t, results[0].Error, errRepoMissing)
	assert.True(t, results[1].Success)
	assert.ErrorIs(t, results[2].Error, ghapi.ErrNilBatchOperation)
	assert.Equal(t, int32(2), callbackCalls.Load())
}

func TestBatchExecutor_Timeout(t *testing.T) {
	t.Parallel()

	executor := ghapi.NewBatchExecutor(1)
	executor.SetTimeout(5 * time.Millisecond)

	results := executor.Execute(context.Background(), []ghapi.BatchOperation{{
		ID: "slow",
		Run: func(ctx context.Context) (interface{}, error) {
			<-ctx.Done()

			return nil, ctx.Err()
		},
	}})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.ErrorIs(t, results[0].Error, context.DeadlineExceeded)
}

func TestBatchExecutor_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var runs, callbacks atomic.Int32

	operations := make([]ghapi.BatchOperation, 3)
	for i := range operations {
		operations[i] = ghapi.BatchOperation{
			ID: string(rune('a' + i)),
			Run: func(ctx context.Context) (interface{}, error) {
				runs.Add(1)

				return nil, nil
			},
			Callback: func(result *ghapi.BatchResult) { callbacks.Add(1) },
		}
	}

	results := ghapi.NewBatchExecutor(1).Execute(ctx, operations)

	require.Len(t, results, 3)

	for i, result := range results {
		assert.Equal(t, string(rune('a'+i)), result.ID)
		assert.False(t, result.Success)
		assert.ErrorIs(t, result.Error, context.Canceled)
	}

	assert.Equal(t, int32(0), runs.Load())
	assert.Equal(t, int32(3), callbacks.Load())
}
