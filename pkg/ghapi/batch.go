package ghapi

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
)

// ErrNilBatchOperation is returned for operations without a Run function.
var ErrNilBatchOperation = errors.New("batch operation has no run function")

// BatchOperation is one independent logical call.
type BatchOperation struct {
	ID       string
	Run      func(ctx context.Context) (interface{}, error)
	Callback func(result *BatchResult)
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string
	Success  bool
	Data     interface{}
	Error    error
	Duration time.Duration
}

// BatchExecutor runs independent logical calls concurrently. Each operation
// gets its own timeout; a failure in one never affects the others.
type BatchExecutor struct {
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{
		concurrency: concurrency,
		timeout:     constants.DefaultBatchTimeout,
	}
}

// SetTimeout sets the timeout for each operation.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs operations and returns their results in input order. At most
// the configured number of operations run at once; operations that start
// after ctx ends report ctx.Err() without running.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) []BatchResult {
	results := make([]BatchResult, len(operations))

	var group errgroup.Group

	group.SetLimit(b.concurrency)

	for index, operation := range operations {
		group.Go(func() error {
			result := &results[index]
			result.ID = operation.ID

			if err := ctx.Err(); err != nil {
				result.Error = err
			} else {
				start := time.Now()
				b.run(ctx, operation, result)
				result.Duration = time.Since(start)
			}

			if operation.Callback != nil {
				operation.Callback(result)
			}

			// Failures stay in their result so siblings keep running.
			return nil
		})
	}

	_ = group.Wait()

	return results
}

func (b *BatchExecutor) run(ctx context.Context, operation BatchOperation, result *BatchResult) {
	if operation.Run == nil {
		result.Error = ErrNilBatchOperation

		return
	}

	opCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	data, err := operation.Run(opCtx)
	result.Data = data
	result.Error = err
	result.Success = err == nil
}
