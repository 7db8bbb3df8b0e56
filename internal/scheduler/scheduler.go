// File: internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/modelquery/api/schemas"
	"github.com/xkilldash9x/modelquery/internal/modeling"
)

// DefaultMinChunkSize is the smallest chunk worth dispatching to a worker;
// below it the per-goroutine overhead dominates.
const DefaultMinChunkSize = 500

// ChunkPolicy fixes how the callable universe is partitioned. The policy is
// static: chunk boundaries are decided once before any worker starts.
type ChunkPolicy struct {
	// MinChunkSize is the minimum number of callables per chunk.
	// Zero means DefaultMinChunkSize.
	MinChunkSize int
	// Workers is the preferred number of chunks (one per worker).
	// Zero means runtime.NumCPU().
	Workers int
}

func (p ChunkPolicy) normalized() ChunkPolicy {
	if p.MinChunkSize <= 0 {
		p.MinChunkSize = DefaultMinChunkSize
	}
	if p.Workers <= 0 {
		p.Workers = runtime.NumCPU()
	}
	return p
}

// ChunkCount returns how many chunks n items produce: one chunk per worker
// when the input is large enough, fewer when chunks would drop below the
// minimum size, never zero for a non-empty input.
func (p ChunkPolicy) ChunkCount(n int) int {
	p = p.normalized()
	chunks := n / p.MinChunkSize
	if chunks > p.Workers {
		chunks = p.Workers
	}
	if chunks < 1 {
		chunks = 1
	}
	return chunks
}

// partition splits items into count contiguous, near-even chunks,
// preserving order. count must be >= 1.
func partition[T any](items []T, count int) [][]T {
	chunks := make([][]T, 0, count)
	size := len(items) / count
	rem := len(items) % count
	start := 0
	for i := 0; i < count; i++ {
		end := start + size
		if i < rem {
			end++
		}
		chunks = append(chunks, items[start:end])
		start = end
	}
	return chunks
}

// MapFunc processes one chunk into a partial result map.
type MapFunc func(ctx context.Context, chunk []schemas.Callable) (modeling.ResultMap, error)

// ReduceFunc combines two partial result maps. It must be insensitive to
// the order partials arrive in.
type ReduceFunc func(dst, src modeling.ResultMap) modeling.ResultMap

// Scheduler is the injected map-reduce capability. Production code uses
// Parallel; tests substitute Sequential to stay single-threaded.
type Scheduler interface {
	Run(ctx context.Context, items []schemas.Callable, mapFn MapFunc, reduceFn ReduceFunc) (modeling.ResultMap, error)
}

// Parallel runs chunks on their own goroutines. Workers are stateless and
// share nothing mutable; the reduce step is the sole merge point. Any
// worker error cancels the remaining workers and fails the whole run.
type Parallel struct {
	policy ChunkPolicy
	logger *zap.Logger
}

// NewParallel builds a Parallel scheduler with the given chunk policy.
func NewParallel(policy ChunkPolicy, logger *zap.Logger) *Parallel {
	return &Parallel{policy: policy, logger: logger.Named("scheduler")}
}

// Run implements Scheduler.
func (s *Parallel) Run(ctx context.Context, items []schemas.Callable, mapFn MapFunc, reduceFn ReduceFunc) (modeling.ResultMap, error) {
	if len(items) == 0 {
		return modeling.ResultMap{}, nil
	}

	chunks := partition(items, s.policy.ChunkCount(len(items)))
	s.logger.Debug("Partitioned work",
		zap.Int("items", len(items)),
		zap.Int("chunks", len(chunks)))

	partials := make([]modeling.ResultMap, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			partial, err := mapFn(gctx, chunk)
			if err != nil {
				return fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
			}
			partials[i] = partial
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := modeling.ResultMap{}
	for _, partial := range partials {
		result = reduceFn(result, partial)
	}
	return result, nil
}

// Sequential processes everything as a single chunk on the calling
// goroutine. Used in tests and by callers that want deterministic,
// single-threaded execution.
type Sequential struct{}

// Run implements Scheduler.
func (Sequential) Run(ctx context.Context, items []schemas.Callable, mapFn MapFunc, reduceFn ReduceFunc) (modeling.ResultMap, error) {
	if len(items) == 0 {
		return modeling.ResultMap{}, nil
	}
	partial, err := mapFn(ctx, items)
	if err != nil {
		return nil, err
	}
	return reduceFn(modeling.ResultMap{}, partial), nil
}
