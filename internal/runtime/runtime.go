package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/vinodismyname/mcpbigquery/config"
	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned when no request slot frees up within the acquire wait.
var ErrBusy = errors.New("concurrent request limit reached")

// Limits captures the request concurrency guardrails of the server. The slot
// pool is sized as workers times threads per worker.
type Limits struct {
	Workers          int
	ThreadsPerWorker int

	// Concurrency cap
	MaxConcurrentRequests int

	// Timeouts
	OperationTimeout      time.Duration
	AcquireRequestTimeout time.Duration
}

// NewLimits initializes Limits with fallbacks when values are unset.
func NewLimits(workers, threadsPerWorker int, operationTimeout time.Duration) Limits {
	if workers <= 0 {
		workers = config.DefaultWebConcurrency
	}
	if threadsPerWorker <= 0 {
		threadsPerWorker = config.DefaultWebThreads
	}
	if operationTimeout <= 0 {
		operationTimeout = config.DefaultTimeoutSeconds * time.Second
	}

	return Limits{
		Workers:               workers,
		ThreadsPerWorker:      threadsPerWorker,
		MaxConcurrentRequests: workers * threadsPerWorker,
		OperationTimeout:      operationTimeout,
		AcquireRequestTimeout: config.DefaultAcquireRequestTimeout,
	}
}

// Controller hands out request slots from a weighted semaphore.
type Controller struct {
	limits           Limits
	requestSemaphore *semaphore.Weighted
}

// NewController constructs a Controller backed by a weighted semaphore.
func NewController(limits Limits) *Controller {
	return &Controller{
		limits:           limits,
		requestSemaphore: semaphore.NewWeighted(int64(limits.MaxConcurrentRequests)),
	}
}

// AcquireRequest reserves capacity for an incoming request.
func (c *Controller) AcquireRequest(ctx context.Context) error {
	return c.requestSemaphore.Acquire(ctx, 1)
}

// ReleaseRequest frees previously-acquired request capacity.
func (c *Controller) ReleaseRequest() {
	c.requestSemaphore.Release(1)
}

// Begin waits at most AcquireRequestTimeout for a slot and returns a context
// bounded by OperationTimeout. done releases the slot and the context.
func (c *Controller) Begin(ctx context.Context) (opCtx context.Context, done func(), err error) {
	acquireCtx := ctx
	if c.limits.AcquireRequestTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, c.limits.AcquireRequestTimeout)
		defer cancel()
	}
	if err := c.AcquireRequest(acquireCtx); err != nil {
		return nil, nil, ErrBusy
	}

	opCtx, cancel := ctx, context.CancelFunc(func() {})
	if c.limits.OperationTimeout > 0 {
		opCtx, cancel = context.WithTimeout(ctx, c.limits.OperationTimeout)
	}
	return opCtx, func() {
		cancel()
		c.ReleaseRequest()
	}, nil
}

// LimitsSnapshot exposes the configured guardrails for telemetry and discovery.
func (c *Controller) LimitsSnapshot() Limits {
	return c.limits
}
