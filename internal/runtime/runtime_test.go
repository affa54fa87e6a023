package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimits(t *testing.T) {
	limits := NewLimits(2, 4, 120*time.Second)
	assert.Equal(t, 8, limits.MaxConcurrentRequests)
	assert.Equal(t, 120*time.Second, limits.OperationTimeout)

	fallback := NewLimits(0, -1, 0)
	assert.Equal(t, 2, fallback.Workers)
	assert.Equal(t, 4, fallback.ThreadsPerWorker)
	assert.Equal(t, 8, fallback.MaxConcurrentRequests)
	assert.Equal(t, 120*time.Second, fallback.OperationTimeout)
}

func TestControllerAcquireRelease(t *testing.T) {
	limits := NewLimits(1, 1, time.Second)
	controller := NewController(limits)

	require.Equal(t, limits, controller.LimitsSnapshot())

	require.NoError(t, controller.AcquireRequest(context.Background()))
	controller.ReleaseRequest()
}

func TestControllerBegin(t *testing.T) {
	limits := NewLimits(1, 1, 50*time.Millisecond)
	limits.AcquireRequestTimeout = 10 * time.Millisecond
	controller := NewController(limits)

	ctx, done, err := controller.Begin(context.Background())
	require.NoError(t, err)
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)

	// the only slot is held
	_, _, err = controller.Begin(context.Background())
	require.ErrorIs(t, err, ErrBusy)

	done()
	require.Error(t, ctx.Err())

	_, done, err = controller.Begin(context.Background())
	require.NoError(t, err)
	done()
}
