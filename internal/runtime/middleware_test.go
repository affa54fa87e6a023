package runtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestMiddleware_AllowsWhenCapacity(t *testing.T) {
	limits := NewLimits(1, 1, 200*time.Millisecond)
	limits.AcquireRequestTimeout = 50 * time.Millisecond

	ctrl := NewController(limits)
	mw := NewMiddleware(ctrl)

	next := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	}

	wrapped := mw.ToolMiddleware(server.ToolHandlerFunc(next))

	res, err := wrapped(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.NotNil(t, res)
	require.False(t, res.IsError)
}

func TestMiddleware_BusyWhenSaturated(t *testing.T) {
	limits := NewLimits(1, 1, time.Second)
	limits.AcquireRequestTimeout = 10 * time.Millisecond

	ctrl := NewController(limits)
	// Saturate the request semaphore.
	require.NoError(t, ctrl.AcquireRequest(context.Background()))
	defer ctrl.ReleaseRequest()

	mw := NewMiddleware(ctrl)

	next := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		t.Fatal("next should not be called when saturated")
		return nil, nil
	}

	wrapped := mw.ToolMiddleware(server.ToolHandlerFunc(next))

	res, err := wrapped(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.NotNil(t, res)
	require.True(t, res.IsError)
	assert.Contains(t, toolText(t, res), "BUSY_RESOURCE: concurrent request limit reached (max=1)")
}

func TestMiddleware_TimeoutApplied(t *testing.T) {
	limits := NewLimits(1, 1, 20*time.Millisecond)
	limits.AcquireRequestTimeout = 20 * time.Millisecond

	ctrl := NewController(limits)
	mw := NewMiddleware(ctrl)

	// This handler only returns when the context is done.
	next := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	wrapped := mw.ToolMiddleware(server.ToolHandlerFunc(next))

	res, err := wrapped(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.NotNil(t, res)
	require.True(t, res.IsError)
	assert.Contains(t, toolText(t, res), "TIMEOUT:")
}

func TestHTTPMiddleware(t *testing.T) {
	limits := NewLimits(1, 1, time.Second)
	limits.AcquireRequestTimeout = 10 * time.Millisecond
	ctrl := NewController(limits)
	mw := NewMiddleware(ctrl)

	var sawDeadline bool
	h := mw.HTTPMiddleware(func(w http.ResponseWriter, r *http.Request, err error) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawDeadline = r.Context().Deadline()
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/execute", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, sawDeadline)

	require.NoError(t, ctrl.AcquireRequest(context.Background()))
	defer ctrl.ReleaseRequest()

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/execute", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
