package runtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vinodismyname/mcpbigquery/pkg/mcperr"
)

// Middleware enforces runtime limits for tool calls and HTTP requests using
// the Controller. It bounds global concurrency and applies an operation
// timeout to each call.
type Middleware struct {
	ctrl *Controller
}

// NewMiddleware constructs a Middleware bound to the provided Controller.
func NewMiddleware(ctrl *Controller) *Middleware {
	return &Middleware{ctrl: ctrl}
}

// ToolMiddleware implements mcp-go's tool handler middleware interface.
// It acquires a request slot, applies a timeout, and guarantees release.
func (m *Middleware) ToolMiddleware(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callCtx, done, err := m.ctrl.Begin(ctx)
		if err != nil {
			// Tool-level error so the client can retry.
			return mcperr.Wrapf(mcperr.BusyResource, "concurrent request limit reached (max=%d)", m.ctrl.limits.MaxConcurrentRequests), nil
		}
		defer done()

		res, err := next(callCtx, req)

		if errors.Is(err, context.DeadlineExceeded) || (callCtx.Err() == context.DeadlineExceeded && err == nil && res == nil) {
			return mcperr.New(mcperr.Timeout, fmt.Sprintf("operation exceeded %s", m.ctrl.limits.OperationTimeout)), nil
		}
		return res, err
	}
}

// HTTPMiddleware applies the same guardrails to plain HTTP handlers. onBusy
// renders the rejection when no slot is available.
func (m *Middleware) HTTPMiddleware(onBusy func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, done, err := m.ctrl.Begin(r.Context())
			if err != nil {
				onBusy(w, r, err)
				return
			}
			defer done()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
