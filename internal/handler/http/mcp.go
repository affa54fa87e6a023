package http

import (
	"context"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/vinodismyname/mcpbigquery/internal/auth"
)

// NewMCPHandler serves srv over streamable HTTP. Requests are stateless: POST
// carries JSON-RPC, GET opens an event stream kept alive with heartbeats.
func NewMCPHandler(srv *server.MCPServer, heartbeat time.Duration) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(srv,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
		server.WithHeartbeatInterval(heartbeat),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			if p, ok := auth.PrincipalFromContext(r.Context()); ok {
				return auth.WithPrincipal(ctx, p)
			}
			return ctx
		}),
	)
}
