// Package telemetry logs MCP server lifecycle events.
package telemetry

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/vinodismyname/mcpbigquery/internal/auth"
)

// NewHooks constructs mcp-go server hooks that log sessions, discovery and
// tool calls with the provided logger.
func NewHooks(logger zerolog.Logger) *server.Hooks {
	hooks := &server.Hooks{}

	hooks.AddOnRegisterSession(func(ctx context.Context, session server.ClientSession) {
		logger.Info().Str("session_id", session.SessionID()).Msg("session registered")
	})

	hooks.AddOnUnregisterSession(func(ctx context.Context, session server.ClientSession) {
		logger.Info().Str("session_id", session.SessionID()).Msg("session unregistered")
	})

	hooks.AddAfterInitialize(func(ctx context.Context, id any, req *mcp.InitializeRequest, res *mcp.InitializeResult) {
		logger.Info().
			Str("client", req.Params.ClientInfo.Name).
			Str("protocol_version", res.ProtocolVersion).
			Msg("initialize served")
	})

	hooks.AddAfterListTools(func(ctx context.Context, id any, req *mcp.ListToolsRequest, res *mcp.ListToolsResult) {
		logger.Info().Int("tools", len(res.Tools)).Msg("list_tools served")
	})

	hooks.AddAfterCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest, res *mcp.CallToolResult) {
		principal, _ := auth.PrincipalFromContext(ctx)
		evt := logger.Info()
		if res != nil && res.IsError {
			evt = logger.Warn()
		}
		evt.Str("tool", req.Params.Name).
			Str("principal", principal).
			Bool("is_error", res != nil && res.IsError).
			Msg("tool call served")
	})

	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		logger.Error().Str("method", string(method)).Err(err).Msg("request error")
	})

	return hooks
}
