package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHooks_LogsListAndErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	srv := server.NewMCPServer("test", "0.0.0",
		server.WithToolCapabilities(true),
		server.WithHooks(NewHooks(logger)),
	)

	srv.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	assert.Contains(t, buf.String(), "list_tools served")

	buf.Reset()
	res := srv.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"missing"}}`))
	_, isErr := res.(mcp.JSONRPCError)
	require.True(t, isErr)
	assert.Contains(t, buf.String(), "request error")
}
