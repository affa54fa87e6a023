package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vinodismyname/mcpbigquery/internal/auth"
	"github.com/vinodismyname/mcpbigquery/internal/models"
	"github.com/vinodismyname/mcpbigquery/pkg/mcperr"
)

// ExecuteToolName is the single tool the server exposes.
const ExecuteToolName = "bigquery.execute"

// Executor runs a controlled operation for a principal.
type Executor interface {
	Execute(ctx context.Context, principal string, args models.ExecuteArgs) (*models.ExecuteResponse, error)
}

// RegisterBigQueryTools adds bigquery.execute to s and records it in reg.
// The principal is taken from the request context, where the transport put it.
func RegisterBigQueryTools(s *server.MCPServer, reg *Registry, exec Executor) {
	tool := mcp.NewTool(
		ExecuteToolName,
		mcp.WithDescription("Run controlled BigQuery operation"),
		mcp.WithInputSchema[models.ExecuteArgs](),
	)
	s.AddTool(tool, executeHandler(exec))
	reg.Register(tool)
}

func executeHandler(exec Executor) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		principal, ok := auth.PrincipalFromContext(ctx)
		if !ok {
			return mcperr.New(mcperr.Unauthenticated, "no principal for this session"), nil
		}

		raw, err := json.Marshal(req.Params.Arguments)
		if err != nil {
			return mcperr.Wrapf(mcperr.Validation, "Invalid params: %v", err), nil
		}
		args, err := models.DecodeExecuteArgs(raw)
		if err != nil {
			return mcperr.Wrapf(mcperr.Validation, "Invalid params: %v", err), nil
		}

		resp, err := exec.Execute(ctx, principal, args)
		if err != nil {
			return mcperr.FromError(err, errorCodes), nil
		}

		text, err := json.Marshal(resp.Result)
		if err != nil {
			return mcperr.New(mcperr.ExecutionFailed, fmt.Sprintf("encode result: %v", err)), nil
		}
		return mcp.NewToolResultStructured(resp.Result, string(text)), nil
	}
}
