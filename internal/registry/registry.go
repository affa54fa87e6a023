package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tmc/langchaingo/llms"
)

// Registry keeps the definitions of the tools registered on the MCP server
// for discovery and startup reporting.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]mcp.Tool
}

// New constructs an empty Registry ready for tool population.
func New() *Registry {
	return &Registry{
		tools: map[string]mcp.Tool{},
	}
}

// Register stores a tool definition for discovery.
func (r *Registry) Register(tool mcp.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tools[tool.Name] = tool
}

// Tools returns a stable-sorted list of registered tool definitions.
func (r *Registry) Tools(_ context.Context) ([]mcp.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]mcp.Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}

	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name < tools[j].Name
	})

	return tools, nil
}

// Names returns the sorted names of the registered tools.
func (r *Registry) Names(ctx context.Context) []string {
	tools, _ := r.Tools(ctx)
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	return names
}

// ModelContextSize reports the context window of the named client model so
// startup logs show how much room the tool results have.
func (r *Registry) ModelContextSize(modelName string) int {
	return llms.GetModelContextSize(modelName)
}
