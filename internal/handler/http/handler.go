package http

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vinodismyname/mcpbigquery/internal/models"
)

// Executor runs a controlled operation for a principal.
type Executor interface {
	Execute(ctx context.Context, principal string, args models.ExecuteArgs) (*models.ExecuteResponse, error)
}

// Pinger probes the warehouse for readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Authenticator resolves the principal of a request.
type Authenticator interface {
	Authenticate(r *http.Request) (string, error)
}

// Deps are the collaborators of Handler.
type Deps struct {
	AppName  string
	Executor Executor
	Pinger   Pinger
	Auth     Authenticator
	// Limit wraps handlers that consume a request slot.
	Limit func(http.Handler) http.Handler
	// MCP serves the streamable MCP endpoint.
	MCP http.Handler
}

type Handler struct {
	appName  string
	executor Executor
	pinger   Pinger
	auth     Authenticator
	limit    func(http.Handler) http.Handler
	mcp      http.Handler

	logger zerolog.Logger
}

func NewHandler(deps Deps, logger zerolog.Logger) *Handler {
	limit := deps.Limit
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	logger.Info().Msg("http handler created")
	return &Handler{
		appName:  deps.AppName,
		executor: deps.Executor,
		pinger:   deps.Pinger,
		auth:     deps.Auth,
		limit:    limit,
		mcp:      deps.MCP,
		logger:   logger,
	}
}
