package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/vinodismyname/mcpbigquery/config"
	"github.com/vinodismyname/mcpbigquery/internal/auth"
	"github.com/vinodismyname/mcpbigquery/internal/bq"
	handler "github.com/vinodismyname/mcpbigquery/internal/handler/http"
	"github.com/vinodismyname/mcpbigquery/internal/logger"
	"github.com/vinodismyname/mcpbigquery/internal/policy"
	"github.com/vinodismyname/mcpbigquery/internal/registry"
	"github.com/vinodismyname/mcpbigquery/internal/runtime"
	srvpkg "github.com/vinodismyname/mcpbigquery/internal/server"
	"github.com/vinodismyname/mcpbigquery/internal/service"
	"github.com/vinodismyname/mcpbigquery/internal/telemetry"
	"github.com/vinodismyname/mcpbigquery/pkg/version"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.GetStructuredConfig(args)
	if err != nil {
		return err
	}

	// The stdio transport owns stdout.
	logOut := stdout
	if cfg.Server.Stdio {
		logOut = stderr
	}
	log := logger.New(logOut, cfg.App.Name, cfg.App.LogLevel)
	ctx = log.WithContext(ctx)

	engine, err := policy.Load(cfg.Policy.JSON)
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}

	client, err := bq.NewClient(ctx, cfg.BigQuery.ProjectID, cfg.BigQuery.Location)
	if err != nil {
		return fmt.Errorf("create BigQuery client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("close BigQuery client")
		}
	}()

	bqService := bq.NewService(client, bq.Options{
		ProjectID:            cfg.BigQuery.ProjectID,
		MaxSelectLimit:       cfg.BigQuery.MaxSelectLimit,
		AllowFullTableDelete: cfg.BigQuery.AllowFullTableDelete,
	})
	executor := service.NewExecutor(engine, bqService)

	limits := runtime.NewLimits(cfg.Server.WebConcurrency, cfg.Server.WebThreads, cfg.Server.RequestTimeout())
	runtimeController := runtime.NewController(limits)
	runtimeMW := runtime.NewMiddleware(runtimeController)

	toolRegistry := registry.New()
	mcpServer := server.NewMCPServer(
		cfg.App.Name,
		version.Version(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithHooks(telemetry.NewHooks(log)),
		server.WithToolHandlerMiddleware(runtimeMW.ToolMiddleware),
	)
	registry.RegisterBigQueryTools(mcpServer, toolRegistry, executor)

	snapshot := runtimeController.LimitsSnapshot()
	log.Info().
		Str("version", version.Version()).
		Str("project_id", cfg.BigQuery.ProjectID).
		Str("location", cfg.BigQuery.Location).
		Str("auth_mode", cfg.Auth.Mode).
		Strs("tools", toolRegistry.Names(ctx)).
		Int("workers", snapshot.Workers).
		Int("threads_per_worker", snapshot.ThreadsPerWorker).
		Int("max_concurrent_requests", snapshot.MaxConcurrentRequests).
		Dur("operation_timeout", snapshot.OperationTimeout).
		Str("client_model", cfg.App.ClientModel).
		Int("model_context_size", toolRegistry.ModelContextSize(cfg.App.ClientModel)).
		Bool("stdio", cfg.Server.Stdio).
		Msg("server bootstrap configured")

	var srv srvpkg.Server
	if cfg.Server.Stdio {
		srv = srvpkg.NewStdio(mcpServer, cfg.Auth.StdioPrincipal, stdin, stdout, log)
	} else {
		h := handler.NewHandler(handler.Deps{
			AppName:  cfg.App.Name,
			Executor: executor,
			Pinger:   bqService,
			Auth:     newAuthenticator(cfg.Auth),
			Limit:    runtimeMW.HTTPMiddleware(handler.WriteError),
			MCP:      handler.NewMCPHandler(mcpServer, config.DefaultKeepAliveInterval),
		}, log)
		srv = srvpkg.NewHTTP(h.Init(), cfg.Server, log)
	}

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newAuthenticator(cfg config.Auth) *auth.Authenticator {
	var verifier auth.TokenVerifier
	if cfg.Mode == config.AuthModeIDToken {
		keys := auth.NewKeySet(nil, cfg.GoogleCertsURL)
		verifier = auth.NewGoogleVerifier(keys, cfg.Audience)
	}
	return auth.New(cfg.Mode, verifier)
}
