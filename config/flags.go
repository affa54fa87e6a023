package config

import (
	"flag"
	"fmt"
	"time"
)

// parseFlags parses command-line flags into a partial configuration.
// Unset flags keep their zero value so lower-priority sources survive the merge.
//
// Flags:
//
//	-config                  JSON config file path
//	-port                    listen port
//	-web-concurrency         worker count
//	-web-threads             threads per worker
//	-timeout                 request timeout in seconds
//	-shutdown-timeout        graceful shutdown timeout (e.g. "10s")
//	-project-id              BigQuery project
//	-location                BigQuery location
//	-auth-mode               id_token, header or none
//	-audience                expected ID token audience
//	-policy                  policy JSON or path to a policy file
//	-max-select-limit        upper bound for SELECT limits
//	-allow-full-table-delete allow DELETE without filters
//	-log-level               log level
//	-client-model            model name for context size reporting
//	-stdio                   serve MCP over stdio
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("mcp-bigquery-server", flag.ContinueOnError)

	var (
		jsonConfigPath       string
		port                 int
		webConcurrency       int
		webThreads           int
		timeoutSeconds       int
		shutdownTimeout      time.Duration
		projectID            string
		location             string
		authMode             string
		audience             string
		policyJSON           string
		maxSelectLimit       int
		allowFullTableDelete bool
		logLevel             string
		clientModel          string
		stdio                bool
	)

	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path")
	fs.IntVar(&port, "port", 0, "Listen port")
	fs.IntVar(&webConcurrency, "web-concurrency", 0, "Worker count")
	fs.IntVar(&webThreads, "web-threads", 0, "Threads per worker")
	fs.IntVar(&timeoutSeconds, "timeout", 0, "Request timeout in seconds")
	fs.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "Graceful shutdown timeout")
	fs.StringVar(&projectID, "project-id", "", "BigQuery project ID")
	fs.StringVar(&location, "location", "", "BigQuery location")
	fs.StringVar(&authMode, "auth-mode", "", "Auth mode: id_token, header or none")
	fs.StringVar(&audience, "audience", "", "Expected ID token audience")
	fs.StringVar(&policyJSON, "policy", "", "Policy JSON or path to a policy file")
	fs.IntVar(&maxSelectLimit, "max-select-limit", 0, "Upper bound for SELECT limits")
	fs.BoolVar(&allowFullTableDelete, "allow-full-table-delete", false, "Allow DELETE without filters")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&clientModel, "client-model", "", "Model name for context size reporting")
	fs.BoolVar(&stdio, "stdio", false, "Run server over stdio transport")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			LogLevel:    logLevel,
			ClientModel: clientModel,
		},
		BigQuery: BigQuery{
			ProjectID:            projectID,
			Location:             location,
			MaxSelectLimit:       maxSelectLimit,
			AllowFullTableDelete: allowFullTableDelete,
		},
		Auth: Auth{
			Mode:     authMode,
			Audience: audience,
		},
		Policy: Policy{
			JSON: policyJSON,
		},
		Server: Server{
			Port:            port,
			WebConcurrency:  webConcurrency,
			WebThreads:      webThreads,
			TimeoutSeconds:  timeoutSeconds,
			ShutdownTimeout: shutdownTimeout,
			Stdio:           stdio,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}
