package config

import "time"

// Default settings for the MCP BigQuery server. Values mirror the container
// defaults so a bare `docker run` and a local `go run` behave the same.

const (
	DefaultAppName          = "mcp-bigquery-server"
	DefaultLogLevel         = "INFO"
	DefaultBigQueryLocation = "EU"
	DefaultAuthMode         = AuthModeIDToken
	DefaultGoogleCertsURL   = "https://www.googleapis.com/oauth2/v3/certs"
	DefaultStdioPrincipal   = "anonymous"
	DefaultClientModel      = "gpt-4o"
)

const (
	// Process sizing (PORT, WEB_CONCURRENCY, WEB_THREADS, GUNICORN_TIMEOUT)
	DefaultPort              = 8080
	DefaultWebConcurrency    = 2
	DefaultWebThreads        = 4
	DefaultTimeoutSeconds    = 120
	DefaultBindHost          = "0.0.0.0"
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultReadHeaderTimeout = 10 * time.Second
)

const (
	// Query guardrails
	DefaultSelectLimit    = 100
	DefaultMaxSelectLimit = 1000

	// Request slot acquisition before answering BUSY_RESOURCE
	DefaultAcquireRequestTimeout = 2 * time.Second

	// Heartbeat on the MCP GET stream
	DefaultKeepAliveInterval = 15 * time.Second
)

// Auth modes accepted by AUTH_MODE.
const (
	AuthModeIDToken = "id_token"
	AuthModeHeader  = "header"
	AuthModeNone    = "none"
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Name:        DefaultAppName,
			LogLevel:    DefaultLogLevel,
			ClientModel: DefaultClientModel,
		},
		BigQuery: BigQuery{
			Location:       DefaultBigQueryLocation,
			MaxSelectLimit: DefaultMaxSelectLimit,
		},
		Auth: Auth{
			Mode:           DefaultAuthMode,
			GoogleCertsURL: DefaultGoogleCertsURL,
			StdioPrincipal: DefaultStdioPrincipal,
		},
		Server: Server{
			Port:            DefaultPort,
			WebConcurrency:  DefaultWebConcurrency,
			WebThreads:      DefaultWebThreads,
			TimeoutSeconds:  DefaultTimeoutSeconds,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
	}
}
