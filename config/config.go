package config

import (
	"net"
	"strconv"
	"time"
)

// StructuredConfig is the top-level configuration of the server. It is
// populated by merging an optional JSON file, environment variables and
// command-line flags, then filled with defaults and validated.
//
// Environment variable names are flat (no prefixes) to stay compatible with
// the container contract: PORT, WEB_CONCURRENCY, WEB_THREADS, GUNICORN_TIMEOUT.
type StructuredConfig struct {
	App      App
	BigQuery BigQuery
	Auth     Auth
	Policy   Policy
	Server   Server

	// JSONFilePath is the optional path to a JSON configuration file.
	// Env: CONFIG, flag: -config
	JSONFilePath string `env:"CONFIG"`
}

// App holds service identity and logging settings.
type App struct {
	// Env: APP_NAME
	Name string `env:"APP_NAME"`
	// Env: LOG_LEVEL (DEBUG, INFO, WARNING, ERROR, CRITICAL)
	LogLevel string `env:"LOG_LEVEL" validate:"omitempty,loglevel"`
	// Env: CLIENT_MODEL; model whose context window is reported at startup.
	ClientModel string `env:"CLIENT_MODEL"`
}

// BigQuery holds the warehouse target and query guardrails.
type BigQuery struct {
	// Env: PROJECT_ID
	ProjectID string `env:"PROJECT_ID" validate:"required"`
	// Env: BIGQUERY_LOCATION
	Location string `env:"BIGQUERY_LOCATION"`
	// Env: MAX_SELECT_LIMIT
	MaxSelectLimit int `env:"MAX_SELECT_LIMIT" validate:"gte=1"`
	// Env: ALLOW_FULL_TABLE_DELETE
	AllowFullTableDelete bool `env:"ALLOW_FULL_TABLE_DELETE"`
}

// Auth selects how request principals are resolved.
type Auth struct {
	// Env: AUTH_MODE (id_token, header, none)
	Mode string `env:"AUTH_MODE" validate:"oneof=id_token header none"`
	// Env: MCP_AUDIENCE; when empty the token audience is not checked.
	Audience string `env:"MCP_AUDIENCE"`
	// Env: GOOGLE_CERTS_URL
	GoogleCertsURL string `env:"GOOGLE_CERTS_URL" validate:"url"`
	// Env: STDIO_PRINCIPAL; principal used for the stdio transport.
	StdioPrincipal string `env:"STDIO_PRINCIPAL"`
}

// Policy holds the raw access policy: inline JSON or a path to a JSON file.
type Policy struct {
	// Env: POLICY_JSON
	JSON string `env:"POLICY_JSON" validate:"required"`
}

// Server holds listener and process sizing settings.
type Server struct {
	// Env: PORT
	Port int `env:"PORT" validate:"gte=1,lte=65535"`
	// Env: WEB_CONCURRENCY
	WebConcurrency int `env:"WEB_CONCURRENCY" validate:"gte=1"`
	// Env: WEB_THREADS
	WebThreads int `env:"WEB_THREADS" validate:"gte=1"`
	// Env: GUNICORN_TIMEOUT, in seconds
	TimeoutSeconds int `env:"GUNICORN_TIMEOUT" validate:"gte=1"`
	// Env: SHUTDOWN_TIMEOUT (e.g. "10s")
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
	// Env: MCP_STDIO; serve MCP over stdin/stdout instead of HTTP.
	Stdio bool `env:"MCP_STDIO"`
}

// Address returns the listen address 0.0.0.0:PORT.
func (s Server) Address() string {
	return net.JoinHostPort(DefaultBindHost, strconv.Itoa(s.Port))
}

// RequestTimeout converts GUNICORN_TIMEOUT into a duration.
func (s Server) RequestTimeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// MaxConcurrentRequests is the request slot pool size: workers times threads.
func (s Server) MaxConcurrentRequests() int {
	return s.WebConcurrency * s.WebThreads
}

// GetStructuredConfig loads, merges and validates the configuration from the
// JSON file, the process environment and the given command-line arguments.
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
