package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// jsonConfig is the on-disk layout of the optional config file. Keys match
// the environment variable names in lower case.
type jsonConfig struct {
	AppName     string `json:"app_name"`
	LogLevel    string `json:"log_level"`
	ClientModel string `json:"client_model"`

	ProjectID            string `json:"project_id"`
	BigQueryLocation     string `json:"bigquery_location"`
	MaxSelectLimit       int    `json:"max_select_limit"`
	AllowFullTableDelete bool   `json:"allow_full_table_delete"`

	AuthMode       string `json:"auth_mode"`
	MCPAudience    string `json:"mcp_audience"`
	GoogleCertsURL string `json:"google_certs_url"`
	StdioPrincipal string `json:"stdio_principal"`

	// Policy may be embedded as an object or given as a string (inline JSON or path).
	Policy json.RawMessage `json:"policy_json"`

	Port            int      `json:"port"`
	WebConcurrency  int      `json:"web_concurrency"`
	WebThreads      int      `json:"web_threads"`
	Timeout         int      `json:"gunicorn_timeout"`
	ShutdownTimeout Duration `json:"shutdown_timeout"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jc jsonConfig
	if err := json.NewDecoder(jsonFile).Decode(&jc); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	policy, err := policySource(jc.Policy)
	if err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			Name:        jc.AppName,
			LogLevel:    jc.LogLevel,
			ClientModel: jc.ClientModel,
		},
		BigQuery: BigQuery{
			ProjectID:            jc.ProjectID,
			Location:             jc.BigQueryLocation,
			MaxSelectLimit:       jc.MaxSelectLimit,
			AllowFullTableDelete: jc.AllowFullTableDelete,
		},
		Auth: Auth{
			Mode:           jc.AuthMode,
			Audience:       jc.MCPAudience,
			GoogleCertsURL: jc.GoogleCertsURL,
			StdioPrincipal: jc.StdioPrincipal,
		},
		Policy: Policy{
			JSON: policy,
		},
		Server: Server{
			Port:            jc.Port,
			WebConcurrency:  jc.WebConcurrency,
			WebThreads:      jc.WebThreads,
			TimeoutSeconds:  jc.Timeout,
			ShutdownTimeout: time.Duration(jc.ShutdownTimeout),
		},
	}, nil
}

// policySource accepts either a JSON string or an embedded JSON object.
func policySource(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("error decoding policy_json: %w", err)
	}
	return string(raw), nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as from nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
