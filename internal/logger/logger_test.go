package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ServiceFieldAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "mcp-bigquery-server", "WARNING")

	l.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	l.Warn().Msg("kept")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "mcp-bigquery-server", entry["service"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "kept", entry["message"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"DEBUG":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"WARNING":  zerolog.WarnLevel,
		"warn":     zerolog.WarnLevel,
		"ERROR":    zerolog.ErrorLevel,
		"CRITICAL": zerolog.FatalLevel,
		"":         zerolog.InfoLevel,
		"verbose":  zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "svc", "DEBUG").With().Str("trace_id", "abc").Logger()
	ctx := l.WithContext(context.Background())

	FromContext(ctx).Info().Msg("hello")
	assert.Contains(t, buf.String(), `"trace_id":"abc"`)

	buf.Reset()
	r := httptest.NewRequest("GET", "/", nil).WithContext(ctx)
	FromRequest(r).Info().Msg("again")
	assert.Contains(t, buf.String(), `"trace_id":"abc"`)
}

func TestFromContext_Empty(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))
}
