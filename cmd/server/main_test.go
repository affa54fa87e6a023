package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinodismyname/mcpbigquery/config"
	"github.com/vinodismyname/mcpbigquery/internal/auth"
)

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("PROJECT_ID", "")
	t.Setenv("POLICY_JSON", "")

	var out bytes.Buffer
	err := run(context.Background(), nil, nil, &out, &out)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRun_InvalidPolicy(t *testing.T) {
	t.Setenv("PROJECT_ID", "proj")
	t.Setenv("POLICY_JSON", "/does/not/exist.json")

	var out bytes.Buffer
	err := run(context.Background(), nil, nil, &out, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POLICY_JSON must be a JSON string or path to JSON file.")
}

func TestNewAuthenticator(t *testing.T) {
	req := httptest.NewRequest("POST", "/v1/execute", nil)

	p, err := newAuthenticator(config.Auth{Mode: config.AuthModeNone}).Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, auth.Anonymous, p)

	_, err = newAuthenticator(config.Auth{Mode: config.AuthModeIDToken, GoogleCertsURL: "http://127.0.0.1:1"}).Authenticate(req)
	require.ErrorIs(t, err, auth.ErrUnauthenticated)
	assert.Equal(t, "Missing Bearer token", err.Error())
}
