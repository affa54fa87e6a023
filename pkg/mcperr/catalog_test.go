package mcperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.True(t, res.IsError)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestNew_AppendsGuidance(t *testing.T) {
	text := resultText(t, New(PermissionDenied, "Dataset 'x' is not allowed"))
	assert.Equal(t, "PERMISSION_DENIED: Dataset 'x' is not allowed | nextSteps: Ask an administrator to extend the access policy", text)
}

func TestNew_DefaultMessage(t *testing.T) {
	text := resultText(t, New(BusyResource, ""))
	assert.Contains(t, text, "BUSY_RESOURCE: concurrent request limit reached")
}

func TestNew_UnknownCodeKeepsMessage(t *testing.T) {
	assert.Equal(t, "CUSTOM: odd", resultText(t, New(Code("CUSTOM"), "odd")))
	assert.Equal(t, "CUSTOM", resultText(t, New(Code("CUSTOM"), " ")))
}

func TestCodeOf(t *testing.T) {
	errDenied := errors.New("denied")
	errBad := errors.New("bad")
	codes := map[error]Code{errDenied: PermissionDenied, errBad: InvalidArgument}

	assert.Equal(t, PermissionDenied, CodeOf(fmt.Errorf("wrap: %w", errDenied), codes))
	assert.Equal(t, InvalidArgument, CodeOf(errBad, codes))
	assert.Equal(t, Timeout, CodeOf(fmt.Errorf("run: %w", context.DeadlineExceeded), codes))
	assert.Equal(t, ExecutionFailed, CodeOf(errors.New("boom"), codes))

	assert.Nil(t, FromError(nil, codes))
	assert.Contains(t, resultText(t, FromError(errBad, codes)), "INVALID_ARGUMENT: bad")
}
