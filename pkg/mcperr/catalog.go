package mcperr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Code defines a canonical MCP error code used across tools.
type Code string

const (
	// Validation & Input
	Validation      Code = "VALIDATION"
	InvalidArgument Code = "INVALID_ARGUMENT"

	// Access
	Unauthenticated  Code = "UNAUTHENTICATED"
	PermissionDenied Code = "PERMISSION_DENIED"

	// Resource & Limits
	BusyResource Code = "BUSY_RESOURCE"
	Timeout      Code = "TIMEOUT"

	// Warehouse
	ExecutionFailed Code = "EXECUTION_FAILED"
	Unavailable     Code = "UNAVAILABLE"
)

// Entry documents a code's standard message and next steps.
type Entry struct {
	Code      Code
	Message   string
	NextSteps []string
}

// catalog maps canonical codes to guidance. Messages can be overridden per error.
var catalog = map[Code]Entry{
	Validation:      {Code: Validation, Message: "invalid inputs", NextSteps: []string{"Correct the inputs per schema and retry"}},
	InvalidArgument: {Code: InvalidArgument, Message: "operation arguments rejected", NextSteps: []string{"Supply the fields required by the operation", "Add filters to UPDATE and DELETE"}},

	Unauthenticated:  {Code: Unauthenticated, Message: "caller could not be authenticated", NextSteps: []string{"Send a valid credential for the configured auth mode"}},
	PermissionDenied: {Code: PermissionDenied, Message: "operation not allowed by policy", NextSteps: []string{"Ask an administrator to extend the access policy"}},

	BusyResource: {Code: BusyResource, Message: "concurrent request limit reached", NextSteps: []string{"Retry after a short delay"}},
	Timeout:      {Code: Timeout, Message: "operation exceeded configured time limit", NextSteps: []string{"Lower the limit or narrow filters", "Increase GUNICORN_TIMEOUT"}},

	ExecutionFailed: {Code: ExecutionFailed, Message: "BigQuery operation failed", NextSteps: []string{"Check table and column names", "Retry if the failure was transient"}},
	Unavailable:     {Code: Unavailable, Message: "BigQuery is not reachable", NextSteps: []string{"Retry later"}},
}

// normalize builds a standard error string including next steps for MCP clients that
// surface only a message string. Format: "CODE: message" followed by a guidance tail.
func normalize(code Code, msg string) string {
	base := strings.TrimSpace(msg)
	e, ok := catalog[code]
	if !ok {
		if base == "" {
			return string(code)
		}
		return fmt.Sprintf("%s: %s", string(code), base)
	}
	if base == "" {
		base = e.Message
	}
	guidance := ""
	if len(e.NextSteps) > 0 {
		guidance = " | nextSteps: " + strings.Join(e.NextSteps, "; ")
	}
	return fmt.Sprintf("%s: %s%s", e.Code, base, guidance)
}

// New returns an MCP error result for a given code and optional message override.
func New(code Code, message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, message))
}

// Wrapf formats details and returns an MCP error result for the code.
func Wrapf(code Code, format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, fmt.Sprintf(format, args...)))
}

// CodeOf returns the code of the sentinel in codes that err matches.
// Context deadlines map to Timeout; anything else is ExecutionFailed.
func CodeOf(err error, codes map[error]Code) Code {
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ExecutionFailed
}

// FromError converts a service error into an MCP tool error result.
func FromError(err error, codes map[error]Code) *mcp.CallToolResult {
	if err == nil {
		return nil
	}
	return New(CodeOf(err, codes), err.Error())
}
