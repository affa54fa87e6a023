// Package http implements the HTTP transport of the server: health and
// readiness probes, the REST execute endpoint and the streamable MCP endpoint.
//
// Cross-cutting concerns such as panic recovery, request tracing, access
// logging, authentication and request slot limits are handled by middleware
// in this package.
package http
