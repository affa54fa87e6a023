// Package server runs the transports of the application: the HTTP listener
// serving REST and streamable MCP, or MCP over stdin/stdout.
//
// Both block until the context is done or a stop signal arrives and then shut
// down gracefully.
package server
