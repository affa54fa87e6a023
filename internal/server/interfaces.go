package server

import "context"

// Server is a transport that serves until ctx is done or a stop signal is
// received.
type Server interface {
	Run(ctx context.Context) error
}
