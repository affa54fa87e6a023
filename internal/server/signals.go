package server

import (
	"context"
	"os/signal"
	"syscall"
)

func notifyContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
}
