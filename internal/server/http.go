package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vinodismyname/mcpbigquery/config"
)

type httpServer struct {
	server          *http.Server
	shutdownTimeout time.Duration

	// streams is the base context of every request. It is cancelled when
	// graceful shutdown runs out of time so open MCP event streams end.
	streams      context.Context
	closeStreams context.CancelFunc

	// ready is closed once addr is bound.
	ready chan struct{}
	addr  net.Addr

	logger zerolog.Logger
}

// NewHTTP returns a Server listening on cfg.Address().
func NewHTTP(handler http.Handler, cfg config.Server, logger zerolog.Logger) Server {
	streams, closeStreams := context.WithCancel(context.Background())
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = config.DefaultShutdownTimeout
	}

	return &httpServer{
		server: &http.Server{
			Addr:              cfg.Address(),
			Handler:           handler,
			ReadHeaderTimeout: config.DefaultReadHeaderTimeout,
			BaseContext:       func(net.Listener) context.Context { return streams },
		},
		shutdownTimeout: shutdownTimeout,
		streams:         streams,
		closeStreams:    closeStreams,
		ready:           make(chan struct{}),
		logger:          logger,
	}
}

func (h *httpServer) Run(ctx context.Context) error {
	ctx, stop := notifyContext(ctx)
	defer stop()

	ln, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		return err
	}
	h.addr = ln.Addr()
	close(h.ready)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h.logger.Info().Str("addr", ln.Addr().String()).Msg("launching HTTP server")
		if err := h.server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return h.shutdown()
	})

	if err := g.Wait(); err != nil {
		return err
	}
	h.logger.Info().Msg("HTTP server shut down gracefully")
	return nil
}

func (h *httpServer) shutdown() error {
	h.logger.Info().Dur("timeout", h.shutdownTimeout).Msg("shutting down HTTP server")
	defer h.closeStreams()

	ctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()

	err := h.server.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		h.logger.Warn().Msg("shutdown timed out; closing remaining connections")
		h.closeStreams()
		return h.server.Close()
	}
	return err
}
