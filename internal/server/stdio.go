package server

import (
	"context"
	"errors"
	"io"
	"log"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/vinodismyname/mcpbigquery/internal/auth"
)

type stdioServer struct {
	server *mcpserver.StdioServer
	in     io.Reader
	out    io.Writer

	logger zerolog.Logger
}

// NewStdio returns a Server speaking MCP over in and out. Every call runs as
// principal.
func NewStdio(srv *mcpserver.MCPServer, principal string, in io.Reader, out io.Writer, logger zerolog.Logger) Server {
	s := mcpserver.NewStdioServer(srv)
	s.SetErrorLogger(log.New(logger.With().Str("transport", "stdio").Logger(), "", 0))
	s.SetContextFunc(func(ctx context.Context) context.Context {
		return auth.WithPrincipal(logger.WithContext(ctx), principal)
	})

	return &stdioServer{server: s, in: in, out: out, logger: logger}
}

func (s *stdioServer) Run(ctx context.Context) error {
	ctx, stop := notifyContext(ctx)
	defer stop()

	s.logger.Info().Msg("serving MCP over stdio")
	err := s.server.Listen(ctx, s.in, s.out)
	if err == nil || errors.Is(err, context.Canceled) {
		s.logger.Info().Msg("stdio transport closed")
		return nil
	}
	return err
}
