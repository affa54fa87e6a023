package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinodismyname/mcpbigquery/config"
	"github.com/vinodismyname/mcpbigquery/internal/auth"
)

func TestHTTP_StopsOnContextCancel(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := NewHTTP(handler, config.Server{Port: 0, ShutdownTimeout: time.Second}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHTTP_ClosesOpenStreamsAfterTimeout(t *testing.T) {
	started := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		close(started)
		<-r.Context().Done()
	})
	hs := NewHTTP(handler, config.Server{Port: 0, ShutdownTimeout: 50 * time.Millisecond}, zerolog.Nop()).(*httpServer)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hs.Run(ctx) }()
	<-hs.ready

	go func() {
		resp, err := http.Get("http://127.0.0.1:" + strconv.Itoa(hs.addr.(*net.TCPAddr).Port) + "/mcp")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
	}()
	<-started

	cancel()
	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Error(t, hs.streams.Err())
}

func TestStdio_UsesPrincipal(t *testing.T) {
	var seen string
	srv := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(true))
	srv.AddTool(mcp.NewTool("whoami"), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		seen, _ = auth.PrincipalFromContext(ctx)
		return mcp.NewToolResultText(seen), nil
	})

	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"whoami"}}` + "\n")
	pr, pw := io.Pipe()
	s := NewStdio(srv, "robot@example.com", in, pw, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	line, err := bufio.NewReader(pr).ReadString('\n')
	require.NoError(t, err)

	var resp struct {
		Result mcp.CallToolResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(line), &resp))
	assert.Equal(t, "robot@example.com", seen)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stdio server did not stop")
	}
}
