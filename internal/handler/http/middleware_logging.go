package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vinodismyname/mcpbigquery/internal/logger"
)

// withLogging logs one line per request. The wrapped writer keeps
// http.Flusher so MCP event streams still flush.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()
		uri := r.RequestURI
		method := r.Method

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Info().
			Str("uri", uri).
			Str("method", method).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Int("size", ww.BytesWritten()).
			Send()
	})
}
