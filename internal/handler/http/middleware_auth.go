package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vinodismyname/mcpbigquery/internal/auth"
	"github.com/vinodismyname/mcpbigquery/internal/logger"
)

// withAuth resolves the principal and stores it in the request context.
func (h *Handler) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := h.auth.Authenticate(r)
		if err != nil {
			logger.FromRequest(r).Info().Err(err).Msg("authentication failed")
			WriteError(w, r, err)
			return
		}

		l := logger.FromRequest(r).With().Logger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("principal", principal)
		})
		ctx := auth.WithPrincipal(l.WithContext(r.Context()), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
