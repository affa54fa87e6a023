// Package auth resolves the calling principal of a request according to
// AUTH_MODE.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vinodismyname/mcpbigquery/config"
)

// ErrUnauthenticated is wrapped by every authentication failure.
var ErrUnauthenticated = errors.New("unauthenticated")

// Anonymous is the principal used when AUTH_MODE=none.
const Anonymous = "anonymous"

// HeaderPrincipal carries the caller identity when AUTH_MODE=header.
const HeaderPrincipal = "X-Principal"

// Error is an authentication failure whose message is returned to callers.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return ErrUnauthenticated }

func unauthenticated(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// TokenVerifier verifies a bearer ID token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// Authenticator resolves principals from HTTP requests.
type Authenticator struct {
	mode     string
	verifier TokenVerifier
}

// New returns an Authenticator for mode. verifier is only consulted in
// id_token mode and must be non-nil there.
func New(mode string, verifier TokenVerifier) *Authenticator {
	return &Authenticator{mode: mode, verifier: verifier}
}

// Authenticate returns the lower-cased principal of r.
func (a *Authenticator) Authenticate(r *http.Request) (string, error) {
	switch a.mode {
	case config.AuthModeNone:
		return Anonymous, nil

	case config.AuthModeHeader:
		p := strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderPrincipal)))
		if p == "" {
			return "", unauthenticated("Missing X-Principal header")
		}
		return p, nil
	}

	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return "", unauthenticated("Missing Bearer token")
	}
	if a.verifier == nil {
		return "", unauthenticated("Invalid ID token: no verifier configured")
	}

	claims, err := a.verifier.Verify(r.Context(), token)
	if err != nil {
		return "", unauthenticated("Invalid ID token: %v", err)
	}

	principal := claims.Email
	if principal == "" {
		principal = claims.Subject
	}
	principal = strings.ToLower(strings.TrimSpace(principal))
	if principal == "" {
		return "", unauthenticated("No principal in token")
	}
	return principal, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

type principalKey struct{}

// WithPrincipal stores the authenticated principal in ctx.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	p, ok := ctx.Value(principalKey{}).(string)
	return p, ok && p != ""
}
