package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Google ID tokens carry one of these issuers.
var googleIssuers = map[string]struct{}{
	"accounts.google.com":         {},
	"https://accounts.google.com": {},
}

// Claims are the ID token claims the server reads.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// KeySource resolves a verification key by key id.
type KeySource interface {
	Key(ctx context.Context, kid string) (any, error)
}

// GoogleVerifier verifies Google-signed OIDC ID tokens.
type GoogleVerifier struct {
	keys     KeySource
	audience string
	leeway   time.Duration
}

// NewGoogleVerifier checks the audience only when audience is non-empty.
func NewGoogleVerifier(keys KeySource, audience string) *GoogleVerifier {
	return &GoogleVerifier{keys: keys, audience: audience, leeway: 30 * time.Second}
}

// Verify checks signature, issuer, expiry and audience.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(v.leeway),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token has no kid header")
		}
		return v.keys.Key(ctx, kid)
	}, opts...)
	if err != nil {
		return nil, err
	}

	if _, ok := googleIssuers[claims.Issuer]; !ok {
		return nil, fmt.Errorf("wrong issuer: %q", claims.Issuer)
	}
	return claims, nil
}
