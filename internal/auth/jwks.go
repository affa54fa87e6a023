package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// minRefreshInterval bounds how often an unknown kid can trigger a refetch.
const minRefreshInterval = 30 * time.Second

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

// KeySet fetches and caches the RSA keys published at a JWKS URL. Keys are
// kept for the max-age the endpoint advertises.
type KeySet struct {
	client *resty.Client
	url    string
	now    func() time.Time

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	expires   time.Time
	fetchedAt time.Time
}

// NewKeySet returns a KeySet reading url with client.
func NewKeySet(client *resty.Client, url string) *KeySet {
	if client == nil {
		client = resty.New().SetTimeout(10 * time.Second)
	}
	return &KeySet{client: client, url: url, now: time.Now}
}

// Key returns the public key with id kid, refreshing the cache when it has
// expired or does not know kid.
func (s *KeySet) Key(ctx context.Context, kid string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	key, ok := s.keys[kid]
	stale := now.After(s.expires)
	if ok && !stale {
		return key, nil
	}
	if !stale && now.Sub(s.fetchedAt) < minRefreshInterval {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}

	if err := s.refresh(ctx, now); err != nil {
		return nil, err
	}
	if key, ok = s.keys[kid]; !ok {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return key, nil
}

func (s *KeySet) refresh(ctx context.Context, now time.Time) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(s.url)
	if err != nil {
		return fmt.Errorf("fetch certs: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("fetch certs: unexpected status %d", resp.StatusCode())
	}

	var set jwkSet
	if err := json.Unmarshal(resp.Body(), &set); err != nil {
		return fmt.Errorf("decode certs: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		pub, err := rsaKey(k)
		if err != nil {
			return fmt.Errorf("decode key %s: %w", k.Kid, err)
		}
		keys[k.Kid] = pub
	}

	s.keys = keys
	s.fetchedAt = now
	s.expires = now.Add(maxAge(resp.Header().Get("Cache-Control")))
	return nil
}

func rsaKey(k jwk) (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}
	if len(n) == 0 || len(e) == 0 {
		return nil, errors.New("empty modulus or exponent")
	}
	exp := new(big.Int).SetBytes(e)
	if !exp.IsInt64() || exp.Int64() > int64(^uint32(0)>>1) {
		return nil, errors.New("exponent out of range")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: int(exp.Int64())}, nil
}

// maxAge reads max-age from a Cache-Control header; zero when absent.
func maxAge(header string) time.Duration {
	for _, part := range strings.Split(header, ",") {
		name, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || !strings.EqualFold(name, "max-age") {
			continue
		}
		secs, err := strconv.Atoi(strings.Trim(val, `"`))
		if err != nil || secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	return 0
}
