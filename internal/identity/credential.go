// Package identity holds the session credential used to authenticate
// outbound service calls.
package identity

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenHeader = "token"

// Credential stores the current session token. The breakout join
// replaces it with the freshly issued sub-session token, so later
// calls authenticate against the active room.
type Credential struct {
	log *slog.Logger

	mu    sync.RWMutex
	token string
}

// NewCredential creates an empty credential. Requests go out without a
// token header until SetToken is called.
func NewCredential(log *slog.Logger) *Credential {
	return &Credential{log: log.With("component", "credential")}
}

// SetToken replaces the current token.
func (c *Credential) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	if exp, ok := tokenExpiry(token); ok {
		c.log.Info("session token installed", "expiresAt", exp.Format(time.RFC3339))
	} else {
		c.log.Info("session token installed")
	}
}

// Token returns the current token, or "" when none is set.
func (c *Credential) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Transport returns an http.RoundTripper that injects the current
// token into every request. next may be nil for the default transport.
func (c *Credential) Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &authTransport{credential: c, next: next}
}

type authTransport struct {
	credential *Credential
	next       http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.credential.Token()
	if token == "" {
		return t.next.RoundTrip(req)
	}
	// Per-request clone; RoundTrippers must not mutate the original.
	clone := req.Clone(req.Context())
	clone.Header.Set(tokenHeader, token)
	return t.next.RoundTrip(clone)
}

// tokenExpiry reads the expiry claim without verifying the signature.
// The token is service-issued and only introspected for logging.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
