// Package gateway implements the remote Finance Tracker API client and the
// session-token plumbing it authenticates with.
package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/finance-tracker/client/internal/application/adapter"
	domainerror "github.com/finance-tracker/client/internal/domain/error"
)

// sessionTokenKey is the protected-store key holding the bearer token.
const sessionTokenKey = "session_token"

// TokenProvider reads the bearer token from the protected store. The token
// is provisioned out of band (the agent never performs a login flow); expiry
// is checked by inspecting the JWT claims without verifying the signature,
// since the agent holds no signing secret.
type TokenProvider struct {
	store  adapter.Store
	parser *jwt.Parser
}

// NewTokenProvider creates a token provider backed by the protected store.
func NewTokenProvider(store adapter.Store) *TokenProvider {
	return &TokenProvider{
		store:  store,
		parser: jwt.NewParser(),
	}
}

// SaveToken stores a bearer token, replacing any previous one.
func (p *TokenProvider) SaveToken(ctx context.Context, token string) error {
	return p.store.Set(ctx, sessionTokenKey, []byte(token))
}

// Token returns the stored bearer token.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	raw, err := p.store.Get(ctx, sessionTokenKey)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", domainerror.NewSyncError(
			domainerror.ErrCodeNoSession,
			"no session token stored",
			domainerror.ErrNoSession,
		)
	}
	return string(raw), nil
}

// HasValidSession reports whether a stored token exists and has not expired.
// Tokens that do not parse as JWTs are treated as opaque and assumed usable;
// the server remains the authority on their validity.
func (p *TokenProvider) HasValidSession(ctx context.Context) bool {
	token, err := p.Token(ctx)
	if err != nil {
		return false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := p.parser.ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	if claims.ExpiresAt.Before(time.Now()) {
		slog.Info("Session token expired", "expiredAt", claims.ExpiresAt.Time)
		return false
	}
	return true
}
