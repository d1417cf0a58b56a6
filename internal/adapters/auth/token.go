// Package auth issues and checks the run tokens that gate an export.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"wpkirby/internal/application"
	"wpkirby/internal/ports"
)

// Scope is the only action a run token grants
const Scope = "run_kirby_exporter"

// Claims are the JWT claims of a run token
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenAuthorizer implements ports.Authorizer with HS256-signed tokens
// bound to one site URL.
type TokenAuthorizer struct {
	secret  []byte
	siteURL string
	now     func() time.Time
}

// Ensure TokenAuthorizer implements Authorizer
var _ ports.Authorizer = (*TokenAuthorizer)(nil)

// NewTokenAuthorizer creates an authorizer for tokens issued to siteURL
func NewTokenAuthorizer(secret, siteURL string) *TokenAuthorizer {
	return &TokenAuthorizer{
		secret:  []byte(secret),
		siteURL: siteURL,
		now:     time.Now,
	}
}

// Issue mints a token valid for ttl
func (a *TokenAuthorizer) Issue(ttl time.Duration) (string, error) {
	if len(a.secret) == 0 {
		return "", fmt.Errorf("no signing secret configured")
	}

	now := a.now()
	claims := &Claims{
		Scope: Scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Audience:  jwt.ClaimStrings{a.siteURL},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Authorize validates signature, expiry, audience and scope of a token
func (a *TokenAuthorizer) Authorize(credential string) error {
	if credential == "" {
		return &application.AuthorizationError{Reason: "missing run token"}
	}
	if len(a.secret) == 0 {
		return &application.AuthorizationError{Reason: "no signing secret configured"}
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	},
		jwt.WithAudience(a.siteURL),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return &application.AuthorizationError{Reason: "run token expired", Cause: err}
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return &application.AuthorizationError{Reason: "invalid token signature", Cause: err}
		case errors.Is(err, jwt.ErrTokenInvalidAudience):
			return &application.AuthorizationError{Reason: "token issued for another site", Cause: err}
		case errors.Is(err, jwt.ErrTokenMalformed):
			return &application.AuthorizationError{Reason: "malformed run token", Cause: err}
		default:
			return &application.AuthorizationError{Reason: "invalid run token", Cause: err}
		}
	}

	if !token.Valid {
		return &application.AuthorizationError{Reason: "invalid run token"}
	}
	if claims.Scope != Scope {
		return &application.AuthorizationError{Reason: fmt.Sprintf("token scope %q does not allow exporting", claims.Scope)}
	}

	return nil
}
