// Package jwt implements stateless bearer tokens signed with HMAC-SHA256.
//
// Tokens carry the subject email, a role snapshot, and an absolute
// expiry. Nothing is stored server-side: there is no revocation, which
// is acceptable for session lengths measured in hours.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mergington/activityhub/internal/domain"
	"github.com/mergington/activityhub/internal/identity"
)

// Config contains authenticator settings.
type Config struct {
	SecretKey string
	TokenTTL  time.Duration
}

// Claims are the JWT claims embedded in access tokens.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies signed tokens. It implements
// identity.Authenticator.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
}

// NewAuthenticator creates a new JWT authenticator.
func NewAuthenticator(cfg Config) *Authenticator {
	return &Authenticator{
		secret: []byte(cfg.SecretKey),
		ttl:    cfg.TokenTTL,
	}
}

// Issue creates a signed token for the user, expiring after the
// configured TTL.
func (a *Authenticator) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its subject email and
// role snapshot. Fails with identity.ErrInvalidToken on a bad signature,
// malformed encoding, or expiry. Never consults user storage.
func (a *Authenticator) Verify(tokenString string) (string, domain.Role, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", identity.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return "", "", identity.ErrInvalidToken
	}

	return claims.Subject, claims.Role, nil
}
