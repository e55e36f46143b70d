package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/activityhub/internal/domain"
	"github.com/mergington/activityhub/internal/identity"
)

func testUser() *domain.User {
	return &domain.User{
		Email: "student@mergington.edu",
		Role:  domain.RoleStudent,
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	auth := NewAuthenticator(Config{SecretKey: "test-secret", TokenTTL: time.Hour})

	token, err := auth.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	email, role, err := auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "student@mergington.edu", email)
	assert.Equal(t, domain.RoleStudent, role)
}

func TestVerify_ExpiredToken(t *testing.T) {
	auth := NewAuthenticator(Config{SecretKey: "test-secret", TokenTTL: -time.Minute})

	token, err := auth.Issue(testUser())
	require.NoError(t, err)

	_, _, err = auth.Verify(token)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestVerify_ZeroTTL(t *testing.T) {
	// A ttl of zero produces a token already at its expiry instant.
	auth := NewAuthenticator(Config{SecretKey: "test-secret", TokenTTL: 0})

	token, err := auth.Issue(testUser())
	require.NoError(t, err)

	_, _, err = auth.Verify(token)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestVerify_WrongKey(t *testing.T) {
	issuer := NewAuthenticator(Config{SecretKey: "key-one", TokenTTL: time.Hour})
	verifier := NewAuthenticator(Config{SecretKey: "key-two", TokenTTL: time.Hour})

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, _, err = verifier.Verify(token)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestVerify_TamperedSignature(t *testing.T) {
	auth := NewAuthenticator(Config{SecretKey: "test-secret", TokenTTL: time.Hour})

	token, err := auth.Issue(testUser())
	require.NoError(t, err)

	// Flip one character in the signature segment.
	i := strings.LastIndex(token, ".") + 1
	sig := []byte(token[i:])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := token[:i] + string(sig)

	_, _, err = auth.Verify(tampered)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestVerify_TamperedClaims(t *testing.T) {
	auth := NewAuthenticator(Config{SecretKey: "test-secret", TokenTTL: time.Hour})

	token, err := auth.Issue(testUser())
	require.NoError(t, err)

	// Swap in the claims segment from a token signed with another key.
	other := NewAuthenticator(Config{SecretKey: "other-key", TokenTTL: time.Hour})
	otherToken, err := other.Issue(&domain.User{Email: "admin@mergington.edu", Role: domain.RoleAdmin})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	otherParts := strings.Split(otherToken, ".")
	require.Len(t, parts, 3)
	forged := parts[0] + "." + otherParts[1] + "." + parts[2]

	_, _, err = auth.Verify(forged)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	auth := NewAuthenticator(Config{SecretKey: "test-secret", TokenTTL: time.Hour})

	for _, tok := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		_, _, err := auth.Verify(tok)
		assert.ErrorIs(t, err, identity.ErrInvalidToken, "token %q", tok)
	}
}
