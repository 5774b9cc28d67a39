package firebase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevVerifier(t *testing.T) {
	ctx := context.Background()
	var v DevVerifier

	tok, err := v.VerifyToken(ctx, DevToken("host-1", "host@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "host-1", tok.UID)
	assert.Equal(t, "host@example.com", tok.Email)
	assert.True(t, tok.EmailVerified)

	tok, err = v.VerifyToken(ctx, DevToken("guest", ""))
	require.NoError(t, err)
	assert.Empty(t, tok.Email)

	_, err = v.VerifyToken(ctx, "eyJhbGciOi...")
	assert.ErrorIs(t, err, ErrInvalidDevToken)
	_, err = v.VerifyToken(ctx, "dev:")
	assert.ErrorIs(t, err, ErrInvalidDevToken)
}

func TestTokenFromClaims(t *testing.T) {
	tok := tokenFromClaims("u1", map[string]interface{}{"email": "a@b.co", "email_verified": true})
	assert.Equal(t, &Token{UID: "u1", Email: "a@b.co", EmailVerified: true}, tok)

	assert.Equal(t, &Token{UID: "u2"}, tokenFromClaims("u2", nil))
}

func TestClientOptions(t *testing.T) {
	assert.Len(t, ClientOptions(`{"type":"service_account"}`, "ignored.json"), 1)
	assert.Len(t, ClientOptions("", "key.json"), 1)
	assert.Empty(t, ClientOptions("", ""))
}
