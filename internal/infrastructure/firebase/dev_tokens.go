package firebase

import (
	"context"
	"errors"
	"strings"
)

const devTokenPrefix = "dev:"

var ErrInvalidDevToken = errors.New("invalid development token")

// DevVerifier accepts "dev:<uid>[:<email>]" bearer tokens. It backs local runs
// without a Firebase project and is refused in production.
type DevVerifier struct{}

func (DevVerifier) VerifyToken(ctx context.Context, token string) (*Token, error) {
	if !strings.HasPrefix(token, devTokenPrefix) {
		return nil, ErrInvalidDevToken
	}
	parts := strings.SplitN(strings.TrimPrefix(token, devTokenPrefix), ":", 2)
	if parts[0] == "" {
		return nil, ErrInvalidDevToken
	}
	t := &Token{UID: parts[0]}
	if len(parts) == 2 {
		t.Email = parts[1]
		t.EmailVerified = true
	}
	return t, nil
}

func DevToken(uid, email string) string {
	if email == "" {
		return devTokenPrefix + uid
	}
	return devTokenPrefix + uid + ":" + email
}
