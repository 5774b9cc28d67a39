package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

// Token is the verified identity carried by a Firebase ID token.
type Token struct {
	UID           string
	Email         string
	EmailVerified bool
}

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, idToken string) (*Token, error) {
	result, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return tokenFromClaims(result.UID, result.Claims), nil
}

func tokenFromClaims(uid string, claims map[string]interface{}) *Token {
	t := &Token{UID: uid}
	if email, ok := claims["email"].(string); ok {
		t.Email = email
	}
	if verified, ok := claims["email_verified"].(bool); ok {
		t.EmailVerified = verified
	}
	return t
}
