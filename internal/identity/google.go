package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

// GoogleProfile is the subset of a verified Google ID token used to sign a shopper in.
type GoogleProfile struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// GoogleVerifier validates Google ID tokens minted for this storefront.
type GoogleVerifier interface {
	Verify(ctx context.Context, rawToken string) (*GoogleProfile, error)
}

type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

type idTokenVerifier struct {
	audience string
	validate validateFunc
}

// NewGoogleVerifier returns a verifier that checks tokens against the OAuth client id.
func NewGoogleVerifier(clientID string) (GoogleVerifier, error) {
	audience := strings.TrimSpace(clientID)
	if audience == "" {
		return nil, errors.New("google oauth client id is required")
	}
	return &idTokenVerifier{audience: audience, validate: idtoken.Validate}, nil
}

func (v *idTokenVerifier) Verify(ctx context.Context, rawToken string) (*GoogleProfile, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, errors.New("id token is required")
	}
	payload, err := v.validate(ctx, rawToken, v.audience)
	if err != nil {
		return nil, fmt.Errorf("validate google id token: %w", err)
	}

	profile := &GoogleProfile{
		Subject: payload.Subject,
		Email:   claimString(payload.Claims, "email"),
		Name:    claimString(payload.Claims, "name"),
		Picture: claimString(payload.Claims, "picture"),
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		profile.EmailVerified = verified
	}
	if profile.Email == "" {
		return nil, errors.New("google id token carries no email")
	}
	return profile, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
