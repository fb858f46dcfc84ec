package provider

import (
	"context"

	"github.com/tophat51/notarobloxrevival/internal/auth"
)

// OAuthProvider is an external sign-in option. Implementations return
// identity facts only and never create users or sessions.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google", "keycloak").
	Name() string

	// AuthCodeURL returns the authorization URL for the given state and
	// PKCE challenge.
	AuthCodeURL(state string, codeChallenge string) string

	ExchangeCode(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (*auth.Identity, error)
}
