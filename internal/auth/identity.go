package auth

// Identity represents a normalized external authentication identity
// returned by an OAuth provider. It contains facts only, no decisions.
type Identity struct {
	Provider          string // e.g. "google", "keycloak"
	ProviderUserID    string // provider-scoped unique user identifier (sub)
	Email             string
	EmailVerified     bool
	PreferredUsername string // may be empty
}
