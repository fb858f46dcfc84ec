package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionExpiresIn)
	assert.Equal(t, time.Hour, cfg.SessionSweepInterval)
	assert.Equal(t, "friends", cfg.FriendsGraph)
	assert.True(t, cfg.CookieSecure)
	assert.Empty(t, cfg.OIDCProviders)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[app]
port = "9000"

[session]
expires_in = "48h"

[[oidc]]
name = "keycloak"
issuer = "https://sso.example.com/realms/site"
client_id = "site"
redirect_url = "https://example.com/oauth/callback/keycloak"
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.AppPort)
	assert.Equal(t, 48*time.Hour, cfg.SessionExpiresIn)
	require.Len(t, cfg.OIDCProviders, 1)
	assert.Equal(t, "keycloak", cfg.OIDCProviders[0].Name)
	assert.Equal(t, "site", cfg.OIDCProviders[0].ClientID)
}

func TestValidate(t *testing.T) {
	cfg := Config{AppPort: "8080", DatabaseDSN: "postgres://", SessionExpiresIn: time.Hour}
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.SessionExpiresIn = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.OIDCProviders = []OIDCProvider{{Name: "google"}}
	assert.Error(t, bad.Validate())
}
