package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tophat51/notarobloxrevival/internal/logger"
)

type Config struct {
	AppPort string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// RedisGraph key holding the friends graph.
	FriendsGraph string

	EconomyURL string

	SessionExpiresIn     time.Duration
	SessionSweepInterval time.Duration
	CookieSecure         bool

	OIDCProviders []OIDCProvider

	Logger logger.Config
}

// OIDCProvider configures one OAuth sign-in option, e.g. google or keycloak.
type OIDCProvider struct {
	Name         string `mapstructure:"name"`
	Issuer       string `mapstructure:"issuer"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
	// AuthURL overrides the discovered authorization endpoint. Keycloak
	// behind a proxy advertises an internal host otherwise.
	AuthURL string `mapstructure:"auth_url"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.dsn", "postgres://localhost:5432/mercury?sslmode=disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("graph.friends", "friends")

	v.SetDefault("economy.url", "http://localhost:2009")

	v.SetDefault("session.expires_in", "720h")
	v.SetDefault("session.sweep_interval", "1h")
	v.SetDefault("session.cookie_secure", true)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/server.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
}

// Load reads CONFIG_FILE (default config.toml) when present and lets
// environment variables override any key: app.port -> APP_PORT,
// database.dsn -> DATABASE_DSN and so on.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.toml"
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := Config{
		AppPort: v.GetString("app.port"),

		DatabaseDSN: v.GetString("database.dsn"),

		RedisAddr:     v.GetString("redis.addr"),
		RedisPassword: v.GetString("redis.password"),
		RedisDB:       v.GetInt("redis.db"),

		FriendsGraph: v.GetString("graph.friends"),

		EconomyURL: v.GetString("economy.url"),

		SessionExpiresIn:     v.GetDuration("session.expires_in"),
		SessionSweepInterval: v.GetDuration("session.sweep_interval"),
		CookieSecure:         v.GetBool("session.cookie_secure"),

		Logger: logger.Config{
			Level:      v.GetString("logger.level"),
			Format:     v.GetString("logger.format"),
			Output:     v.GetString("logger.output"),
			FilePath:   v.GetString("logger.file_path"),
			MaxSizeMB:  v.GetInt("logger.max_size"),
			MaxBackups: v.GetInt("logger.max_backups"),
			MaxAgeDays: v.GetInt("logger.max_age"),
			Compress:   v.GetBool("logger.compress"),
		},
	}

	if err := v.UnmarshalKey("oidc", &cfg.OIDCProviders); err != nil {
		return Config{}, fmt.Errorf("failed to parse oidc providers: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("config: app.port is required")
	}
	if c.DatabaseDSN == "" {
		return errors.New("config: database.dsn is required")
	}
	if c.SessionExpiresIn <= 0 {
		return fmt.Errorf("config: invalid session.expires_in %s", c.SessionExpiresIn)
	}
	for _, p := range c.OIDCProviders {
		if p.Name == "" || p.Issuer == "" || p.ClientID == "" || p.RedirectURL == "" {
			return fmt.Errorf("config: oidc provider %q missing required fields", p.Name)
		}
	}
	return nil
}
