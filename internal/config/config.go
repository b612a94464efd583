package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultTokenTTL = 30 * time.Minute

// JWT holds the token signing configuration shared by issuer and validator.
// The secret comes from deployment configuration and must never be logged.
type JWT struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Config is the immutable application configuration, built once at startup
// and injected into the components that need it.
type Config struct {
	Port     string
	DBPath   string
	LogLevel string
	WebDir   string
	JWT      JWT
}

// Load reads configs/config.yml (overridable via LIBCAT_* environment
// variables) and returns a validated Config.
func Load() (*Config, error) {
	v := viper.New()
	v.AddConfigPath("configs")
	v.SetConfigName("config")
	v.SetEnvPrefix("libcat")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "library.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("web.dir", "web")
	v.SetDefault("jwt.ttl", defaultTokenTTL)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing file is fine as long as the environment supplies the secret.
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Port:     v.GetString("port"),
		DBPath:   v.GetString("db.path"),
		LogLevel: v.GetString("log.level"),
		WebDir:   v.GetString("web.dir"),
		JWT: JWT{
			Secret:   v.GetString("jwt.secret"),
			Issuer:   v.GetString("jwt.issuer"),
			Audience: v.GetString("jwt.audience"),
			TTL:      v.GetDuration("jwt.ttl"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required (config file or LIBCAT_JWT_SECRET)")
	}
	if c.JWT.Issuer == "" || c.JWT.Audience == "" {
		return errors.New("jwt.issuer and jwt.audience are required")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("jwt.ttl must be positive")
	}
	return nil
}
