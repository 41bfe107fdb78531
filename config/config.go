package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds all configuration for the server. Values come from a
// config file, environment variables, or defaults, in that order of
// precedence.
type ServerConfig struct {
	HTTPPort string `mapstructure:"HTTP_PORT"`

	MongoURI    string `mapstructure:"MONGO_URI"`
	MongoDBName string `mapstructure:"MONGO_DB_NAME"`

	// RedisAddr enables the Redis login-state store. Empty means the
	// in-memory store, which is fine for a single instance.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`

	// JWTSecret signs session tokens. There is no usable default; the
	// server refuses to start without one.
	JWTSecret string `mapstructure:"JWT_SECRET"`

	GithubClientID     string `mapstructure:"GITHUB_CLIENT_ID"`
	GithubClientSecret string `mapstructure:"GITHUB_CLIENT_SECRET"`

	PostLoginRedirect    string `mapstructure:"POST_LOGIN_REDIRECT"`
	LoginFailureRedirect string `mapstructure:"LOGIN_FAILURE_REDIRECT"`
}

// LoadConfig reads configuration from file, environment variables, and
// defaults.
func LoadConfig() (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/tenauth/")
	v.AddConfigPath("$HOME/.tenauth")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/tenauth")
	v.SetDefault("MONGO_DB_NAME", "tenauth")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("POST_LOGIN_REDIRECT", "/")
	v.SetDefault("LOGIN_FAILURE_REDIRECT", "/login")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; env vars and defaults apply.
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot run safely with.
func (c *ServerConfig) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.GithubClientID == "" || c.GithubClientSecret == "" {
		return errors.New("GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET must be set")
	}
	return nil
}
