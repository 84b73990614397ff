// Package config loads application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envFile = ".env"

// DefaultTokenTTL is the access token lifetime used when AUTH_TOKEN_TTL
// is not set.
const DefaultTokenTTL = 30 * time.Minute

// New loads configuration from the environment using viper with typed
// defaults and validation. A .env file, if present, seeds variables that
// are not already set.
func New() (*Config, error) {
	v := viper.New()

	if envMap, err := godotenv.Read(envFile); err == nil {
		for key, value := range envMap {
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, value)
			}
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "sigo")
	v.SetDefault("database.ssl_mode", "disable")

	v.SetDefault("auth.token_ttl", DefaultTokenTTL)
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"server.host",
		"server.port",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.name",
		"database.ssl_mode",
		"auth.jwt_secret",
		"auth.token_ttl",
		"powerbi.tenant_id",
		"powerbi.client_id",
		"powerbi.client_secret",
		"powerbi.base_url",
	}

	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}
