// AngelaMos | 2026
// config_test.go

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Environment: "development"},
		Server:   ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second},
		Database: DatabaseConfig{URL: "postgres://localhost/yamdb"},
		Redis:    RedisConfig{URL: "redis://localhost:6379/0"},
		JWT: JWTConfig{
			PrivateKeyPath: "keys/private.pem",
			PublicKeyPath:  "keys/public.pem",
		},
		Mail: MailConfig{
			Provider:    MailProviderLog,
			FromAddress: "noreply@yamdb.local",
		},
		Confirm: ConfirmConfig{Strategy: StrategyStored, TTL: time.Hour},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.Database.URL = "" },
			wantErr: "DATABASE_URL",
		},
		{
			name:    "unknown strategy",
			mutate:  func(c *Config) { c.Confirm.Strategy = "magic" },
			wantErr: "unknown confirmation strategy",
		},
		{
			name: "derived without secret",
			mutate: func(c *Config) {
				c.Confirm.Strategy = StrategyDerived
			},
			wantErr: "CONFIRMATION_SECRET",
		},
		{
			name: "derived with secret",
			mutate: func(c *Config) {
				c.Confirm.Strategy = StrategyDerived
				c.Confirm.Secret = strings.Repeat("s", 32)
			},
		},
		{
			name:    "sendgrid without key",
			mutate:  func(c *Config) { c.Mail.Provider = MailProviderSendGrid },
			wantErr: "SENDGRID_API_KEY",
		},
		{
			name: "log mailer in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
			},
			wantErr: "not allowed in production",
		},
		{
			name: "cors wildcard with credentials",
			mutate: func(c *Config) {
				c.CORS.AllowCredentials = true
				c.CORS.AllowedOrigins = []string{"*"}
			},
			wantErr: "wildcard",
		},
		{
			name:    "zero ttl",
			mutate:  func(c *Config) { c.Confirm.TTL = 0 },
			wantErr: "confirmation.ttl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := validate(c)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvKeyReplacer(t *testing.T) {
	assert.Equal(t, "confirmation.strategy", envKeyReplacer("CONFIRMATION_STRATEGY"))
	assert.Equal(t, "mail.api_key", envKeyReplacer("SENDGRID_API_KEY"))
	assert.Equal(t, "database.url", envKeyReplacer("DATABASE_URL"))
	assert.Empty(t, envKeyReplacer("HOME"))
}

func TestServerAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	assert.Equal(t, "127.0.0.1:8080", s.Address())
}
