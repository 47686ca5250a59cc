package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		expectError bool
	}{
		{
			name: "development defaults pass",
			cfg: Config{
				Env:        "development",
				Port:       "8460",
				JWTSecret:  "your-secret-key-change-in-production",
				DBPassword: "password",
			},
			expectError: false,
		},
		{
			name: "missing port",
			cfg: Config{
				Env:       "development",
				JWTSecret: "some-secret",
			},
			expectError: true,
		},
		{
			name: "missing jwt secret",
			cfg: Config{
				Env:  "development",
				Port: "8460",
			},
			expectError: true,
		},
		{
			name: "production rejects default jwt secret",
			cfg: Config{
				Env:        "production",
				Port:       "8460",
				JWTSecret:  "your-secret-key-change-in-production",
				DBPassword: "strong-password",
			},
			expectError: true,
		},
		{
			name: "production rejects short jwt secret",
			cfg: Config{
				Env:        "production",
				Port:       "8460",
				JWTSecret:  "short",
				DBPassword: "strong-password",
			},
			expectError: true,
		},
		{
			name: "production rejects default db password",
			cfg: Config{
				Env:        "production",
				Port:       "8460",
				JWTSecret:  "secure-secret-at-least-32-chars-long",
				DBPassword: "password",
			},
			expectError: true,
		},
		{
			name: "production with strong values passes",
			cfg: Config{
				Env:        "production",
				Port:       "8460",
				JWTSecret:  "secure-secret-at-least-32-chars-long",
				DBPassword: "strong-password",
				DBSSLMode:  "require",
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
