package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig(t *testing.T) {
	tests := []struct {
		name          string
		secret        string
		expiration    string
		expectedHours int
		wantErr       string
	}{
		{name: "default expiration", secret: "test-secret-key", expectedHours: 24},
		{name: "custom expiration", secret: "test-secret-key", expiration: "12", expectedHours: 12},
		{name: "one week", secret: "test-secret-key", expiration: "168", expectedHours: 168},
		{name: "missing secret", wantErr: "JWT_SECRET"},
		{name: "non-numeric expiration", secret: "s", expiration: "soon", wantErr: "invalid JWT_EXPIRATION_HOURS"},
		{name: "zero expiration", secret: "s", expiration: "0", wantErr: "at least 1 hour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("JWT_EXPIRATION_HOURS", tt.expiration)

			cfg, err := NewJWTConfig()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Nil(t, cfg)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.secret, cfg.Secret)
			assert.Equal(t, tt.expectedHours, cfg.ExpirationHours)
		})
	}
}

func TestConfigJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	disabled, err := (&Config{}).JWT()
	require.NoError(t, err)
	assert.Nil(t, disabled)

	fromConfig, err := (&Config{JWTSecret: "from-file", JWTExpirationHours: 2}).JWT()
	require.NoError(t, err)
	assert.Equal(t, "from-file", fromConfig.Secret)
	assert.Equal(t, 2, fromConfig.ExpirationHours)

	defaulted, err := (&Config{JWTSecret: "from-file"}).JWT()
	require.NoError(t, err)
	assert.Equal(t, 24, defaulted.ExpirationHours)

	t.Setenv("JWT_SECRET", "from-env")
	fromEnv, err := (&Config{}).JWT()
	require.NoError(t, err)
	assert.Equal(t, "from-env", fromEnv.Secret)
}
