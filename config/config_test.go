package config

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	validSigningKey    = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	validEncryptionKey = base64.StdEncoding.EncodeToString([]byte("fedcba9876543210fedcba9876543210"))
)

func TestIsAuthEnabled(t *testing.T) {
	tests := []struct {
		name string
		auth AuthConfig
		want bool
	}{
		{"both keys", AuthConfig{SigningKey: validSigningKey, EncryptionKey: validEncryptionKey}, true},
		{"both blank", AuthConfig{}, false},
		{"whitespace keys", AuthConfig{SigningKey: "  ", EncryptionKey: "\t"}, false},
		{"signing only", AuthConfig{SigningKey: validSigningKey}, false},
		{"encryption only", AuthConfig{EncryptionKey: validEncryptionKey}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAuthEnabled(tt.auth))
		})
	}
}

func TestAuthConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		auth    AuthConfig
		wantErr string
	}{
		{"disabled", AuthConfig{}, ""},
		{"valid", AuthConfig{SigningKey: validSigningKey, EncryptionKey: validEncryptionKey}, ""},
		{"missing encryption", AuthConfig{SigningKey: validSigningKey}, "'AUTH_ENCRYPTION_KEY' is missing"},
		{"missing signing", AuthConfig{EncryptionKey: validEncryptionKey}, "'AUTH_SIGNING_KEY' is missing"},
		{"bad base64", AuthConfig{SigningKey: "not base64!!", EncryptionKey: validEncryptionKey}, "'AUTH_SIGNING_KEY' must be a valid Base64 string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.auth.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrAuthConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAuthConfig_ClockSkew(t *testing.T) {
	assert.Equal(t, 2*time.Minute, AuthConfig{ClockSkewMinutes: 2}.ClockSkew())
	assert.Equal(t, time.Duration(0), AuthConfig{ClockSkewMinutes: -5}.ClockSkew())
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(EnvAuthSigningKey, "")
	t.Setenv(EnvAuthEncryptionKey, "")
	t.Setenv("AUTH_CLOCK_SKEW_MINUTES", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultClockSkewMinutes, cfg.Auth.ClockSkewMinutes)
	assert.True(t, cfg.Auth.EncryptAccessToken)
	assert.False(t, IsAuthEnabled(cfg.Auth))
	assert.Equal(t, time.Hour, cfg.Reminder.Interval)
}

func TestLoadConfig_RejectsHalfConfiguredKeys(t *testing.T) {
	t.Setenv(EnvAuthSigningKey, validSigningKey)
	t.Setenv(EnvAuthEncryptionKey, "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthConfig)
}

func TestLoadConfig_ParsesLists(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	t.Setenv(EnvAuthSigningKey, "")
	t.Setenv(EnvAuthEncryptionKey, "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Notify.KafkaBrokers)
}

func TestProvider_ReloadKeepsSnapshotOnError(t *testing.T) {
	initial := &Config{Auth: AuthConfig{SigningKey: validSigningKey, EncryptionKey: validEncryptionKey}}
	calls := 0
	provider := NewProvider(initial, func() (*Config, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return &Config{}, nil
	})

	assert.True(t, provider.AuthEnabled())

	_, err := provider.Reload()
	require.Error(t, err)
	assert.Same(t, initial, provider.Get())
	assert.True(t, provider.AuthEnabled())

	_, err = provider.Reload()
	require.NoError(t, err)
	assert.False(t, provider.AuthEnabled())
}
