package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://file::memory:")
	t.Setenv("PORT", "")
	t.Setenv("PAYMENT_CURRENCY", "USD")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,,")
	defer SetConfig(nil)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "usd", cfg.PaymentCurrency, "currency is normalised to lower case")
	assert.Equal(t, 15*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Same(t, cfg, GetConfig(), "Load should register the config globally")
}

func TestLoadParsesDurationsAndInts(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://file::memory:")
	t.Setenv("PAYMENT_TIMEOUT", "3s")
	t.Setenv("MENU_CACHE_TTL", "90s")
	t.Setenv("SMTP_PORT", "2525")
	defer SetConfig(nil)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, 90*time.Second, cfg.MenuCacheTTL)
	assert.Equal(t, 2525, cfg.SMTPPort)
}

func TestLoadFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://file::memory:")
	t.Setenv("PAYMENT_TIMEOUT", "soon")
	t.Setenv("SMTP_PORT", "abc")
	defer SetConfig(nil)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing database url",
			cfg:     Config{PaymentTimeout: time.Second, EmailTimeout: time.Second},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "production without jwt secret",
			cfg:     Config{DatabaseURL: "x", GoEnv: "production", PaymentTimeout: time.Second, EmailTimeout: time.Second},
			wantErr: "JWT_SECRET is required in production",
		},
		{
			name:    "zero payment timeout",
			cfg:     Config{DatabaseURL: "x", EmailTimeout: time.Second},
			wantErr: "PAYMENT_TIMEOUT must be positive",
		},
		{
			name: "valid development config",
			cfg:  Config{DatabaseURL: "x", GoEnv: "development", PaymentTimeout: time.Second, EmailTimeout: time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	assert.True(t, (&Config{GoEnv: "production"}).IsProduction())
	assert.True(t, (&Config{GoEnv: "test"}).IsTest())
	assert.True(t, (&Config{GoEnv: "development"}).IsDevelopment())
	assert.False(t, (&Config{}).StorageEnabled())
	assert.True(t, (&Config{AWSS3Bucket: "menu"}).StorageEnabled())
}

func TestSigningSecret(t *testing.T) {
	assert.Equal(t, []byte("s3cret"), (&Config{JWTSecret: "s3cret"}).SigningSecret())
	assert.NotEmpty(t, (&Config{}).SigningSecret())
}
