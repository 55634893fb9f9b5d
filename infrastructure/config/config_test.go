package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "statdash/pkg/errors"
)

func setRequired(t *testing.T) {
	t.Setenv("CAPACITIES_API_TOKEN", "token")
	t.Setenv("CAPACITIES_SPACE_ID", "space")
	for _, key := range []string{"PORT", "SERVER_ADDRESS", "AWS_LAMBDA_FUNCTION_NAME", "ENVIRONMENT", "LOG_LEVEL", "JWT_SECRET", "AUTH_ENABLED", "REQUESTS_PER_MINUTE"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.ServerAddress)
	assert.Equal(t, "https://api.capacities.io", cfg.CapacitiesBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 1000, cfg.FetchLimit)
	assert.Equal(t, 10, cfg.TopStructuresLimit)
	assert.Equal(t, 15, cfg.ReportStructuresLimit)
	assert.Equal(t, "capacities://", cfg.ReferenceMarker)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 120, cfg.RequestsPerMinute)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsLambda)

	domain := cfg.Domain()
	assert.Equal(t, 1000, domain.FetchLimit)
	assert.Equal(t, 0.15, domain.EstimationJitter)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("HTTP_TIMEOUT", "2500")
	t.Setenv("FETCH_LIMIT", "200")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "statdash-api")
	t.Setenv("ESTIMATION_SEED", "42")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, 2500*time.Millisecond, cfg.HTTPTimeout)
	assert.Equal(t, 200, cfg.Domain().FetchLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsLambda)
	assert.Equal(t, int64(42), cfg.EstimationSeed)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing token", env: map[string]string{"CAPACITIES_SPACE_ID": "space"}},
		{name: "missing space", env: map[string]string{"CAPACITIES_API_TOKEN": "token"}},
		{name: "bad url", env: map[string]string{"CAPACITIES_API_TOKEN": "t", "CAPACITIES_SPACE_ID": "s", "CAPACITIES_API_BASE_URL": "nope"}},
		{name: "bad limit", env: map[string]string{"CAPACITIES_API_TOKEN": "t", "CAPACITIES_SPACE_ID": "s", "FETCH_LIMIT": "-1"}},
		{name: "bad log level", env: map[string]string{"CAPACITIES_API_TOKEN": "t", "CAPACITIES_SPACE_ID": "s", "LOG_LEVEL": "loud"}},
		{name: "auth without secret", env: map[string]string{"CAPACITIES_API_TOKEN": "t", "CAPACITIES_SPACE_ID": "s", "AUTH_ENABLED": "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv("CAPACITIES_API_TOKEN", "")
			t.Setenv("CAPACITIES_SPACE_ID", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestValidate_ProductionSecretLength(t *testing.T) {
	setRequired(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("JWT_SECRET", "short")

	_, err := LoadConfig()

	assert.ErrorContains(t, err, "at least 32 characters")
}
