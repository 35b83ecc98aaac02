package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DevDefaultsAPIURL(t *testing.T) {
	t.Setenv("ENV", "DEV")
	t.Setenv("API_URL", "")
	t.Setenv("NEXT_PUBLIC_API_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, DevAPIURL, cfg.APIURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
}

func TestLoadConfig_FrontendVariableFallback(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("API_URL", "")
	t.Setenv("NEXT_PUBLIC_API_URL", "https://api.example.org/api/")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.org/api", cfg.APIURL)
}

func TestValidate(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("API_URL", "")
	t.Setenv("NEXT_PUBLIC_API_URL", "")
	t.Setenv("DB_HOST", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	_, err = cfg.Validate()
	assert.Error(t, err, "в prod без API_URL консоль не стартует")

	cfg.APIURL = "https://api.example.org"
	warnings, err := cfg.Validate()
	require.NoError(t, err)
	assert.Contains(t, warnings, "DB_HOST is empty, drafts are kept in memory")

	cfg.DbHost = "db"
	_, err = cfg.Validate()
	assert.Error(t, err)
}
